package review_join_request

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SportHub/internal/api/handlers"
	"github.com/m04kA/SMC-SportHub/internal/api/middleware"
	"github.com/m04kA/SMC-SportHub/internal/domain"
	"github.com/m04kA/SMC-SportHub/internal/service/clubs"
)

const (
	msgMissingActor     = "требуется авторизация"
	msgInvalidRequestID = "некорректный ID заявки"
	msgNotFound         = "заявка не найдена"
	msgForbidden        = "вы не можете рассматривать эту заявку"
	msgAlreadyReviewed  = "по заявке уже принято другое решение"
	msgInvalidDecision  = "недопустимое решение"
)

type Handler struct {
	service  ClubService
	decision domain.JoinRequestStatus
	logger   Logger
}

func NewHandler(service ClubService, decision domain.JoinRequestStatus, logger Logger) *Handler {
	return &Handler{
		service:  service,
		decision: decision,
		logger:   logger,
	}
}

// Handle PUT /api/v1/join-requests/{requestId}/approve|reject
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	requestID, err := handlers.PathID(r, "requestId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	request, err := h.service.ReviewJoinRequest(r.Context(), actor, requestID, h.decision)
	if err != nil {
		switch {
		case errors.Is(err, clubs.ErrJoinRequestNotFound), errors.Is(err, clubs.ErrClubNotFound), errors.Is(err, clubs.ErrGroupNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, clubs.ErrAccessDenied):
			h.logger.Warn("PUT /join-requests/{id}/%s - Access denied: request_id=%d, user_id=%d", h.decision, requestID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, clubs.ErrAlreadyReviewed):
			handlers.RespondConflict(w, msgAlreadyReviewed)

		case errors.Is(err, clubs.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidDecision)

		default:
			h.logger.Error("PUT /join-requests/{id}/%s - Failed to review: request_id=%d, error=%v", h.decision, requestID, err)
			handlers.RespondInternalErrorWithCause(w, err)
		}
		return
	}

	h.logger.Info("PUT /join-requests/{id}/%s - Reviewed: request_id=%d, status=%s", h.decision, requestID, request.Status)
	handlers.RespondJSON(w, http.StatusOK, request)
}
