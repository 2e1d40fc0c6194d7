package create_club

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SportHub/internal/api/handlers"
	"github.com/m04kA/SMC-SportHub/internal/api/middleware"
	"github.com/m04kA/SMC-SportHub/internal/service/clubs"
	"github.com/m04kA/SMC-SportHub/internal/service/clubs/models"
)

const (
	msgMissingActor       = "требуется авторизация"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidClub        = "некорректные данные клуба"
	msgForbidden          = "создавать клубы могут тренеры, владельцы и администраторы"
)

type Handler struct {
	service ClubService
	logger  Logger
}

func NewHandler(service ClubService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/clubs
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req models.CreateClubRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /clubs - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	club, err := h.service.CreateClub(r.Context(), actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, clubs.ErrInvalidInput):
			handlers.RespondBadRequest(w, handlers.DetailMessage(err, clubs.ErrInvalidInput, msgInvalidClub))

		case errors.Is(err, clubs.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /clubs - Failed to create club: user_id=%d, error=%v", actor.UserID, err)
			handlers.RespondInternalErrorWithCause(w, err)
		}
		return
	}

	h.logger.Info("POST /clubs - Club created: id=%d, creator_id=%d", club.ID, club.CreatorID)
	handlers.RespondJSON(w, http.StatusCreated, club)
}
