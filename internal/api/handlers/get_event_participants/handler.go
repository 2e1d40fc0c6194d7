package get_event_participants

import (
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/SMC-SportHub/internal/api/handlers"
	"github.com/m04kA/SMC-SportHub/internal/api/middleware"
	"github.com/m04kA/SMC-SportHub/internal/service/reservations"
	"github.com/m04kA/SMC-SportHub/internal/service/reservations/models"
)

const (
	msgMissingActor       = "требуется авторизация"
	msgInvalidEventID     = "некорректный ID события"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidPaging      = "некорректные параметры страницы"
	msgEventNotFound      = "событие не найдено"
	msgForbidden          = "вы не управляете этим событием"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/coach/event/participants/{eventId}
// Тело запроса необязательно: {page, limit, filters}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	eventID, err := handlers.PathID(r, "eventId")
	if err != nil {
		h.logger.Warn("POST /coach/event/participants/{id} - %v", err)
		handlers.RespondBadRequest(w, msgInvalidEventID)
		return
	}

	var req models.ListParticipantsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /coach/event/participants/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.EventID = eventID

	result, err := h.service.ListEventParticipants(r.Context(), actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrInvalidInput):
			handlers.RespondBadRequest(w, handlers.DetailMessage(err, reservations.ErrInvalidInput, msgInvalidPaging))

		case errors.Is(err, reservations.ErrEventNotFound):
			h.logger.Warn("POST /coach/event/participants/{id} - Event not found: event_id=%d", eventID)
			handlers.RespondNotFound(w, msgEventNotFound)

		case errors.Is(err, reservations.ErrAccessDenied):
			h.logger.Warn("POST /coach/event/participants/{id} - Access denied: event_id=%d, user_id=%d", eventID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /coach/event/participants/{id} - Failed to list participants: event_id=%d, error=%v", eventID, err)
			handlers.RespondInternalErrorWithCause(w, err)
		}
		return
	}

	h.logger.Info("POST /coach/event/participants/{id} - Listed: event_id=%d, total=%d", eventID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
