package create_event

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SportHub/internal/api/handlers"
	"github.com/m04kA/SMC-SportHub/internal/api/middleware"
	"github.com/m04kA/SMC-SportHub/internal/service/events"
	"github.com/m04kA/SMC-SportHub/internal/service/events/models"
)

const (
	msgMissingActor       = "требуется авторизация"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidEvent       = "некорректные данные события"
	msgCoachNotFound      = "профиль тренера не найден"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service EventService
	logger  Logger
}

func NewHandler(service EventService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/coach/events
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req models.CreateEventRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /coach/events - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	event, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, events.ErrInvalidInput):
			h.logger.Warn("POST /coach/events - Validation failed: user_id=%d, error=%v", actor.UserID, err)
			handlers.RespondBadRequest(w, handlers.DetailMessage(err, events.ErrInvalidInput, msgInvalidEvent))

		case errors.Is(err, events.ErrCoachNotFound):
			handlers.RespondNotFound(w, msgCoachNotFound)

		case errors.Is(err, events.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /coach/events - Failed to create event: user_id=%d, error=%v", actor.UserID, err)
			handlers.RespondInternalErrorWithCause(w, err)
		}
		return
	}

	h.logger.Info("POST /coach/events - Event created: id=%d, owner_id=%d", event.ID, event.OwnerID)
	handlers.RespondJSON(w, http.StatusCreated, event)
}
