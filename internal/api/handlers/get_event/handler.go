package get_event

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SportHub/internal/api/handlers"
	"github.com/m04kA/SMC-SportHub/internal/api/middleware"
	"github.com/m04kA/SMC-SportHub/internal/service/events"
)

const (
	msgMissingActor   = "требуется авторизация"
	msgInvalidEventID = "некорректный ID события"
	msgEventNotFound  = "событие не найдено"
	msgForbidden      = "событие приватное, нужен токен доступа"
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

// Handle GET /api/v1/events/{eventId}?token=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	eventID, err := handlers.PathID(r, "eventId")
	if err != nil {
		h.logger.Warn("GET /events/{id} - %v", err)
		handlers.RespondBadRequest(w, msgInvalidEventID)
		return
	}

	event, err := h.service.Get(r.Context(), actor, eventID, r.URL.Query().Get("token"))
	if err != nil {
		switch {
		case errors.Is(err, events.ErrEventNotFound):
			handlers.RespondNotFound(w, msgEventNotFound)

		case errors.Is(err, events.ErrAccessDenied):
			h.logger.Warn("GET /events/{id} - Private event without token: event_id=%d, user_id=%d", eventID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /events/{id} - Failed to get event: event_id=%d, error=%v", eventID, err)
			handlers.RespondInternalErrorWithCause(w, err)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, event)
}
