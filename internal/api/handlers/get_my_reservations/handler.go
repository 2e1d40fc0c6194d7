package get_my_reservations

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SportHub/internal/api/handlers"
	"github.com/m04kA/SMC-SportHub/internal/api/middleware"
	"github.com/m04kA/SMC-SportHub/internal/service/reservations"
)

const (
	msgMissingActor        = "требуется авторизация"
	msgParticipantNotFound = "профиль участника не найден"
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

// Handle GET /api/v1/participant/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	result, err := h.service.ListMyReservations(r.Context(), actor)
	if err != nil {
		if errors.Is(err, reservations.ErrParticipantNotFound) {
			h.logger.Warn("GET /participant/reservations - Participant not found: user_id=%d", actor.UserID)
			handlers.RespondUnauthorized(w, msgParticipantNotFound)
			return
		}
		h.logger.Error("GET /participant/reservations - Failed to list: user_id=%d, error=%v", actor.UserID, err)
		handlers.RespondInternalErrorWithCause(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
