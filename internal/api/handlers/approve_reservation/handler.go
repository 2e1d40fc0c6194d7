package approve_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SportHub/internal/api/handlers"
	"github.com/m04kA/SMC-SportHub/internal/api/middleware"
	"github.com/m04kA/SMC-SportHub/internal/service/reservations"
)

const (
	msgMissingActor         = "требуется авторизация"
	msgInvalidReservationID = "некорректный ID бронирования"
	msgReservationNotFound  = "бронирование не найдено"
	msgEventNotFound        = "событие не найдено"
	msgForbidden            = "вы не управляете этим событием"
	msgDone                 = "бронирование подтверждено"
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

// Handle POST /api/v1/coach/approve-reservation/{requestId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	reservationID, err := handlers.PathID(r, "requestId")
	if err != nil {
		h.logger.Warn("POST /coach/approve-reservation/{id} - %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	result, err := h.service.Approve(r.Context(), actor, reservationID)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("POST /coach/approve-reservation/{id} - Reservation not found: id=%d", reservationID)
			handlers.RespondNotFound(w, msgReservationNotFound)

		case errors.Is(err, reservations.ErrEventNotFound):
			handlers.RespondNotFound(w, msgEventNotFound)

		case errors.Is(err, reservations.ErrAccessDenied):
			h.logger.Warn("POST /coach/approve-reservation/{id} - Access denied: id=%d, user_id=%d", reservationID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /coach/approve-reservation/{id} - Failed: id=%d, error=%v", reservationID, err)
			handlers.RespondInternalErrorWithCause(w, err)
		}
		return
	}

	h.logger.Info("POST /coach/approve-reservation/{id} - Approved: id=%d, user_id=%d", reservationID, actor.UserID)
	handlers.RespondMessage(w, http.StatusCreated, msgDone, result)
}
