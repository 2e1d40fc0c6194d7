package confirm_payment

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
	msgDone                 = "оплата подтверждена"
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

// Handle POST /api/v1/coach/confirm-payment/{requestId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	reservationID, err := handlers.PathID(r, "requestId")
	if err != nil {
		h.logger.Warn("POST /coach/confirm-payment/{id} - %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	result, err := h.service.ConfirmPayment(r.Context(), actor, reservationID)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("POST /coach/confirm-payment/{id} - Reservation not found: id=%d", reservationID)
			handlers.RespondNotFound(w, msgReservationNotFound)

		case errors.Is(err, reservations.ErrEventNotFound):
			handlers.RespondNotFound(w, msgEventNotFound)

		case errors.Is(err, reservations.ErrAccessDenied):
			h.logger.Warn("POST /coach/confirm-payment/{id} - Access denied: id=%d, user_id=%d", reservationID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /coach/confirm-payment/{id} - Failed: id=%d, error=%v", reservationID, err)
			handlers.RespondInternalErrorWithCause(w, err)
		}
		return
	}

	h.logger.Info("POST /coach/confirm-payment/{id} - Payment confirmed: id=%d, user_id=%d", reservationID, actor.UserID)
	handlers.RespondMessage(w, http.StatusCreated, msgDone, result)
}
