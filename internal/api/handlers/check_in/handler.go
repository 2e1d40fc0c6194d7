package check_in

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SportHub/internal/api/handlers"
	"github.com/m04kA/SMC-SportHub/internal/api/middleware"
	checkIn "github.com/m04kA/SMC-SportHub/internal/usecase/check_in"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingActor        = "требуется авторизация"
	msgInvalidEventID      = "некорректный ID события"
	msgEventNotFound       = "событие не найдено"
	msgParticipantNotFound = "профиль участника не найден"
	msgReservationNotFound = "бронирование не найдено"
	msgNotEligible         = "отметка недоступна: бронирование не оплачено, отменено или в листе ожидания"
	msgCapacityExceeded    = "все места на событие заняты"
	msgEventEnded          = "событие уже закончилось"
	msgCheckedIn           = "прибытие отмечено"
)

type Handler struct {
	useCase CheckInUseCase
	logger  Logger
}

func NewHandler(useCase CheckInUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/participant/check-in
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req CheckInRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /participant/check-in - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &checkIn.Request{UserID: actor.UserID, EventID: req.EventID})
	if err != nil {
		switch {
		case errors.Is(err, checkIn.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidEventID)

		case errors.Is(err, checkIn.ErrEventNotFound):
			h.logger.Warn("POST /participant/check-in - Event not found: event_id=%d", req.EventID)
			handlers.RespondNotFound(w, msgEventNotFound)

		case errors.Is(err, checkIn.ErrParticipantNotFound):
			h.logger.Warn("POST /participant/check-in - Participant not found: user_id=%d", actor.UserID)
			handlers.RespondUnauthorized(w, msgParticipantNotFound)

		case errors.Is(err, checkIn.ErrReservationNotFound):
			h.logger.Warn("POST /participant/check-in - Reservation not found: user_id=%d, event_id=%d", actor.UserID, req.EventID)
			handlers.RespondForbidden(w, msgReservationNotFound)

		case errors.Is(err, checkIn.ErrNotEligible):
			h.logger.Warn("POST /participant/check-in - Not eligible: user_id=%d, event_id=%d", actor.UserID, req.EventID)
			handlers.RespondForbidden(w, msgNotEligible)

		case errors.Is(err, checkIn.ErrCapacityExceeded):
			h.logger.Warn("POST /participant/check-in - Capacity exceeded: event_id=%d", req.EventID)
			handlers.RespondForbidden(w, msgCapacityExceeded)

		case errors.Is(err, checkIn.ErrEventEnded):
			h.logger.Warn("POST /participant/check-in - Event ended: event_id=%d", req.EventID)
			handlers.RespondForbidden(w, msgEventEnded)

		default:
			h.logger.Error("POST /participant/check-in - Failed to check in: user_id=%d, event_id=%d, error=%v",
				actor.UserID, req.EventID, err)
			handlers.RespondInternalErrorWithCause(w, err)
		}
		return
	}

	h.logger.Info("POST /participant/check-in - Checked in: reservation_id=%d, already=%t", result.ID, result.AlreadyChecked)
	handlers.RespondMessage(w, http.StatusCreated, msgCheckedIn, fromUseCaseResponse(result))
}
