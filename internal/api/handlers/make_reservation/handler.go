package make_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SportHub/internal/api/handlers"
	"github.com/m04kA/SMC-SportHub/internal/api/middleware"
	makeReservation "github.com/m04kA/SMC-SportHub/internal/usecase/make_reservation"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingActor        = "требуется авторизация"
	msgInvalidEventID      = "некорректный ID события"
	msgEventNotFound       = "событие не найдено"
	msgParticipantNotFound = "профиль участника не найден"
	msgAlreadyReserved     = "вы уже забронировали это событие"
	msgCapacityExceeded    = "все места на событие заняты"
	msgEventStarted        = "событие уже началось"

	msgConfirmed  = "бронирование создано"
	msgCheckedIn  = "бронирование создано, прибытие отмечено"
	msgWaitListed = "мест нет, вы добавлены в лист ожидания"
)

type Handler struct {
	useCase MakeReservationUseCase
	logger  Logger
}

func NewHandler(useCase MakeReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/participant/make-reservation
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req MakeReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /participant/make-reservation - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(actor.UserID))
	if err != nil {
		switch {
		case errors.Is(err, makeReservation.ErrInvalidInput):
			h.logger.Warn("POST /participant/make-reservation - Invalid input: user_id=%d, event_id=%d", actor.UserID, req.EventID)
			handlers.RespondBadRequest(w, msgInvalidEventID)

		case errors.Is(err, makeReservation.ErrEventNotFound):
			h.logger.Warn("POST /participant/make-reservation - Event not found: event_id=%d", req.EventID)
			handlers.RespondNotFound(w, msgEventNotFound)

		case errors.Is(err, makeReservation.ErrParticipantNotFound):
			h.logger.Warn("POST /participant/make-reservation - Participant not found: user_id=%d", actor.UserID)
			handlers.RespondUnauthorized(w, msgParticipantNotFound)

		case errors.Is(err, makeReservation.ErrAlreadyReserved):
			h.logger.Warn("POST /participant/make-reservation - Duplicate: user_id=%d, event_id=%d", actor.UserID, req.EventID)
			handlers.RespondConflict(w, msgAlreadyReserved)

		case errors.Is(err, makeReservation.ErrCapacityExceeded):
			h.logger.Warn("POST /participant/make-reservation - Capacity exceeded: event_id=%d", req.EventID)
			handlers.RespondForbidden(w, msgCapacityExceeded)

		case errors.Is(err, makeReservation.ErrEventStarted):
			h.logger.Warn("POST /participant/make-reservation - Event started: event_id=%d", req.EventID)
			handlers.RespondBadRequest(w, msgEventStarted)

		default:
			h.logger.Error("POST /participant/make-reservation - Failed to make reservation: user_id=%d, event_id=%d, error=%v",
				actor.UserID, req.EventID, err)
			handlers.RespondInternalErrorWithCause(w, err)
		}
		return
	}

	message := msgConfirmed
	switch {
	case result.IsWaitListed:
		message = msgWaitListed
	case result.IsCheckedIn:
		message = msgCheckedIn
	}

	h.logger.Info("POST /participant/make-reservation - Reservation created: id=%d, event_id=%d, disposition=%s",
		result.ID, result.EventID, result.Disposition)
	handlers.RespondMessage(w, http.StatusCreated, message, FromUseCaseResponse(result))
}
