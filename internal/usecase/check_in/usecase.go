package check_in

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SportHub/internal/domain"
	eventRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/event"
	profileRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/profile"
	reservationRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/reservation"
)

// UseCase отметка участника о прибытии на событие
type UseCase struct {
	eventRepo       EventRepository
	reservationRepo ReservationRepository
	profileRepo     ProfileRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	eventRepo EventRepository,
	reservationRepo ReservationRepository,
	profileRepo ProfileRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		eventRepo:       eventRepo,
		reservationRepo: reservationRepo,
		profileRepo:     profileRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute отмечает прибытие участника
// Выполняется под той же блокировкой события, что и бронирование,
// поэтому число отметившихся никогда не превышает вместимость
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckIn: user=%d, event=%d", req.UserID, req.EventID)

	// 1. Валидация входных данных
	if req.UserID <= 0 || req.EventID <= 0 {
		uc.logger.Warn("CheckIn: invalid request user=%d event=%d", req.UserID, req.EventID)
		return nil, fmt.Errorf("%w: userId and eventId must be positive", ErrInvalidInput)
	}

	// 2. Получаем профиль участника
	participant, err := uc.profileRepo.GetParticipantByUserID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, profileRepo.ErrParticipantNotFound) {
			uc.logger.Warn("CheckIn: user=%d has no participant profile", req.UserID)
			return nil, ErrParticipantNotFound
		}
		uc.logger.Error("CheckIn: failed to get participant for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: failed to get participant: %w", ErrInternal, err)
	}

	var resp *Response

	// 3. Проверки и отметка в одной транзакции с блокировкой события
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		event, err := uc.eventRepo.GetByIDForUpdate(txCtx, req.EventID)
		if err != nil {
			if errors.Is(err, eventRepo.ErrEventNotFound) {
				uc.logger.Warn("CheckIn: event id=%d not found", req.EventID)
				return ErrEventNotFound
			}
			uc.logger.Error("CheckIn: failed to get event id=%d: %v", req.EventID, err)
			return fmt.Errorf("%w: failed to get event: %w", ErrInternal, err)
		}

		reservation, err := uc.reservationRepo.GetByParticipantAndEvent(txCtx, participant.ID, event.ID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				uc.logger.Warn("CheckIn: participant=%d has no reservation for event id=%d", participant.ID, event.ID)
				return ErrReservationNotFound
			}
			uc.logger.Error("CheckIn: failed to get reservation: %v", err)
			return fmt.Errorf("%w: failed to get reservation: %w", ErrInternal, err)
		}

		// 3.1. Повторная отметка возвращает бронирование без изменений
		if reservation.IsCheckedIn {
			uc.logger.Info("CheckIn: reservation id=%d already checked in", reservation.ID)
			resp = toResponse(reservation, true)
			return nil
		}

		if !reservation.CanCheckIn() {
			uc.logger.Warn("CheckIn: reservation id=%d not eligible (paid=%t, waitlisted=%t, cancelled=%t)",
				reservation.ID, reservation.IsPaid, reservation.IsWaitListed, reservation.IsCancelled)
			return ErrNotEligible
		}

		if event.HasEnded(uc.timeProvider.Now()) {
			uc.logger.Warn("CheckIn: event id=%d already ended", event.ID)
			return ErrEventEnded
		}

		// 3.2. Проверка вместимости по отметившимся
		checkedIn, err := uc.reservationRepo.CountByEvent(txCtx, event.ID, true)
		if err != nil {
			uc.logger.Error("CheckIn: failed to count checked-in reservations: %v", err)
			return fmt.Errorf("%w: failed to count reservations: %w", ErrInternal, err)
		}
		if checkedIn >= event.Capacity {
			uc.logger.Warn("CheckIn: event id=%d full, %d/%d checked in", event.ID, checkedIn, event.Capacity)
			return ErrCapacityExceeded
		}

		if err := uc.reservationRepo.MarkCheckedIn(txCtx, reservation.ID); err != nil {
			uc.logger.Error("CheckIn: failed to mark reservation id=%d: %v", reservation.ID, err)
			return fmt.Errorf("%w: failed to mark checked in: %w", ErrInternal, err)
		}

		reservation.IsCheckedIn = true
		reservation.UpdatedAt = uc.timeProvider.Now()
		resp = toResponse(reservation, false)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CheckIn: reservation id=%d checked in", resp.ID)
	return resp, nil
}

func toResponse(r *domain.Reservation, already bool) *Response {
	return &Response{
		ID:             r.ID,
		ParticipantID:  r.ParticipantID,
		EventID:        r.EventID,
		IsCheckedIn:    true,
		AlreadyChecked: already,
		UpdatedAt:      r.UpdatedAt,
	}
}
