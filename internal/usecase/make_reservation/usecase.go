package make_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SportHub/internal/domain"
	eventRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/event"
	profileRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/profile"
	reservationRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-SportHub/pkg/ptr"
)

// UseCase распределитель мест на событии
type UseCase struct {
	eventRepo       EventRepository
	reservationRepo ReservationRepository
	profileRepo     ProfileRepository
	txManager       TransactionManager
	notifier        Notifier
	metrics         MetricsRecorder
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
// notifier и metrics могут быть nil
func NewUseCase(
	eventRepo EventRepository,
	reservationRepo ReservationRepository,
	profileRepo ProfileRepository,
	txManager TransactionManager,
	notifier Notifier,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		eventRepo:       eventRepo,
		reservationRepo: reservationRepo,
		profileRepo:     profileRepo,
		txManager:       txManager,
		notifier:        notifier,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute создает бронирование участника на событие
//
// За 48 часов и более до начала: при свободных местах создается обычное бронирование,
// иначе бронирование попадает в лист ожидания.
// Менее чем за 48 часов: места считаются только по отметившимся участникам;
// при свободном месте бронирование сразу создается с отметкой о прибытии, иначе отказ.
//
// Все решения по одному событию сериализуются блокировкой строки события
// внутри сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("MakeReservation: user=%d, event=%d", req.UserID, req.EventID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("MakeReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем профиль участника
	participant, err := uc.profileRepo.GetParticipantByUserID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, profileRepo.ErrParticipantNotFound) {
			uc.logger.Warn("MakeReservation: user=%d has no participant profile", req.UserID)
			return nil, ErrParticipantNotFound
		}
		uc.logger.Error("MakeReservation: failed to get participant for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: failed to get participant: %w", ErrInternal, err)
	}

	var (
		result *domain.Reservation
		event  *domain.Event
	)

	// 3. Все проверки вместимости и создание выполняем в одной транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Блокируем строку события: параллельные бронирования этого события ждут здесь
		locked, err := uc.eventRepo.GetByIDForUpdate(txCtx, req.EventID)
		if err != nil {
			if errors.Is(err, eventRepo.ErrEventNotFound) {
				uc.logger.Warn("MakeReservation: event id=%d not found", req.EventID)
				return ErrEventNotFound
			}
			uc.logger.Error("MakeReservation: failed to get event id=%d: %v", req.EventID, err)
			return fmt.Errorf("%w: failed to get event: %w", ErrInternal, err)
		}
		event = locked

		now := uc.timeProvider.Now()

		// 3.2. Событие уже началось
		if event.HasStarted(now) {
			uc.logger.Warn("MakeReservation: event id=%d already started", event.ID)
			return ErrEventStarted
		}

		// 3.3. Повторное бронирование
		_, err = uc.reservationRepo.GetByParticipantAndEvent(txCtx, participant.ID, event.ID)
		if err == nil {
			uc.logger.Warn("MakeReservation: participant=%d already reserved event id=%d", participant.ID, event.ID)
			return ErrAlreadyReserved
		}
		if !errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Error("MakeReservation: failed to check existing reservation: %v", err)
			return fmt.Errorf("%w: failed to check existing reservation: %w", ErrInternal, err)
		}

		reservation := &domain.Reservation{
			ParticipantID:   participant.ID,
			EventID:         event.ID,
			IsPaid:          event.IsFree(),
			CheckInDeadline: event.CheckInDeadline(),
		}

		// 3.4. Решение о вместимости
		if event.IsWithinCheckInWindow(now) {
			checkedIn, err := uc.reservationRepo.CountByEvent(txCtx, event.ID, true)
			if err != nil {
				uc.logger.Error("MakeReservation: failed to count checked-in reservations: %v", err)
				return fmt.Errorf("%w: failed to count reservations: %w", ErrInternal, err)
			}
			if checkedIn >= event.Capacity {
				uc.logger.Warn("MakeReservation: event id=%d is full inside check-in window, %d/%d checked in",
					event.ID, checkedIn, event.Capacity)
				return ErrCapacityExceeded
			}
			reservation.IsCheckedIn = true
		} else {
			total, err := uc.reservationRepo.CountByEvent(txCtx, event.ID, false)
			if err != nil {
				uc.logger.Error("MakeReservation: failed to count reservations: %v", err)
				return fmt.Errorf("%w: failed to count reservations: %w", ErrInternal, err)
			}
			if total >= event.Capacity {
				uc.logger.Info("MakeReservation: event id=%d is full, %d/%d, adding to wait list",
					event.ID, total, event.Capacity)
				reservation.IsWaitListed = true
			}
		}

		// 3.5. Сохраняем бронирование
		created, err := uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrAlreadyExists) {
				uc.logger.Warn("MakeReservation: concurrent duplicate for participant=%d event id=%d", participant.ID, event.ID)
				return ErrAlreadyReserved
			}
			uc.logger.Error("MakeReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrCapacityExceeded) {
			uc.observe(domain.DispositionRejected)
		}
		return nil, err
	}

	disposition := result.Disposition()
	uc.observe(disposition)
	uc.logger.Info("MakeReservation: created reservation id=%d, disposition=%s", result.ID, disposition)

	// 4. Уведомляем участника, ошибки уведомления не влияют на результат
	uc.notify(ctx, req.UserID, event, disposition)

	return &Response{
		ID:              result.ID,
		ParticipantID:   result.ParticipantID,
		EventID:         result.EventID,
		Disposition:     string(disposition),
		IsApproved:      result.IsApproved,
		IsPaid:          result.IsPaid,
		IsCheckedIn:     result.IsCheckedIn,
		IsWaitListed:    result.IsWaitListed,
		CheckInDeadline: result.CheckInDeadline,
		CreatedAt:       result.CreatedAt,
	}, nil
}

func (uc *UseCase) observe(d domain.Disposition) {
	if uc.metrics != nil {
		uc.metrics.ObserveReservation(string(d))
	}
}

func (uc *UseCase) notify(ctx context.Context, userID int64, event *domain.Event, d domain.Disposition) {
	if uc.notifier == nil {
		return
	}

	message := fmt.Sprintf("Your reservation for %q is confirmed.", event.Title)
	switch d {
	case domain.DispositionWaitListed:
		message = fmt.Sprintf("The event %q is full, you have been added to the wait list.", event.Title)
	case domain.DispositionCheckedIn:
		message = fmt.Sprintf("Your reservation for %q is confirmed and you are checked in.", event.Title)
	}

	err := uc.notifier.Dispatch(ctx, domain.NotificationDraft{
		Scope:   domain.ScopeUser,
		UserID:  ptr.Ptr(userID),
		Title:   "Reservation created",
		Message: message,
	})
	if err != nil {
		uc.logger.Error("MakeReservation: failed to notify user=%d: %v", userID, err)
	}
}
