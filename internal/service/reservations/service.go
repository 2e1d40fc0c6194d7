package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SportHub/internal/domain"
	eventRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/event"
	profileRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/profile"
	reservationRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-SportHub/internal/service/reservations/models"
	"github.com/m04kA/SMC-SportHub/pkg/ptr"
)

// Service сервис управления бронированиями со стороны тренера и участника
type Service struct {
	reservationRepo ReservationRepository
	eventRepo       EventRepository
	profileRepo     ProfileRepository
	notifier        Notifier
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
// notifier может быть nil
func NewService(
	reservationRepo ReservationRepository,
	eventRepo EventRepository,
	profileRepo ProfileRepository,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		eventRepo:       eventRepo,
		profileRepo:     profileRepo,
		notifier:        notifier,
		logger:          logger,
	}
}

// Approve подтверждает бронирование
// Доступно владельцу события, резервному тренеру и администратору. Повторный вызов ничего не меняет
func (s *Service) Approve(ctx context.Context, actor domain.Actor, reservationID int64) (*models.ReservationResponse, error) {
	s.logger.Info("Approve: reservation id=%d, user=%d", reservationID, actor.UserID)

	reservation, event, err := s.loadManaged(ctx, "Approve", actor, reservationID)
	if err != nil {
		return nil, err
	}

	if reservation.IsApproved {
		s.logger.Info("Approve: reservation id=%d already approved", reservationID)
		return models.FromDomainReservation(reservation), nil
	}

	if err := s.reservationRepo.MarkApproved(ctx, reservationID); err != nil {
		return nil, s.mapUpdateError("Approve", reservationID, err)
	}
	reservation.IsApproved = true

	s.logger.Info("Approve: reservation id=%d approved", reservationID)
	s.notifyParticipant(ctx, "Approve", reservation.ParticipantID, "Reservation approved",
		fmt.Sprintf("Your reservation for %q was approved.", event.Title))

	return models.FromDomainReservation(reservation), nil
}

// ConfirmPayment отмечает бронирование оплаченным
// Те же права, что и у Approve. Повторный вызов ничего не меняет
func (s *Service) ConfirmPayment(ctx context.Context, actor domain.Actor, reservationID int64) (*models.ReservationResponse, error) {
	s.logger.Info("ConfirmPayment: reservation id=%d, user=%d", reservationID, actor.UserID)

	reservation, event, err := s.loadManaged(ctx, "ConfirmPayment", actor, reservationID)
	if err != nil {
		return nil, err
	}

	if reservation.IsPaid {
		s.logger.Info("ConfirmPayment: reservation id=%d already paid", reservationID)
		return models.FromDomainReservation(reservation), nil
	}

	if err := s.reservationRepo.MarkPaid(ctx, reservationID); err != nil {
		return nil, s.mapUpdateError("ConfirmPayment", reservationID, err)
	}
	reservation.IsPaid = true

	s.logger.Info("ConfirmPayment: reservation id=%d paid", reservationID)
	s.notifyParticipant(ctx, "ConfirmPayment", reservation.ParticipantID, "Payment confirmed",
		fmt.Sprintf("Your payment for %q was confirmed.", event.Title))

	return models.FromDomainReservation(reservation), nil
}

// ListEventParticipants возвращает страницу бронирований события с фильтрами по флагам
func (s *Service) ListEventParticipants(ctx context.Context, actor domain.Actor, req *models.ListParticipantsRequest) (*models.ParticipantsPageResponse, error) {
	s.logger.Info("ListEventParticipants: event id=%d, user=%d, page=%d, limit=%d", req.EventID, actor.UserID, req.Page, req.Limit)

	if err := normalizePaging(req); err != nil {
		s.logger.Warn("ListEventParticipants: %v", err)
		return nil, err
	}

	event, err := s.getEvent(ctx, "ListEventParticipants", req.EventID)
	if err != nil {
		return nil, err
	}
	if err := s.checkManager(ctx, "ListEventParticipants", actor, event); err != nil {
		return nil, err
	}

	list, total, err := s.reservationRepo.ListByEvent(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("ListEventParticipants: repository error for event id=%d: %v", req.EventID, err)
		return nil, fmt.Errorf("%w: ListEventParticipants - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListEventParticipants: fetched %d of %d for event id=%d", len(list), total, req.EventID)
	return &models.ParticipantsPageResponse{
		Items: models.FromDomainReservationList(list),
		Total: total,
		Page:  req.Page,
		Limit: req.Limit,
	}, nil
}

// ListMyReservations возвращает бронирования участника
func (s *Service) ListMyReservations(ctx context.Context, actor domain.Actor) (*models.ReservationListResponse, error) {
	participant, err := s.profileRepo.GetParticipantByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, profileRepo.ErrParticipantNotFound) {
			s.logger.Warn("ListMyReservations: user=%d has no participant profile", actor.UserID)
			return nil, ErrParticipantNotFound
		}
		s.logger.Error("ListMyReservations: failed to get participant for user=%d: %v", actor.UserID, err)
		return nil, fmt.Errorf("%w: ListMyReservations - profile error: %v", ErrInternal, err)
	}

	list, err := s.reservationRepo.ListByParticipant(ctx, participant.ID)
	if err != nil {
		s.logger.Error("ListMyReservations: repository error for participant id=%d: %v", participant.ID, err)
		return nil, fmt.Errorf("%w: ListMyReservations - repository error: %v", ErrInternal, err)
	}

	return &models.ReservationListResponse{Reservations: models.FromDomainReservationList(list)}, nil
}

// loadManaged загружает бронирование и событие и проверяет права на управление
func (s *Service) loadManaged(ctx context.Context, op string, actor domain.Actor, reservationID int64) (*domain.Reservation, *domain.Event, error) {
	if reservationID <= 0 {
		return nil, nil, fmt.Errorf("%w: requestId must be positive", ErrInvalidInput)
	}

	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("%s: reservation id=%d not found", op, reservationID)
			return nil, nil, ErrReservationNotFound
		}
		s.logger.Error("%s: repository error for reservation id=%d: %v", op, reservationID, err)
		return nil, nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	event, err := s.getEvent(ctx, op, reservation.EventID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.checkManager(ctx, op, actor, event); err != nil {
		return nil, nil, err
	}

	return reservation, event, nil
}

func (s *Service) getEvent(ctx context.Context, op string, eventID int64) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, eventRepo.ErrEventNotFound) {
			s.logger.Warn("%s: event id=%d not found", op, eventID)
			return nil, ErrEventNotFound
		}
		s.logger.Error("%s: repository error for event id=%d: %v", op, eventID, err)
		return nil, fmt.Errorf("%w: %s - event repository error: %v", ErrInternal, op, err)
	}
	return event, nil
}

// checkManager проверяет, что пользователь администратор, владелец или резервный тренер события
func (s *Service) checkManager(ctx context.Context, op string, actor domain.Actor, event *domain.Event) error {
	if actor.IsAdmin() {
		return nil
	}

	coach, err := s.profileRepo.GetCoachByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, profileRepo.ErrCoachNotFound) {
			s.logger.Warn("%s: user=%d is not a coach", op, actor.UserID)
			return ErrAccessDenied
		}
		s.logger.Error("%s: failed to get coach for user=%d: %v", op, actor.UserID, err)
		return fmt.Errorf("%w: %s - profile error: %v", ErrInternal, op, err)
	}

	if !event.IsManagedBy(coach.ID) {
		s.logger.Warn("%s: coach id=%d does not manage event id=%d", op, coach.ID, event.ID)
		return ErrAccessDenied
	}

	return nil
}

func (s *Service) mapUpdateError(op string, reservationID int64, err error) error {
	if errors.Is(err, reservationRepo.ErrReservationNotFound) {
		s.logger.Warn("%s: reservation id=%d disappeared", op, reservationID)
		return ErrReservationNotFound
	}
	s.logger.Error("%s: failed to update reservation id=%d: %v", op, reservationID, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

func (s *Service) notifyParticipant(ctx context.Context, op string, participantID int64, title, message string) {
	if s.notifier == nil {
		return
	}

	participant, err := s.profileRepo.GetParticipantByID(ctx, participantID)
	if err != nil {
		s.logger.Error("%s: failed to load participant id=%d for notification: %v", op, participantID, err)
		return
	}

	err = s.notifier.Dispatch(ctx, domain.NotificationDraft{
		Scope:   domain.ScopeUser,
		UserID:  ptr.Ptr(participant.UserID),
		Title:   title,
		Message: message,
	})
	if err != nil {
		s.logger.Error("%s: failed to notify participant id=%d: %v", op, participantID, err)
	}
}

func normalizePaging(req *models.ListParticipantsRequest) error {
	if req.Page == 0 {
		req.Page = domain.DefaultPage
	}
	if req.Limit == 0 {
		req.Limit = domain.DefaultLimit
	}
	if req.Page < 1 {
		return fmt.Errorf("%w: page must be at least 1", ErrInvalidInput)
	}
	if req.Limit < 1 || req.Limit > domain.MaxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, domain.MaxLimit)
	}
	return nil
}
