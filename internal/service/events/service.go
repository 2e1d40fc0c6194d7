package events

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SportHub/internal/domain"
	eventRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/event"
	profileRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/profile"
	"github.com/m04kA/SMC-SportHub/internal/service/events/models"
	"github.com/m04kA/SMC-SportHub/pkg/ptr"
)

// Service сервис событий
type Service struct {
	eventRepo    EventRepository
	coachRepo    CoachRepository
	sportRepo    SportRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса событий
func NewService(
	eventRepo EventRepository,
	coachRepo CoachRepository,
	sportRepo SportRepository,
	logger Logger,
) *Service {
	return &Service{
		eventRepo:    eventRepo,
		coachRepo:    coachRepo,
		sportRepo:    sportRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Create создает событие от имени тренера
// Приватное событие получает случайный токен доступа
func (s *Service) Create(ctx context.Context, actor domain.Actor, req *models.CreateEventRequest) (*models.EventResponse, error) {
	s.logger.Info("CreateEvent: user=%d, title=%q, sport=%d", actor.UserID, req.Title, req.SportID)

	coach, err := s.coachRepo.GetCoachByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, profileRepo.ErrCoachNotFound) {
			s.logger.Warn("CreateEvent: user=%d has no coach profile", actor.UserID)
			return nil, ErrCoachNotFound
		}
		s.logger.Error("CreateEvent: failed to get coach for user=%d: %v", actor.UserID, err)
		return nil, fmt.Errorf("%w: CreateEvent - profile error: %v", ErrInternal, err)
	}

	if err := validateCreate(req, coach.ID, s.timeProvider); err != nil {
		s.logger.Warn("CreateEvent: validation failed: %v", err)
		return nil, err
	}

	sports, err := s.sportRepo.GetByIDs(ctx, []int64{req.SportID})
	if err != nil {
		s.logger.Error("CreateEvent: failed to get sport id=%d: %v", req.SportID, err)
		return nil, fmt.Errorf("%w: CreateEvent - sport error: %v", ErrInternal, err)
	}
	if len(sports) == 0 {
		s.logger.Warn("CreateEvent: sport id=%d does not exist", req.SportID)
		return nil, fmt.Errorf("%w: sport %d does not exist", ErrInvalidInput, req.SportID)
	}

	event := &domain.Event{
		Title:         strings.TrimSpace(req.Title),
		OwnerID:       coach.ID,
		BackupCoachID: req.BackupCoachID,
		StartTime:     req.StartTime.UTC(),
		EndTime:       req.EndTime.UTC(),
		Capacity:      req.Capacity,
		PricingType:   domain.PricingType(req.PricingType),
		Fee:           req.Fee,
		IsPrivate:     req.IsPrivate,
		SportID:       req.SportID,
		StyleID:       req.StyleID,
		SportGroupID:  req.SportGroupID,
		FacilityID:    req.FacilityID,
		SalonID:       req.SalonID,
		Location:      req.Location,
	}
	if event.IsFree() {
		event.Fee = 0
	}
	if event.IsPrivate {
		event.PrivateToken = ptr.Ptr(uuid.NewString())
	}

	created, err := s.eventRepo.Create(ctx, event)
	if err != nil {
		if errors.Is(err, eventRepo.ErrInvalidReference) {
			s.logger.Warn("CreateEvent: invalid reference: %v", err)
			return nil, fmt.Errorf("%w: referenced coach or sport does not exist", ErrInvalidInput)
		}
		s.logger.Error("CreateEvent: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateEvent - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateEvent: created event id=%d by coach id=%d", created.ID, coach.ID)
	return models.FromDomainEvent(created, true), nil
}

// Get возвращает событие
// Приватное событие видно администратору, владельцу, резервному тренеру или по токену
func (s *Service) Get(ctx context.Context, actor domain.Actor, eventID int64, token string) (*models.EventResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, eventRepo.ErrEventNotFound) {
			s.logger.Warn("GetEvent: event id=%d not found", eventID)
			return nil, ErrEventNotFound
		}
		s.logger.Error("GetEvent: repository error for event id=%d: %v", eventID, err)
		return nil, fmt.Errorf("%w: GetEvent - repository error: %v", ErrInternal, err)
	}

	manager, err := s.isManager(ctx, actor, event)
	if err != nil {
		return nil, err
	}

	if event.IsPrivate && !manager && !tokenMatches(event.PrivateToken, token) {
		s.logger.Warn("GetEvent: user=%d has no access to private event id=%d", actor.UserID, eventID)
		return nil, ErrAccessDenied
	}

	return models.FromDomainEvent(event, manager), nil
}

func (s *Service) isManager(ctx context.Context, actor domain.Actor, event *domain.Event) (bool, error) {
	if actor.IsAdmin() {
		return true, nil
	}
	if actor.Role != domain.RoleCoach {
		return false, nil
	}

	coach, err := s.coachRepo.GetCoachByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, profileRepo.ErrCoachNotFound) {
			return false, nil
		}
		s.logger.Error("GetEvent: failed to get coach for user=%d: %v", actor.UserID, err)
		return false, fmt.Errorf("%w: GetEvent - profile error: %v", ErrInternal, err)
	}

	return event.IsManagedBy(coach.ID), nil
}

func tokenMatches(expected *string, got string) bool {
	if expected == nil || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*expected), []byte(got)) == 1
}

func validateCreate(req *models.CreateEventRequest, ownerID int64, clock TimeProvider) error {
	var problems []string

	title := strings.TrimSpace(req.Title)
	if title == "" {
		problems = append(problems, "title is required")
	}
	if utf8.RuneCountInString(title) > domain.MaxEventTitleLength {
		problems = append(problems, fmt.Sprintf("title must be at most %d characters", domain.MaxEventTitleLength))
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		problems = append(problems, "startTime and endTime are required")
	} else {
		if !req.StartTime.Before(req.EndTime) {
			problems = append(problems, "startTime must be before endTime")
		}
		if !req.StartTime.After(clock.Now()) {
			problems = append(problems, "startTime must be in the future")
		}
	}

	if req.Capacity < 1 {
		problems = append(problems, "capacity must be at least 1")
	}

	pricing := domain.PricingType(req.PricingType)
	switch {
	case !pricing.IsValid():
		problems = append(problems, "pricingType must be one of free, stable, manual")
	case pricing == domain.PricingStable && req.Fee <= 0:
		problems = append(problems, "fee must be positive for stable pricing")
	case req.Fee < 0:
		problems = append(problems, "fee must not be negative")
	}

	if req.SportID <= 0 {
		problems = append(problems, "sportId is required")
	}

	if req.Location != nil && utf8.RuneCountInString(*req.Location) > domain.MaxLocationLength {
		problems = append(problems, fmt.Sprintf("location must be at most %d characters", domain.MaxLocationLength))
	}
	probe := domain.Event{FacilityID: req.FacilityID, SalonID: req.SalonID, Location: req.Location}
	if !probe.HasLocation() {
		problems = append(problems, "one of facilityId, salonId or location is required")
	}

	if req.BackupCoachID != nil && *req.BackupCoachID == ownerID {
		problems = append(problems, "backupCoachId must differ from the owner")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}
