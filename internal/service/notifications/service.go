package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-SportHub/internal/domain"
	notificationRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/notification"
	"github.com/m04kA/SMC-SportHub/internal/service/notifications/models"
)

// routingKeyPrefix префикс ключа маршрутизации: notification.<scope>
const routingKeyPrefix = "notification."

// Service диспетчер уведомлений
type Service struct {
	notificationRepo NotificationRepository
	membershipRepo   MembershipRepository
	publisher        Publisher
	publishTimeout   time.Duration
	logger           Logger
}

// NewService создает диспетчер уведомлений
// publisher может быть nil, тогда уведомления только сохраняются в БД
func NewService(
	notificationRepo NotificationRepository,
	membershipRepo MembershipRepository,
	publisher Publisher,
	logger Logger,
) *Service {
	return &Service{
		notificationRepo: notificationRepo,
		membershipRepo:   membershipRepo,
		publisher:        publisher,
		logger:           logger,
	}
}

// WithPublishTimeout ограничивает время публикации одного сообщения в брокер
func (s *Service) WithPublishTimeout(d time.Duration) *Service {
	if d > 0 {
		s.publishTimeout = d
	}
	return s
}

// Dispatch сохраняет уведомление и публикует его в брокер
// Ошибка публикации только логируется: уведомление уже сохранено
func (s *Service) Dispatch(ctx context.Context, draft domain.NotificationDraft) error {
	if err := validateDraft(draft); err != nil {
		s.logger.Warn("Dispatch: invalid notification draft: %v", err)
		return err
	}

	created, err := s.notificationRepo.Create(ctx, &domain.Notification{
		Scope:   draft.Scope,
		UserID:  draft.UserID,
		Role:    draft.Role,
		GroupID: draft.GroupID,
		Title:   draft.Title,
		Message: draft.Message,
	})
	if err != nil {
		s.logger.Error("Dispatch: failed to save notification scope=%s: %v", draft.Scope, err)
		return fmt.Errorf("%w: Dispatch - repository error: %v", ErrInternal, err)
	}

	if s.publisher != nil {
		s.publish(ctx, created)
	}

	s.logger.Info("Dispatch: notification id=%d scope=%s saved", created.ID, created.Scope)
	return nil
}

// ListForUser возвращает уведомления пользователя: личные, общие, для его роли и групп
func (s *Service) ListForUser(ctx context.Context, actor domain.Actor, page, limit int) (*models.NotificationListResponse, error) {
	page, limit = normalizePage(page, limit)

	groupIDs, err := s.membershipRepo.ListUserGroupIDs(ctx, actor.UserID)
	if err != nil {
		s.logger.Error("ListForUser: failed to get groups for user=%d: %v", actor.UserID, err)
		return nil, fmt.Errorf("%w: ListForUser - membership error: %v", ErrInternal, err)
	}

	list, err := s.notificationRepo.ListForUser(ctx, actor.UserID, actor.Role, groupIDs, limit, (page-1)*limit)
	if err != nil {
		s.logger.Error("ListForUser: repository error for user=%d: %v", actor.UserID, err)
		return nil, fmt.Errorf("%w: ListForUser - repository error: %v", ErrInternal, err)
	}

	resp := &models.NotificationListResponse{
		Notifications: make([]models.NotificationResponse, 0, len(list)),
		Page:          page,
		Limit:         limit,
	}
	for _, n := range list {
		resp.Notifications = append(resp.Notifications, models.FromDomainNotification(n))
	}

	return resp, nil
}

// MarkRead отмечает личное уведомление прочитанным
func (s *Service) MarkRead(ctx context.Context, actor domain.Actor, id int64) error {
	if err := s.notificationRepo.MarkRead(ctx, id, actor.UserID); err != nil {
		if errors.Is(err, notificationRepo.ErrNotificationNotFound) {
			s.logger.Warn("MarkRead: notification id=%d not found for user=%d", id, actor.UserID)
			return ErrNotificationNotFound
		}
		s.logger.Error("MarkRead: repository error for notification id=%d: %v", id, err)
		return fmt.Errorf("%w: MarkRead - repository error: %v", ErrInternal, err)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, n *domain.Notification) {
	if s.publishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.publishTimeout)
		defer cancel()
	}

	key := routingKeyPrefix + string(n.Scope)
	if err := s.publisher.PublishJSON(ctx, key, models.ToMessage(n)); err != nil {
		s.logger.Error("Dispatch: failed to publish notification id=%d key=%s: %v", n.ID, key, err)
	}
}

func validateDraft(d domain.NotificationDraft) error {
	var problems []string

	if strings.TrimSpace(d.Title) == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(d.Message) == "" {
		problems = append(problems, "message is required")
	}
	if utf8.RuneCountInString(d.Title) > domain.MaxNotificationTitle {
		problems = append(problems, fmt.Sprintf("title must be at most %d characters", domain.MaxNotificationTitle))
	}
	if utf8.RuneCountInString(d.Message) > domain.MaxNotificationMessage {
		problems = append(problems, fmt.Sprintf("message must be at most %d characters", domain.MaxNotificationMessage))
	}

	switch d.Scope {
	case domain.ScopeUser:
		if d.UserID == nil {
			problems = append(problems, "userId is required for user scope")
		}
	case domain.ScopeRole:
		if d.Role == nil || !d.Role.IsValid() {
			problems = append(problems, "valid role is required for role scope")
		}
	case domain.ScopeGroup:
		if d.GroupID == nil {
			problems = append(problems, "groupId is required for group scope")
		}
	case domain.ScopeGlobal:
	default:
		problems = append(problems, fmt.Sprintf("unknown scope %q", d.Scope))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = domain.DefaultPage
	}
	if limit < 1 {
		limit = domain.DefaultLimit
	}
	if limit > domain.MaxLimit {
		limit = domain.MaxLimit
	}
	return page, limit
}
