package notifications

import (
	"context"

	"github.com/m04kA/SMC-SportHub/internal/domain"
)

// NotificationRepository интерфейс репозитория уведомлений
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	ListForUser(ctx context.Context, userID int64, role domain.Role, groupIDs []int64, limit, offset int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
}

// MembershipRepository источник групп, в которых состоит пользователь
type MembershipRepository interface {
	ListUserGroupIDs(ctx context.Context, userID int64) ([]int64, error)
}

// Publisher публикует события в брокер сообщений
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
