package review_branch

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SportHub/internal/domain"
)

// BranchRepository интерфейс репозитория сертификатов
type BranchRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Branch, error)
	GetByCoachID(ctx context.Context, coachID int64) ([]*domain.Branch, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BranchStatus, reviewedAt time.Time) error
}

// CoachRepository интерфейс репозитория профилей тренеров
type CoachRepository interface {
	GetCoachByID(ctx context.Context, id int64) (*domain.Coach, error)
	GetCoachByUserID(ctx context.Context, userID int64) (*domain.Coach, error)
	SetCoachVerified(ctx context.Context, coachID int64, verified bool) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier отправляет уведомления пользователям
type Notifier interface {
	Dispatch(ctx context.Context, draft domain.NotificationDraft) error
}

// MetricsRecorder учитывает решения по сертификатам
type MetricsRecorder interface {
	ObserveBranchReview(decision string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
