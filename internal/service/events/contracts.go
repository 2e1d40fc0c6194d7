package events

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SportHub/internal/domain"
)

// EventRepository интерфейс репозитория событий
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) (*domain.Event, error)
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
}

// CoachRepository интерфейс репозитория профилей тренеров
type CoachRepository interface {
	GetCoachByUserID(ctx context.Context, userID int64) (*domain.Coach, error)
}

// SportRepository справочник видов спорта
type SportRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Sport, error)
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
