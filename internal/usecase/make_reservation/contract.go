package make_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SportHub/internal/domain"
)

// EventRepository интерфейс репозитория событий
type EventRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Event, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error)
	GetByParticipantAndEvent(ctx context.Context, participantID, eventID int64) (*domain.Reservation, error)
	CountByEvent(ctx context.Context, eventID int64, onlyCheckedIn bool) (int, error)
}

// ProfileRepository интерфейс репозитория профилей
type ProfileRepository interface {
	GetParticipantByUserID(ctx context.Context, userID int64) (*domain.Participant, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier отправляет уведомления пользователям
type Notifier interface {
	Dispatch(ctx context.Context, draft domain.NotificationDraft) error
}

// MetricsRecorder учитывает исходы бронирований
type MetricsRecorder interface {
	ObserveReservation(disposition string)
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
