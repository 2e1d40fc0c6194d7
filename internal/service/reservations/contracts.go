package reservations

import (
	"context"

	"github.com/m04kA/SMC-SportHub/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	ListByEvent(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, int, error)
	ListByParticipant(ctx context.Context, participantID int64) ([]*domain.Reservation, error)
	MarkApproved(ctx context.Context, id int64) error
	MarkPaid(ctx context.Context, id int64) error
}

// EventRepository интерфейс репозитория событий
type EventRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
}

// ProfileRepository интерфейс репозитория профилей
type ProfileRepository interface {
	GetParticipantByUserID(ctx context.Context, userID int64) (*domain.Participant, error)
	GetParticipantByID(ctx context.Context, id int64) (*domain.Participant, error)
	GetCoachByUserID(ctx context.Context, userID int64) (*domain.Coach, error)
}

// Notifier отправляет уведомления пользователям
type Notifier interface {
	Dispatch(ctx context.Context, draft domain.NotificationDraft) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
