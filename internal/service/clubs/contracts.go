package clubs

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SportHub/internal/domain"
)

// ClubRepository интерфейс репозитория клубов
type ClubRepository interface {
	CreateClub(ctx context.Context, club *domain.Club) (*domain.Club, error)
	GetClubByID(ctx context.Context, id int64) (*domain.Club, error)
	CreateGroup(ctx context.Context, group *domain.ClubGroup) (*domain.ClubGroup, error)
	GetGroupByID(ctx context.Context, id int64) (*domain.ClubGroup, error)

	CreateInvite(ctx context.Context, invite *domain.Invite) (*domain.Invite, error)
	FindInvite(ctx context.Context, userID, clubID int64, groupID *int64) (*domain.Invite, error)
	DeleteInvite(ctx context.Context, id int64) error

	CreateJoinRequest(ctx context.Context, req *domain.JoinRequest) (*domain.JoinRequest, error)
	GetJoinRequestForUpdate(ctx context.Context, id int64) (*domain.JoinRequest, error)
	FindPendingJoinRequest(ctx context.Context, userID, clubID int64, groupID *int64) (*domain.JoinRequest, error)
	UpdateJoinRequestStatus(ctx context.Context, id int64, status domain.JoinRequestStatus, reviewedBy int64, reviewedAt time.Time) error

	AddClubMember(ctx context.Context, clubID, userID int64) error
	AddGroupMember(ctx context.Context, groupID, userID int64) error
	IsMember(ctx context.Context, userID, clubID int64, groupID *int64) (bool, error)
}

// CoachRepository интерфейс репозитория профилей тренеров
type CoachRepository interface {
	GetCoachByID(ctx context.Context, id int64) (*domain.Coach, error)
	GetCoachByUserID(ctx context.Context, userID int64) (*domain.Coach, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier отправляет уведомления пользователям
type Notifier interface {
	Dispatch(ctx context.Context, draft domain.NotificationDraft) error
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
