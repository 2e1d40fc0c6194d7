package replace_branches

import (
	"context"
	"io"

	"github.com/m04kA/SMC-SportHub/internal/domain"
)

// BranchRepository интерфейс репозитория сертификатов
type BranchRepository interface {
	GetByCoachID(ctx context.Context, coachID int64) ([]*domain.Branch, error)
	DeleteByCoachID(ctx context.Context, coachID int64) (int64, error)
	CreateBatch(ctx context.Context, branches []*domain.Branch) ([]*domain.Branch, error)
}

// CoachRepository интерфейс репозитория профилей тренеров
type CoachRepository interface {
	GetCoachByUserID(ctx context.Context, userID int64) (*domain.Coach, error)
	SetCoachVerified(ctx context.Context, coachID int64, verified bool) error
}

// SportRepository справочник видов спорта
type SportRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Sport, error)
}

// FileStorage хранилище загруженных файлов
type FileStorage interface {
	Save(r io.Reader, originalName string) (string, error)
	Remove(name string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
