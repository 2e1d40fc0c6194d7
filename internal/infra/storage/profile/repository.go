package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SportHub/internal/domain"
	"github.com/m04kA/SMC-SportHub/pkg/dbmetrics"
	"github.com/m04kA/SMC-SportHub/pkg/psqlbuilder"
)

// Repository репозиторий профилей участников и тренеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория профилей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetParticipantByUserID получает профиль участника по ID пользователя
func (r *Repository) GetParticipantByUserID(ctx context.Context, userID int64) (*domain.Participant, error) {
	return r.getParticipant(ctx, "GetParticipantByUserID", squirrel.Eq{"user_id": userID})
}

// GetParticipantByID получает профиль участника по его ID
func (r *Repository) GetParticipantByID(ctx context.Context, id int64) (*domain.Participant, error) {
	return r.getParticipant(ctx, "GetParticipantByID", squirrel.Eq{"id": id})
}

// GetCoachByUserID получает профиль тренера по ID пользователя
func (r *Repository) GetCoachByUserID(ctx context.Context, userID int64) (*domain.Coach, error) {
	return r.getCoach(ctx, "GetCoachByUserID", squirrel.Eq{"user_id": userID})
}

// GetCoachByID получает профиль тренера по его ID
func (r *Repository) GetCoachByID(ctx context.Context, id int64) (*domain.Coach, error) {
	return r.getCoach(ctx, "GetCoachByID", squirrel.Eq{"id": id})
}

// SetCoachVerified меняет флаг верификации тренера
func (r *Repository) SetCoachVerified(ctx context.Context, coachID int64, verified bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("coaches").
		Set("is_verified", verified).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": coachID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetCoachVerified - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetCoachVerified - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetCoachVerified - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrCoachNotFound
	}

	return nil
}

func (r *Repository) getParticipant(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.Participant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "user_id").
		From("participants").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var p domain.Participant
	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrParticipantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan participant: %w", ErrScanRow, op, err)
	}

	return &p, nil
}

func (r *Repository) getCoach(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.Coach, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "user_id", "is_verified").
		From("coaches").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var c domain.Coach
	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.UserID, &c.IsVerified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCoachNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan coach: %w", ErrScanRow, op, err)
	}

	return &c, nil
}
