package branch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SportHub/internal/domain"
	"github.com/m04kA/SMC-SportHub/internal/infra/storage/pgerr"
	"github.com/m04kA/SMC-SportHub/pkg/dbmetrics"
	"github.com/m04kA/SMC-SportHub/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"coach_id",
	"sport_id",
	"branch_order",
	"status",
	"certificate",
	"reviewed_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с сертификатами (branches) тренеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сертификатов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateBatch вставляет набор сертификатов одним запросом
// Заполняет ID и временные метки в переданных структурах
func (r *Repository) CreateBatch(ctx context.Context, branches []*domain.Branch) ([]*domain.Branch, error) {
	if len(branches) == 0 {
		return branches, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("branches").
		Columns("coach_id", "sport_id", "branch_order", "status", "certificate")
	for _, b := range branches {
		insertBuilder = insertBuilder.Values(b.CoachID, b.SportID, b.BranchOrder, b.Status, b.Certificate)
	}

	query, args, err := insertBuilder.
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBatch - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, ErrDuplicateBranch
		}
		return nil, fmt.Errorf("%w: CreateBatch - execute insert: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	// PostgreSQL возвращает строки RETURNING в порядке VALUES
	i := 0
	for rows.Next() {
		if i >= len(branches) {
			return nil, fmt.Errorf("%w: CreateBatch - unexpected extra row", ErrScanRow)
		}
		if err := rows.Scan(&branches[i].ID, &branches[i].CreatedAt, &branches[i].UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: CreateBatch - scan row: %w", ErrScanRow, err)
		}
		i++
	}
	if err := rows.Err(); err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, ErrDuplicateBranch
		}
		return nil, fmt.Errorf("%w: CreateBatch - rows error: %w", ErrScanRow, err)
	}

	return branches, nil
}

// GetByID получает сертификат по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Branch, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("branches").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var b domain.Branch
	err = executor.QueryRowContext(ctx, query, args...).Scan(branchFields(&b)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBranchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan branch: %w", ErrScanRow, err)
	}

	return &b, nil
}

// GetByCoachID получает все сертификаты тренера, упорядоченные по branch_order
func (r *Repository) GetByCoachID(ctx context.Context, coachID int64) ([]*domain.Branch, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("branches").
		Where(squirrel.Eq{"coach_id": coachID}).
		OrderBy("branch_order ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCoachID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCoachID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	branches := make([]*domain.Branch, 0)
	for rows.Next() {
		var b domain.Branch
		if err := rows.Scan(branchFields(&b)...); err != nil {
			return nil, fmt.Errorf("%w: GetByCoachID - scan row: %w", ErrScanRow, err)
		}
		branches = append(branches, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByCoachID - rows error: %w", ErrScanRow, err)
	}

	return branches, nil
}

// DeleteByCoachID удаляет все сертификаты тренера, возвращает количество удаленных
func (r *Repository) DeleteByCoachID(ctx context.Context, coachID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("branches").
		Where(squirrel.Eq{"coach_id": coachID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByCoachID - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByCoachID - execute delete: %w", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByCoachID - get rows affected: %v", ErrExecQuery, err)
	}

	return deleted, nil
}

// UpdateStatus меняет статус сертификата и фиксирует время проверки
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BranchStatus, reviewedAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("branches").
		Set("status", status).
		Set("reviewed_at", reviewedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBranchNotFound
	}

	return nil
}

func branchFields(b *domain.Branch) []interface{} {
	return []interface{}{
		&b.ID,
		&b.CoachID,
		&b.SportID,
		&b.BranchOrder,
		&b.Status,
		&b.Certificate,
		&b.ReviewedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	}
}
