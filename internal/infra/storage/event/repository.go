package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SportHub/internal/domain"
	"github.com/m04kA/SMC-SportHub/internal/infra/storage/pgerr"
	"github.com/m04kA/SMC-SportHub/pkg/dbmetrics"
	"github.com/m04kA/SMC-SportHub/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"title",
	"owner_id",
	"backup_coach_id",
	"start_time",
	"end_time",
	"capacity",
	"pricing_type",
	"fee",
	"is_private",
	"private_token",
	"sport_id",
	"style_id",
	"sport_group_id",
	"facility_id",
	"salon_id",
	"location",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с событиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория событий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое событие
func (r *Repository) Create(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("events").
		Columns(
			"title",
			"owner_id",
			"backup_coach_id",
			"start_time",
			"end_time",
			"capacity",
			"pricing_type",
			"fee",
			"is_private",
			"private_token",
			"sport_id",
			"style_id",
			"sport_group_id",
			"facility_id",
			"salon_id",
			"location",
		).
		Values(
			event.Title,
			event.OwnerID,
			event.BackupCoachID,
			event.StartTime,
			event.EndTime,
			event.Capacity,
			event.PricingType,
			event.Fee,
			event.IsPrivate,
			event.PrivateToken,
			event.SportID,
			event.StyleID,
			event.SportGroupID,
			event.FacilityID,
			event.SalonID,
			event.Location,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		if pgerr.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidReference, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return event, nil
}

// GetByID получает событие по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate получает событие по ID и, если запрос идет в транзакции,
// блокирует строку события до её завершения (SELECT ... FOR UPDATE).
// Используется для сериализации решений о вместимости по одному событию
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Event, error) {
	return r.getByID(ctx, id, dbmetrics.IsInTransaction(ctx))
}

func (r *Repository) getByID(ctx context.Context, id int64, lock bool) (*domain.Event, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("events").
		Where(squirrel.Eq{"id": id})
	if lock {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	event, err := scanEvent(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan event: %w", ErrScanRow, err)
	}

	return event, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	var e domain.Event
	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.OwnerID,
		&e.BackupCoachID,
		&e.StartTime,
		&e.EndTime,
		&e.Capacity,
		&e.PricingType,
		&e.Fee,
		&e.IsPrivate,
		&e.PrivateToken,
		&e.SportID,
		&e.StyleID,
		&e.SportGroupID,
		&e.FacilityID,
		&e.SalonID,
		&e.Location,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
