package reservation

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

const uniqueParticipantEvent = "reservations_participant_event_key"

var columns = []string{
	"id",
	"participant_id",
	"event_id",
	"is_approved",
	"is_cancelled",
	"is_paid",
	"is_checked_in",
	"is_wait_listed",
	"is_joined",
	"check_in_deadline",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями событий
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Уникальный индекс (participant_id, event_id) гарантирует не более одного бронирования
// участника на событие даже при параллельных запросах
func (r *Repository) Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"participant_id",
			"event_id",
			"is_approved",
			"is_cancelled",
			"is_paid",
			"is_checked_in",
			"is_wait_listed",
			"is_joined",
			"check_in_deadline",
		).
		Values(
			reservation.ParticipantID,
			reservation.EventID,
			reservation.IsApproved,
			reservation.IsCancelled,
			reservation.IsPaid,
			reservation.IsCheckedIn,
			reservation.IsWaitListed,
			reservation.IsJoined,
			reservation.CheckInDeadline,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&reservation.ID,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)
	if err != nil {
		if pgerr.IsUniqueViolation(err, uniqueParticipantEvent) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return reservation, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByParticipantAndEvent получает бронирование участника на событие
func (r *Repository) GetByParticipantAndEvent(ctx context.Context, participantID, eventID int64) (*domain.Reservation, error) {
	return r.getOne(ctx, "GetByParticipantAndEvent", squirrel.Eq{
		"participant_id": participantID,
		"event_id":       eventID,
	})
}

// CountByEvent считает бронирования события
// Если onlyCheckedIn = true, учитываются только бронирования с отметкой о прибытии
func (r *Repository) CountByEvent(ctx context.Context, eventID int64, onlyCheckedIn bool) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("COUNT(*)").
		From("reservations").
		Where(squirrel.Eq{"event_id": eventID})
	if onlyCheckedIn {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_checked_in": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountByEvent - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByEvent - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

// ListByEvent получает страницу бронирований события с фильтрацией по флагам
// Возвращает также общее количество бронирований, подходящих под фильтр
func (r *Repository) ListByEvent(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	where := squirrel.And{squirrel.Eq{"event_id": filter.EventID}}
	flags := []struct {
		column string
		value  *bool
	}{
		{"is_approved", filter.IsApproved},
		{"is_cancelled", filter.IsCancelled},
		{"is_paid", filter.IsPaid},
		{"is_checked_in", filter.IsCheckedIn},
		{"is_wait_listed", filter.IsWaitListed},
		{"is_joined", filter.IsJoined},
	}
	for _, f := range flags {
		if f.value != nil {
			where = append(where, squirrel.Eq{f.column: *f.value})
		}
	}

	countQuery, countArgs, err := psqlbuilder.Select("COUNT(*)").
		From("reservations").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: ListByEvent - build count query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: ListByEvent - scan count: %w", ErrScanRow, err)
	}

	selectBuilder := psqlbuilder.Select(columns...).
		From("reservations").
		Where(where).
		OrderBy("created_at ASC", "id ASC")
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(uint64(filter.Offset))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: ListByEvent - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: ListByEvent - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	reservations, err := scanReservations(rows)
	if err != nil {
		return nil, 0, err
	}

	return reservations, total, nil
}

// ListByParticipant получает все бронирования участника, новые первыми
func (r *Repository) ListByParticipant(ctx context.Context, participantID int64) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("reservations").
		Where(squirrel.Eq{"participant_id": participantID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByParticipant - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByParticipant - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// MarkApproved выставляет флаг подтверждения тренером
func (r *Repository) MarkApproved(ctx context.Context, id int64) error {
	return r.setFlag(ctx, "MarkApproved", id, "is_approved")
}

// MarkPaid выставляет флаг оплаты
func (r *Repository) MarkPaid(ctx context.Context, id int64) error {
	return r.setFlag(ctx, "MarkPaid", id, "is_paid")
}

// MarkCheckedIn выставляет флаг прибытия участника
func (r *Repository) MarkCheckedIn(ctx context.Context, id int64) error {
	return r.setFlag(ctx, "MarkCheckedIn", id, "is_checked_in")
}

func (r *Repository) setFlag(ctx context.Context, op string, id int64, column string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set(column, true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("reservations").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var res domain.Reservation
	err = executor.QueryRowContext(ctx, query, args...).Scan(reservationFields(&res)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan reservation: %w", ErrScanRow, op, err)
	}

	return &res, nil
}

func reservationFields(r *domain.Reservation) []interface{} {
	return []interface{}{
		&r.ID,
		&r.ParticipantID,
		&r.EventID,
		&r.IsApproved,
		&r.IsCancelled,
		&r.IsPaid,
		&r.IsCheckedIn,
		&r.IsWaitListed,
		&r.IsJoined,
		&r.CheckInDeadline,
		&r.CreatedAt,
		&r.UpdatedAt,
	}
}

// scanReservations сканирует результаты запроса в слайс бронирований
func scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(reservationFields(&res)...); err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %w", ErrScanRow, err)
		}
		reservations = append(reservations, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %w", ErrScanRow, err)
	}

	return reservations, nil
}
