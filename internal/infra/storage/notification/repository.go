package notification

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SportHub/internal/domain"
	"github.com/m04kA/SMC-SportHub/pkg/dbmetrics"
	"github.com/m04kA/SMC-SportHub/pkg/psqlbuilder"
)

// Repository репозиторий уведомлений
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория уведомлений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет уведомление
func (r *Repository) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("notifications").
		Columns("scope", "user_id", "role", "group_id", "title", "message").
		Values(n.Scope, n.UserID, n.Role, n.GroupID, n.Title, n.Message).
		Suffix("RETURNING id, is_read, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&n.ID, &n.IsRead, &n.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return n, nil
}

// ListForUser возвращает уведомления, адресованные пользователю лично, всем,
// его роли или группам, в которых он состоит. Новые первыми
func (r *Repository) ListForUser(ctx context.Context, userID int64, role domain.Role, groupIDs []int64, limit, offset int) ([]*domain.Notification, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	audience := squirrel.Or{
		squirrel.Eq{"scope": domain.ScopeUser, "user_id": userID},
		squirrel.Eq{"scope": domain.ScopeGlobal},
		squirrel.Eq{"scope": domain.ScopeRole, "role": role},
	}
	if len(groupIDs) > 0 {
		audience = append(audience, squirrel.Eq{"scope": domain.ScopeGroup, "group_id": groupIDs})
	}

	selectBuilder := psqlbuilder.Select("id", "scope", "user_id", "role", "group_id", "title", "message", "is_read", "created_at").
		From("notifications").
		Where(audience).
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(limit))
	}
	if offset > 0 {
		selectBuilder = selectBuilder.Offset(uint64(offset))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListForUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListForUser - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	notifications := make([]*domain.Notification, 0)
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.Scope, &n.UserID, &n.Role, &n.GroupID, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListForUser - scan row: %w", ErrScanRow, err)
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListForUser - rows error: %w", ErrScanRow, err)
	}

	return notifications, nil
}

// MarkRead отмечает личное уведомление пользователя прочитанным
// Общие уведомления (global/role/group) не отмечаются, для них возвращается ErrNotificationNotFound
func (r *Repository) MarkRead(ctx context.Context, id, userID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"id": id, "scope": domain.ScopeUser, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkRead - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkRead - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkRead - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}
