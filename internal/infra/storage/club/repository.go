package club

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

const (
	uniqueInviteTarget = "idx_invites_target"
	uniquePendingJoin  = "idx_join_requests_pending"
)

var joinRequestColumns = []string{
	"id",
	"user_id",
	"club_id",
	"group_id",
	"status",
	"reviewed_by",
	"reviewed_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий клубов, групп, приглашений и заявок на вступление
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория клубов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateClub создает клуб и привязывает к нему тренеров
// Вызывать внутри транзакции, чтобы клуб и список тренеров сохранялись атомарно
func (r *Repository) CreateClub(ctx context.Context, club *domain.Club) (*domain.Club, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("clubs").
		Columns("name", "creator_id", "president_id").
		Values(club.Name, club.CreatorID, club.PresidentID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateClub - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&club.ID, &club.CreatedAt, &club.UpdatedAt)
	if err != nil {
		if pgerr.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidReference, err)
		}
		return nil, fmt.Errorf("%w: CreateClub - execute insert: %w", ErrExecQuery, err)
	}

	if len(club.CoachIDs) == 0 {
		return club, nil
	}

	insertCoaches := psqlbuilder.Insert("club_coaches").Columns("club_id", "coach_id")
	for _, coachID := range club.CoachIDs {
		insertCoaches = insertCoaches.Values(club.ID, coachID)
	}
	query, args, err = insertCoaches.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateClub - build coaches insert: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if pgerr.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidReference, err)
		}
		return nil, fmt.Errorf("%w: CreateClub - execute coaches insert: %w", ErrExecQuery, err)
	}

	return club, nil
}

// GetClubByID получает клуб вместе со списком его тренеров
func (r *Repository) GetClubByID(ctx context.Context, id int64) (*domain.Club, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "creator_id", "president_id", "created_at", "updated_at").
		From("clubs").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetClubByID - build select query: %v", ErrBuildQuery, err)
	}

	var c domain.Club
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&c.ID, &c.Name, &c.CreatorID, &c.PresidentID, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClubNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetClubByID - scan club: %w", ErrScanRow, err)
	}

	query, args, err = psqlbuilder.Select("coach_id").
		From("club_coaches").
		Where(squirrel.Eq{"club_id": id}).
		OrderBy("coach_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetClubByID - build coaches query: %v", ErrBuildQuery, err)
	}

	c.CoachIDs, err = r.queryIDs(ctx, executor, "GetClubByID", query, args)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// CreateGroup создает группу внутри клуба
func (r *Repository) CreateGroup(ctx context.Context, group *domain.ClubGroup) (*domain.ClubGroup, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("club_groups").
		Columns("club_id", "coach_id", "name").
		Values(group.ClubID, group.CoachID, group.Name).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateGroup - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&group.ID, &group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		if pgerr.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidReference, err)
		}
		return nil, fmt.Errorf("%w: CreateGroup - execute insert: %w", ErrExecQuery, err)
	}

	return group, nil
}

// GetGroupByID получает группу по ID
func (r *Repository) GetGroupByID(ctx context.Context, id int64) (*domain.ClubGroup, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "club_id", "coach_id", "name", "created_at", "updated_at").
		From("club_groups").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetGroupByID - build select query: %v", ErrBuildQuery, err)
	}

	var g domain.ClubGroup
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&g.ID, &g.ClubID, &g.CoachID, &g.Name, &g.CreatedAt, &g.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetGroupByID - scan group: %w", ErrScanRow, err)
	}

	return &g, nil
}

// CreateInvite сохраняет приглашение
func (r *Repository) CreateInvite(ctx context.Context, invite *domain.Invite) (*domain.Invite, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("invites").
		Columns("club_id", "group_id", "user_id", "invited_by").
		Values(invite.ClubID, invite.GroupID, invite.UserID, invite.InvitedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateInvite - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&invite.ID, &invite.CreatedAt)
	if err != nil {
		if pgerr.IsUniqueViolation(err, uniqueInviteTarget) {
			return nil, ErrDuplicateInvite
		}
		if pgerr.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidReference, err)
		}
		return nil, fmt.Errorf("%w: CreateInvite - execute insert: %w", ErrExecQuery, err)
	}

	return invite, nil
}

// FindInvite ищет приглашение пользователя в клуб (groupID = nil) или группу
func (r *Repository) FindInvite(ctx context.Context, userID, clubID int64, groupID *int64) (*domain.Invite, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "club_id", "group_id", "user_id", "invited_by", "created_at").
		From("invites").
		Where(squirrel.Eq{"user_id": userID, "club_id": clubID}).
		Where(groupCondition(groupID)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindInvite - build select query: %v", ErrBuildQuery, err)
	}

	var inv domain.Invite
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&inv.ID, &inv.ClubID, &inv.GroupID, &inv.UserID, &inv.InvitedBy, &inv.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInviteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindInvite - scan invite: %w", ErrScanRow, err)
	}

	return &inv, nil
}

// DeleteInvite удаляет использованное приглашение
func (r *Repository) DeleteInvite(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("invites").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteInvite - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteInvite - execute delete: %w", ErrExecQuery, err)
	}

	return nil
}

// CreateJoinRequest сохраняет заявку на вступление
func (r *Repository) CreateJoinRequest(ctx context.Context, req *domain.JoinRequest) (*domain.JoinRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("join_requests").
		Columns("user_id", "club_id", "group_id", "status", "reviewed_by", "reviewed_at").
		Values(req.UserID, req.ClubID, req.GroupID, req.Status, req.ReviewedBy, req.ReviewedAt).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateJoinRequest - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if pgerr.IsUniqueViolation(err, uniquePendingJoin) {
			return nil, ErrDuplicateJoinRequest
		}
		if pgerr.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidReference, err)
		}
		return nil, fmt.Errorf("%w: CreateJoinRequest - execute insert: %w", ErrExecQuery, err)
	}

	return req, nil
}

// GetJoinRequestByID получает заявку по ID
func (r *Repository) GetJoinRequestByID(ctx context.Context, id int64) (*domain.JoinRequest, error) {
	return r.getJoinRequest(ctx, "GetJoinRequestByID", squirrel.Eq{"id": id}, false)
}

// GetJoinRequestForUpdate получает заявку по ID с блокировкой строки в транзакции
func (r *Repository) GetJoinRequestForUpdate(ctx context.Context, id int64) (*domain.JoinRequest, error) {
	return r.getJoinRequest(ctx, "GetJoinRequestForUpdate", squirrel.Eq{"id": id}, dbmetrics.IsInTransaction(ctx))
}

// FindPendingJoinRequest ищет нерассмотренную заявку пользователя в клуб или группу
func (r *Repository) FindPendingJoinRequest(ctx context.Context, userID, clubID int64, groupID *int64) (*domain.JoinRequest, error) {
	where := squirrel.And{
		squirrel.Eq{"user_id": userID, "club_id": clubID, "status": domain.JoinPending},
		groupCondition(groupID),
	}
	return r.getJoinRequest(ctx, "FindPendingJoinRequest", where, false)
}

// UpdateJoinRequestStatus фиксирует решение по заявке
func (r *Repository) UpdateJoinRequestStatus(ctx context.Context, id int64, status domain.JoinRequestStatus, reviewedBy int64, reviewedAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("join_requests").
		Set("status", status).
		Set("reviewed_by", reviewedBy).
		Set("reviewed_at", reviewedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateJoinRequestStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateJoinRequestStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateJoinRequestStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrJoinRequestNotFound
	}

	return nil
}

// AddClubMember добавляет пользователя в клуб; повторное добавление игнорируется
func (r *Repository) AddClubMember(ctx context.Context, clubID, userID int64) error {
	return r.addMember(ctx, "AddClubMember", "club_members", "club_id", clubID, userID)
}

// AddGroupMember добавляет пользователя в группу; повторное добавление игнорируется
func (r *Repository) AddGroupMember(ctx context.Context, groupID, userID int64) error {
	return r.addMember(ctx, "AddGroupMember", "group_members", "group_id", groupID, userID)
}

// IsMember проверяет членство пользователя в клубе (groupID = nil) или группе
func (r *Repository) IsMember(ctx context.Context, userID, clubID int64, groupID *int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("1").From("club_members").
		Where(squirrel.Eq{"club_id": clubID, "user_id": userID})
	if groupID != nil {
		selectBuilder = psqlbuilder.Select("1").From("group_members").
			Where(squirrel.Eq{"group_id": *groupID, "user_id": userID})
	}

	query, args, err := selectBuilder.Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: IsMember - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: IsMember - scan result: %w", ErrScanRow, err)
	}

	return exists, nil
}

// ListUserGroupIDs возвращает ID групп, в которых состоит пользователь
func (r *Repository) ListUserGroupIDs(ctx context.Context, userID int64) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("group_id").
		From("group_members").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("group_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListUserGroupIDs - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryIDs(ctx, executor, "ListUserGroupIDs", query, args)
}

func (r *Repository) addMember(ctx context.Context, op, table, column string, targetID, userID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(column, "user_id").
		Values(targetID, userID).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build insert query: %v", ErrBuildQuery, op, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if pgerr.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: %v", ErrInvalidReference, err)
		}
		return fmt.Errorf("%w: %s - execute insert: %w", ErrExecQuery, op, err)
	}

	return nil
}

func (r *Repository) getJoinRequest(ctx context.Context, op string, where squirrel.Sqlizer, lock bool) (*domain.JoinRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(joinRequestColumns...).
		From("join_requests").
		Where(where)
	if lock {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var jr domain.JoinRequest
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&jr.ID,
		&jr.UserID,
		&jr.ClubID,
		&jr.GroupID,
		&jr.Status,
		&jr.ReviewedBy,
		&jr.ReviewedAt,
		&jr.CreatedAt,
		&jr.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrJoinRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan join request: %w", ErrScanRow, op, err)
	}

	return &jr, nil
}

func (r *Repository) queryIDs(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) ([]int64, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return ids, nil
}

// groupCondition фильтр по группе: NULL означает запись уровня клуба
func groupCondition(groupID *int64) squirrel.Sqlizer {
	if groupID == nil {
		return squirrel.Eq{"group_id": nil}
	}
	return squirrel.Eq{"group_id": *groupID}
}
