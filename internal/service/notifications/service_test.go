package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SportHub/internal/domain"
	notificationRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/notification"
	"github.com/m04kA/SMC-SportHub/internal/service/notifications/models"
	"github.com/m04kA/SMC-SportHub/pkg/ptr"
)

type fakeRepo struct {
	mu      sync.Mutex
	created []*domain.Notification
	listed  struct {
		userID   int64
		role     domain.Role
		groupIDs []int64
		limit    int
		offset   int
	}
	createErr error
	markErr   error
}

func (f *fakeRepo) Create(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	n.ID = int64(len(f.created) + 1)
	n.CreatedAt = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	f.created = append(f.created, n)
	return n, nil
}

func (f *fakeRepo) ListForUser(_ context.Context, userID int64, role domain.Role, groupIDs []int64, limit, offset int) ([]*domain.Notification, error) {
	f.listed.userID = userID
	f.listed.role = role
	f.listed.groupIDs = groupIDs
	f.listed.limit = limit
	f.listed.offset = offset
	return f.created, nil
}

func (f *fakeRepo) MarkRead(_ context.Context, _, _ int64) error {
	return f.markErr
}

type fakeMembership struct {
	groups []int64
}

func (f *fakeMembership) ListUserGroupIDs(_ context.Context, _ int64) ([]int64, error) {
	return f.groups, nil
}

type fakePublisher struct {
	keys        []string
	payloads    []any
	hadDeadline bool
	err         error
}

func (f *fakePublisher) PublishJSON(ctx context.Context, key string, v any) error {
	_, f.hadDeadline = ctx.Deadline()
	f.keys = append(f.keys, key)
	f.payloads = append(f.payloads, v)
	return f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestDispatch_PersistsAndPublishes(t *testing.T) {
	repo := &fakeRepo{}
	pub := &fakePublisher{}
	svc := NewService(repo, &fakeMembership{}, pub, nopLogger{})

	err := svc.Dispatch(context.Background(), domain.NotificationDraft{
		Scope:   domain.ScopeUser,
		UserID:  ptr.Ptr(int64(7)),
		Title:   "Reservation confirmed",
		Message: "See you there",
	})
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	assert.Equal(t, []string{"notification.user"}, pub.keys)
	msg, ok := pub.payloads[0].(models.Message)
	require.True(t, ok)
	assert.Equal(t, int64(1), msg.ID)
	assert.Equal(t, int64(7), *msg.UserID)
}

func TestDispatch_PublishFailureIsNotReturned(t *testing.T) {
	repo := &fakeRepo{}
	pub := &fakePublisher{err: errors.New("connection closed")}
	svc := NewService(repo, &fakeMembership{}, pub, nopLogger{})

	err := svc.Dispatch(context.Background(), domain.NotificationDraft{
		Scope:   domain.ScopeGlobal,
		Title:   "Maintenance",
		Message: "Tonight",
	})
	require.NoError(t, err)
	assert.Len(t, repo.created, 1)
}

func TestDispatch_PublishTimeout(t *testing.T) {
	draft := domain.NotificationDraft{Scope: domain.ScopeGlobal, Title: "Maintenance", Message: "Tonight"}

	pub := &fakePublisher{}
	svc := NewService(&fakeRepo{}, &fakeMembership{}, pub, nopLogger{})
	require.NoError(t, svc.Dispatch(context.Background(), draft))
	assert.False(t, pub.hadDeadline)

	pub = &fakePublisher{}
	svc = NewService(&fakeRepo{}, &fakeMembership{}, pub, nopLogger{}).WithPublishTimeout(time.Second)
	require.NoError(t, svc.Dispatch(context.Background(), draft))
	assert.True(t, pub.hadDeadline)
}

func TestDispatch_WithoutPublisher(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeMembership{}, nil, nopLogger{})

	err := svc.Dispatch(context.Background(), domain.NotificationDraft{
		Scope:   domain.ScopeRole,
		Role:    ptr.Ptr(domain.RoleCoach),
		Title:   "New rules",
		Message: "Read them",
	})
	require.NoError(t, err)
	assert.Len(t, repo.created, 1)
}

func TestDispatch_Validation(t *testing.T) {
	tests := []struct {
		name  string
		draft domain.NotificationDraft
	}{
		{"user scope without user", domain.NotificationDraft{Scope: domain.ScopeUser, Title: "t", Message: "m"}},
		{"group scope without group", domain.NotificationDraft{Scope: domain.ScopeGroup, Title: "t", Message: "m"}},
		{"role scope with invalid role", domain.NotificationDraft{Scope: domain.ScopeRole, Role: ptr.Ptr(domain.Role(9)), Title: "t", Message: "m"}},
		{"unknown scope", domain.NotificationDraft{Scope: "everyone", Title: "t", Message: "m"}},
		{"empty title", domain.NotificationDraft{Scope: domain.ScopeGlobal, Message: "m"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			svc := NewService(repo, &fakeMembership{}, nil, nopLogger{})

			err := svc.Dispatch(context.Background(), tt.draft)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, repo.created)
		})
	}
}

func TestListForUser_UsesGroupsAndPaging(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeMembership{groups: []int64{3, 4}}, nil, nopLogger{})

	resp, err := svc.ListForUser(context.Background(), domain.Actor{UserID: 5, Role: domain.RoleParticipant}, 3, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(5), repo.listed.userID)
	assert.Equal(t, domain.RoleParticipant, repo.listed.role)
	assert.Equal(t, []int64{3, 4}, repo.listed.groupIDs)
	assert.Equal(t, 10, repo.listed.limit)
	assert.Equal(t, 20, repo.listed.offset)
	assert.Equal(t, 3, resp.Page)
	assert.NotNil(t, resp.Notifications)
}

func TestMarkRead_NotFound(t *testing.T) {
	repo := &fakeRepo{markErr: notificationRepo.ErrNotificationNotFound}
	svc := NewService(repo, &fakeMembership{}, nil, nopLogger{})

	err := svc.MarkRead(context.Background(), domain.Actor{UserID: 1}, 99)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}
