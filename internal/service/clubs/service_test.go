package clubs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SportHub/internal/domain"
	clubRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/club"
	profileRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/profile"
	"github.com/m04kA/SMC-SportHub/internal/service/clubs/models"
	"github.com/m04kA/SMC-SportHub/pkg/ptr"
)

var now = time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

type fixedTime struct{}

func (fixedTime) Now() time.Time { return now }

type membership struct {
	userID  int64
	clubID  int64
	groupID int64 // 0 = клуб
}

type memStore struct {
	clubs    map[int64]*domain.Club
	groups   map[int64]*domain.ClubGroup
	invites  map[int64]*domain.Invite
	requests map[int64]*domain.JoinRequest
	members  map[membership]bool
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{
		clubs:    map[int64]*domain.Club{},
		groups:   map[int64]*domain.ClubGroup{},
		invites:  map[int64]*domain.Invite{},
		requests: map[int64]*domain.JoinRequest{},
		members:  map[membership]bool{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func sameGroup(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (m *memStore) CreateClub(_ context.Context, c *domain.Club) (*domain.Club, error) {
	c.ID = m.id()
	c.CreatedAt = now
	m.clubs[c.ID] = c
	return c, nil
}

func (m *memStore) GetClubByID(_ context.Context, id int64) (*domain.Club, error) {
	c, ok := m.clubs[id]
	if !ok {
		return nil, clubRepo.ErrClubNotFound
	}
	return c, nil
}

func (m *memStore) CreateGroup(_ context.Context, g *domain.ClubGroup) (*domain.ClubGroup, error) {
	g.ID = m.id()
	m.groups[g.ID] = g
	return g, nil
}

func (m *memStore) GetGroupByID(_ context.Context, id int64) (*domain.ClubGroup, error) {
	g, ok := m.groups[id]
	if !ok {
		return nil, clubRepo.ErrGroupNotFound
	}
	return g, nil
}

func (m *memStore) CreateInvite(_ context.Context, i *domain.Invite) (*domain.Invite, error) {
	for _, existing := range m.invites {
		if existing.UserID == i.UserID && existing.ClubID == i.ClubID && sameGroup(existing.GroupID, i.GroupID) {
			return nil, clubRepo.ErrDuplicateInvite
		}
	}
	i.ID = m.id()
	m.invites[i.ID] = i
	return i, nil
}

func (m *memStore) FindInvite(_ context.Context, userID, clubID int64, groupID *int64) (*domain.Invite, error) {
	for _, i := range m.invites {
		if i.UserID == userID && i.ClubID == clubID && sameGroup(i.GroupID, groupID) {
			return i, nil
		}
	}
	return nil, clubRepo.ErrInviteNotFound
}

func (m *memStore) DeleteInvite(_ context.Context, id int64) error {
	delete(m.invites, id)
	return nil
}

func (m *memStore) CreateJoinRequest(_ context.Context, r *domain.JoinRequest) (*domain.JoinRequest, error) {
	r.ID = m.id()
	m.requests[r.ID] = r
	return r, nil
}

func (m *memStore) GetJoinRequestForUpdate(_ context.Context, id int64) (*domain.JoinRequest, error) {
	r, ok := m.requests[id]
	if !ok {
		return nil, clubRepo.ErrJoinRequestNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) FindPendingJoinRequest(_ context.Context, userID, clubID int64, groupID *int64) (*domain.JoinRequest, error) {
	for _, r := range m.requests {
		if r.UserID == userID && r.ClubID == clubID && sameGroup(r.GroupID, groupID) && r.Status == domain.JoinPending {
			return r, nil
		}
	}
	return nil, clubRepo.ErrJoinRequestNotFound
}

func (m *memStore) UpdateJoinRequestStatus(_ context.Context, id int64, status domain.JoinRequestStatus, reviewedBy int64, reviewedAt time.Time) error {
	r, ok := m.requests[id]
	if !ok {
		return clubRepo.ErrJoinRequestNotFound
	}
	r.Status = status
	r.ReviewedBy = ptr.Ptr(reviewedBy)
	r.ReviewedAt = ptr.Ptr(reviewedAt)
	return nil
}

func (m *memStore) AddClubMember(_ context.Context, clubID, userID int64) error {
	m.members[membership{userID: userID, clubID: clubID}] = true
	return nil
}

func (m *memStore) AddGroupMember(_ context.Context, groupID, userID int64) error {
	m.members[membership{userID: userID, clubID: m.groups[groupID].ClubID, groupID: groupID}] = true
	return nil
}

func (m *memStore) IsMember(_ context.Context, userID, clubID int64, groupID *int64) (bool, error) {
	return m.members[membership{userID: userID, clubID: clubID, groupID: ptr.Value(groupID)}], nil
}

type fakeCoaches struct{}

var coaches = []*domain.Coach{
	{ID: 1, UserID: 10},
	{ID: 2, UserID: 20},
	{ID: 3, UserID: 30},
}

func (fakeCoaches) GetCoachByID(_ context.Context, id int64) (*domain.Coach, error) {
	for _, c := range coaches {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, profileRepo.ErrCoachNotFound
}

func (fakeCoaches) GetCoachByUserID(_ context.Context, userID int64) (*domain.Coach, error) {
	for _, c := range coaches {
		if c.UserID == userID {
			return c, nil
		}
	}
	return nil, profileRepo.ErrCoachNotFound
}

type directTx struct{}

func (directTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingNotifier struct {
	drafts []domain.NotificationDraft
	err    error
}

func (n *recordingNotifier) Dispatch(_ context.Context, d domain.NotificationDraft) error {
	n.drafts = append(n.drafts, d)
	return n.err
}

func (n *recordingNotifier) recipients() []int64 {
	ids := make([]int64, 0, len(n.drafts))
	for _, d := range n.drafts {
		ids = append(ids, ptr.Value(d.UserID))
	}
	return ids
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	admin       = domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	coachA      = domain.Actor{UserID: 10, Role: domain.RoleCoach} // coach id 1
	coachB      = domain.Actor{UserID: 20, Role: domain.RoleCoach} // coach id 2
	coachC      = domain.Actor{UserID: 30, Role: domain.RoleCoach} // coach id 3, не в клубе
	participant = domain.Actor{UserID: 100, Role: domain.RoleParticipant}
	other       = domain.Actor{UserID: 200, Role: domain.RoleParticipant}
)

type fixture struct {
	svc      *Service
	store    *memStore
	notifier *recordingNotifier
	club     *models.ClubResponse
	group    *models.GroupResponse
}

// newFixture создает клуб тренера A с тренером B и группу тренера B
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	notifier := &recordingNotifier{}
	svc := NewService(store, fakeCoaches{}, directTx{}, notifier, nopLogger{})
	svc.timeProvider = fixedTime{}

	ctx := context.Background()
	club, err := svc.CreateClub(ctx, coachA, &models.CreateClubRequest{Name: "Riverside", CoachIDs: []int64{2}})
	require.NoError(t, err)
	group, err := svc.CreateGroup(ctx, coachA, club.ID, &models.CreateGroupRequest{Name: "Juniors", CoachID: ptr.Ptr(int64(2))})
	require.NoError(t, err)

	return &fixture{svc: svc, store: store, notifier: notifier, club: club, group: group}
}

func TestCreateClub_CreatorCoachIsAdded(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, coachA.UserID, f.club.CreatorID)
	assert.Equal(t, []int64{1, 2}, f.club.CoachIDs)

	member, err := f.store.IsMember(context.Background(), coachA.UserID, f.club.ID, nil)
	require.NoError(t, err)
	assert.True(t, member)
}

func TestCreateClub_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateClub(ctx, participant, &models.CreateClubRequest{Name: "X"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.CreateClub(ctx, admin, &models.CreateClubRequest{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateGroup_Access(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// тренер клуба создает группу под собой
	g, err := f.svc.CreateGroup(ctx, coachB, f.club.ID, &models.CreateGroupRequest{Name: "Seniors"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), g.CoachID)

	// тренер не из клуба
	_, err = f.svc.CreateGroup(ctx, coachC, f.club.ID, &models.CreateGroupRequest{Name: "Foreign"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// тренер группы должен состоять в клубе
	_, err = f.svc.CreateGroup(ctx, admin, f.club.ID, &models.CreateGroupRequest{Name: "Bad", CoachID: ptr.Ptr(int64(3))})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// администратор без тренера группы
	_, err = f.svc.CreateGroup(ctx, admin, f.club.ID, &models.CreateGroupRequest{Name: "NoCoach"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.CreateGroup(ctx, admin, 999, &models.CreateGroupRequest{Name: "Lost", CoachID: ptr.Ptr(int64(1))})
	assert.ErrorIs(t, err, ErrClubNotFound)
}

func TestRequestJoinClub_PendingThenApproved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.svc.RequestJoinClub(ctx, participant, f.club.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.JoinPending), req.Status)
	assert.Equal(t, []int64{coachA.UserID}, f.notifier.recipients())

	_, err = f.svc.RequestJoinClub(ctx, participant, f.club.ID)
	assert.ErrorIs(t, err, ErrAlreadyRequested)

	approved, err := f.svc.ReviewJoinRequest(ctx, coachA, req.ID, domain.JoinApproved)
	require.NoError(t, err)
	assert.Equal(t, string(domain.JoinApproved), approved.Status)
	require.NotNil(t, approved.ReviewedAt)
	assert.Equal(t, now, *approved.ReviewedAt)
	assert.Equal(t, []int64{coachA.UserID, participant.UserID}, f.notifier.recipients())

	member, _ := f.store.IsMember(ctx, participant.UserID, f.club.ID, nil)
	assert.True(t, member)

	_, err = f.svc.RequestJoinClub(ctx, participant, f.club.ID)
	assert.ErrorIs(t, err, ErrAlreadyMember)
}

func TestRequestJoinGroup_ReviewedByGroupCoach(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.svc.RequestJoinGroup(ctx, participant, f.group.ID)
	require.NoError(t, err)
	assert.Equal(t, f.club.ID, req.ClubID)
	require.NotNil(t, req.GroupID)
	// уведомление получает тренер группы
	assert.Equal(t, []int64{coachB.UserID}, f.notifier.recipients())

	// создатель клуба не рассматривает заявки в группу
	_, err = f.svc.ReviewJoinRequest(ctx, coachA, req.ID, domain.JoinApproved)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.ReviewJoinRequest(ctx, coachB, req.ID, domain.JoinApproved)
	require.NoError(t, err)

	inGroup, _ := f.store.IsMember(ctx, participant.UserID, f.club.ID, req.GroupID)
	inClub, _ := f.store.IsMember(ctx, participant.UserID, f.club.ID, nil)
	assert.True(t, inGroup)
	assert.True(t, inClub)
}

func TestReviewJoinRequest_Decisions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.svc.RequestJoinClub(ctx, participant, f.club.ID)
	require.NoError(t, err)

	_, err = f.svc.ReviewJoinRequest(ctx, other, req.ID, domain.JoinRejected)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.ReviewJoinRequest(ctx, admin, req.ID, domain.JoinPending)
	assert.ErrorIs(t, err, ErrInvalidInput)

	rejected, err := f.svc.ReviewJoinRequest(ctx, admin, req.ID, domain.JoinRejected)
	require.NoError(t, err)
	assert.Equal(t, string(domain.JoinRejected), rejected.Status)
	notified := len(f.notifier.drafts)

	// повтор того же решения ничего не меняет
	again, err := f.svc.ReviewJoinRequest(ctx, admin, req.ID, domain.JoinRejected)
	require.NoError(t, err)
	assert.Equal(t, string(domain.JoinRejected), again.Status)
	assert.Len(t, f.notifier.drafts, notified)

	_, err = f.svc.ReviewJoinRequest(ctx, admin, req.ID, domain.JoinApproved)
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	member, _ := f.store.IsMember(ctx, participant.UserID, f.club.ID, nil)
	assert.False(t, member)

	_, err = f.svc.ReviewJoinRequest(ctx, admin, 999, domain.JoinApproved)
	assert.ErrorIs(t, err, ErrJoinRequestNotFound)
}

func TestInvite_AutoApprovesJoin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	invite, err := f.svc.Invite(ctx, coachB, f.club.ID, &models.InviteRequest{UserID: participant.UserID, GroupID: ptr.Ptr(f.group.ID)})
	require.NoError(t, err)
	assert.Equal(t, coachB.UserID, invite.InvitedBy)

	_, err = f.svc.Invite(ctx, coachB, f.club.ID, &models.InviteRequest{UserID: participant.UserID, GroupID: ptr.Ptr(f.group.ID)})
	assert.ErrorIs(t, err, ErrAlreadyInvited)

	req, err := f.svc.RequestJoinGroup(ctx, participant, f.group.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.JoinApproved), req.Status)
	assert.Empty(t, f.store.invites)

	inGroup, _ := f.store.IsMember(ctx, participant.UserID, f.club.ID, req.GroupID)
	assert.True(t, inGroup)
	recipients := f.notifier.recipients()
	assert.Equal(t, participant.UserID, recipients[len(recipients)-1])
}

func TestInvite_Access(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// тренер группы не приглашает в клуб
	_, err := f.svc.Invite(ctx, coachB, f.club.ID, &models.InviteRequest{UserID: participant.UserID})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.Invite(ctx, coachA, f.club.ID, &models.InviteRequest{UserID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// группа другого клуба
	otherClub, err := f.svc.CreateClub(ctx, coachC, &models.CreateClubRequest{Name: "Hillside"})
	require.NoError(t, err)
	_, err = f.svc.Invite(ctx, coachC, otherClub.ID, &models.InviteRequest{UserID: participant.UserID, GroupID: ptr.Ptr(f.group.ID)})
	assert.ErrorIs(t, err, ErrGroupNotFound)

	// уже участник
	_, err = f.svc.Invite(ctx, admin, f.club.ID, &models.InviteRequest{UserID: coachA.UserID})
	assert.ErrorIs(t, err, ErrAlreadyMember)
}

func TestNotifierFailureDoesNotFailOperation(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("broker down")

	_, err := f.svc.RequestJoinClub(context.Background(), participant, f.club.ID)
	require.NoError(t, err)
}
