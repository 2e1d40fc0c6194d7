package review_branch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SportHub/internal/domain"
	branchRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/branch"
	profileRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/profile"
)

var reviewTime = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type fixedTime struct{}

func (fixedTime) Now() time.Time { return reviewTime }

type store struct {
	branches map[int64]*domain.Branch
	coaches  map[int64]*domain.Coach // по coach id
}

func newStore() *store {
	return &store{
		branches: map[int64]*domain.Branch{},
		coaches: map[int64]*domain.Coach{
			1: {ID: 1, UserID: 100},
			2: {ID: 2, UserID: 200},
		},
	}
}

func (s *store) addBranch(id, coachID int64, status domain.BranchStatus) {
	s.branches[id] = &domain.Branch{ID: id, CoachID: coachID, SportID: id * 10, Status: status}
}

func (s *store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *store) GetByID(_ context.Context, id int64) (*domain.Branch, error) {
	b, ok := s.branches[id]
	if !ok {
		return nil, branchRepo.ErrBranchNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *store) GetByCoachID(_ context.Context, coachID int64) ([]*domain.Branch, error) {
	var out []*domain.Branch
	for _, b := range s.branches {
		if b.CoachID == coachID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *store) UpdateStatus(_ context.Context, id int64, status domain.BranchStatus, reviewedAt time.Time) error {
	b := s.branches[id]
	b.Status = status
	b.ReviewedAt = &reviewedAt
	return nil
}

func (s *store) GetCoachByID(_ context.Context, id int64) (*domain.Coach, error) {
	c, ok := s.coaches[id]
	if !ok {
		return nil, profileRepo.ErrCoachNotFound
	}
	return c, nil
}

func (s *store) GetCoachByUserID(_ context.Context, userID int64) (*domain.Coach, error) {
	for _, c := range s.coaches {
		if c.UserID == userID {
			return c, nil
		}
	}
	return nil, profileRepo.ErrCoachNotFound
}

func (s *store) SetCoachVerified(_ context.Context, coachID int64, verified bool) error {
	s.coaches[coachID].IsVerified = verified
	return nil
}

type recordingNotifier struct {
	drafts []domain.NotificationDraft
	err    error
}

func (n *recordingNotifier) Dispatch(_ context.Context, d domain.NotificationDraft) error {
	n.drafts = append(n.drafts, d)
	return n.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var admin = domain.Actor{UserID: 1, Role: domain.RoleAdmin}

func newTestUseCase(s *store, n Notifier) *UseCase {
	uc := NewUseCase(s, s, s, n, nil, nopLogger{})
	uc.timeProvider = fixedTime{}
	return uc
}

func TestExecute_ApproveLastBranchVerifiesCoach(t *testing.T) {
	s := newStore()
	s.addBranch(1, 1, domain.BranchApproved)
	s.addBranch(2, 1, domain.BranchPending)
	notifier := &recordingNotifier{}

	resp, err := newTestUseCase(s, notifier).Execute(context.Background(), &Request{Actor: admin, BranchID: 2, Decision: domain.BranchApproved})
	require.NoError(t, err)

	assert.True(t, resp.Changed)
	assert.True(t, resp.CoachVerified)
	assert.True(t, s.coaches[1].IsVerified)
	assert.Equal(t, reviewTime, *s.branches[2].ReviewedAt)
	require.Len(t, notifier.drafts, 1)
	assert.Equal(t, int64(100), *notifier.drafts[0].UserID)
}

func TestExecute_ApproveWithPendingSiblingsDoesNotVerify(t *testing.T) {
	s := newStore()
	s.addBranch(1, 1, domain.BranchPending)
	s.addBranch(2, 1, domain.BranchPending)

	resp, err := newTestUseCase(s, nil).Execute(context.Background(), &Request{Actor: admin, BranchID: 1, Decision: domain.BranchApproved})
	require.NoError(t, err)

	assert.False(t, resp.CoachVerified)
	assert.False(t, s.coaches[1].IsVerified)
}

func TestExecute_RejectDoesNotVerify(t *testing.T) {
	s := newStore()
	s.addBranch(1, 1, domain.BranchPending)

	resp, err := newTestUseCase(s, nil).Execute(context.Background(), &Request{Actor: admin, BranchID: 1, Decision: domain.BranchRejected})
	require.NoError(t, err)

	assert.Equal(t, string(domain.BranchRejected), resp.Status)
	assert.False(t, s.coaches[1].IsVerified)
}

func TestExecute_SameDecisionIsNoop(t *testing.T) {
	s := newStore()
	s.addBranch(1, 1, domain.BranchApproved)
	notifier := &recordingNotifier{}

	resp, err := newTestUseCase(s, notifier).Execute(context.Background(), &Request{Actor: admin, BranchID: 1, Decision: domain.BranchApproved})
	require.NoError(t, err)

	assert.False(t, resp.Changed)
	assert.Nil(t, s.branches[1].ReviewedAt)
	assert.Empty(t, notifier.drafts)
}

func TestExecute_ReversingDecisionIsConflict(t *testing.T) {
	s := newStore()
	s.addBranch(1, 1, domain.BranchRejected)

	_, err := newTestUseCase(s, nil).Execute(context.Background(), &Request{Actor: admin, BranchID: 1, Decision: domain.BranchApproved})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
	assert.Equal(t, domain.BranchRejected, s.branches[1].Status)
}

func TestExecute_Access(t *testing.T) {
	tests := []struct {
		name    string
		actor   domain.Actor
		wantErr error
	}{
		{"owning coach", domain.Actor{UserID: 100, Role: domain.RoleCoach}, nil},
		{"other coach", domain.Actor{UserID: 200, Role: domain.RoleCoach}, ErrAccessDenied},
		{"participant", domain.Actor{UserID: 300, Role: domain.RoleParticipant}, ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore()
			s.addBranch(1, 1, domain.BranchPending)

			_, err := newTestUseCase(s, nil).Execute(context.Background(), &Request{Actor: tt.actor, BranchID: 1, Decision: domain.BranchApproved})
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, domain.BranchPending, s.branches[1].Status)
		})
	}
}

func TestExecute_InvalidInput(t *testing.T) {
	s := newStore()

	_, err := newTestUseCase(s, nil).Execute(context.Background(), &Request{Actor: admin, BranchID: 1, Decision: domain.BranchPending})
	assert.ErrorIs(t, err, ErrInvalidDecision)

	_, err = newTestUseCase(s, nil).Execute(context.Background(), &Request{Actor: admin, BranchID: 42, Decision: domain.BranchApproved})
	assert.ErrorIs(t, err, ErrBranchNotFound)
}

func TestExecute_NotificationFailureIsSwallowed(t *testing.T) {
	s := newStore()
	s.addBranch(1, 1, domain.BranchPending)

	_, err := newTestUseCase(s, &recordingNotifier{err: errors.New("down")}).Execute(context.Background(),
		&Request{Actor: admin, BranchID: 1, Decision: domain.BranchApproved})
	assert.NoError(t, err)
}
