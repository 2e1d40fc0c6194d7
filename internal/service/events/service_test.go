package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SportHub/internal/domain"
	eventRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/event"
	profileRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/profile"
	"github.com/m04kA/SMC-SportHub/internal/service/events/models"
	"github.com/m04kA/SMC-SportHub/pkg/ptr"
)

var now = time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

type fixedTime struct{}

func (fixedTime) Now() time.Time { return now }

type fakeRepo struct {
	events map[int64]*domain.Event
}

func (f *fakeRepo) Create(_ context.Context, e *domain.Event) (*domain.Event, error) {
	e.ID = int64(len(f.events) + 1)
	f.events[e.ID] = e
	return e, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, eventRepo.ErrEventNotFound
	}
	return e, nil
}

type fakeCoaches struct{}

func (fakeCoaches) GetCoachByUserID(_ context.Context, userID int64) (*domain.Coach, error) {
	switch userID {
	case 10:
		return &domain.Coach{ID: 1, UserID: 10}, nil
	case 20:
		return &domain.Coach{ID: 2, UserID: 20}, nil
	}
	return nil, profileRepo.ErrCoachNotFound
}

type fakeSports struct{}

func (fakeSports) GetByIDs(_ context.Context, ids []int64) ([]*domain.Sport, error) {
	var out []*domain.Sport
	for _, id := range ids {
		if id == 3 {
			out = append(out, &domain.Sport{ID: 3, Name: "tennis"})
		}
	}
	return out, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService() (*Service, *fakeRepo) {
	repo := &fakeRepo{events: map[int64]*domain.Event{}}
	svc := NewService(repo, fakeCoaches{}, fakeSports{}, nopLogger{})
	svc.timeProvider = fixedTime{}
	return svc, repo
}

func validRequest() *models.CreateEventRequest {
	return &models.CreateEventRequest{
		Title:       "Doubles practice",
		StartTime:   now.Add(72 * time.Hour),
		EndTime:     now.Add(74 * time.Hour),
		Capacity:    8,
		PricingType: "stable",
		Fee:         15,
		SportID:     3,
		Location:    ptr.Ptr("Court 2"),
	}
}

var coach = domain.Actor{UserID: 10, Role: domain.RoleCoach}

func TestCreate_PublicEvent(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.Create(context.Background(), coach, validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.OwnerID)
	assert.False(t, resp.IsPrivate)
	assert.Nil(t, resp.PrivateToken)
	assert.Equal(t, now.Add(24*time.Hour), resp.CheckInDeadline)
}

func TestCreate_PrivateEventGetsToken(t *testing.T) {
	svc, _ := newTestService()
	req := validRequest()
	req.IsPrivate = true

	resp, err := svc.Create(context.Background(), coach, req)
	require.NoError(t, err)
	require.NotNil(t, resp.PrivateToken)
	assert.NotEmpty(t, *resp.PrivateToken)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *models.CreateEventRequest)
		wantMsg string
	}{
		{"empty title", func(r *models.CreateEventRequest) { r.Title = " " }, "title is required"},
		{"end before start", func(r *models.CreateEventRequest) { r.EndTime = r.StartTime.Add(-time.Hour) }, "startTime must be before endTime"},
		{"start in past", func(r *models.CreateEventRequest) {
			r.StartTime = now.Add(-time.Hour)
			r.EndTime = now.Add(time.Hour)
		}, "startTime must be in the future"},
		{"zero capacity", func(r *models.CreateEventRequest) { r.Capacity = 0 }, "capacity must be at least 1"},
		{"unknown pricing", func(r *models.CreateEventRequest) { r.PricingType = "donation" }, "pricingType must be one of"},
		{"stable without fee", func(r *models.CreateEventRequest) { r.Fee = 0 }, "fee must be positive"},
		{"no location", func(r *models.CreateEventRequest) { r.Location = nil }, "one of facilityId, salonId or location is required"},
		{"backup is owner", func(r *models.CreateEventRequest) { r.BackupCoachID = ptr.Ptr(int64(1)) }, "backupCoachId must differ"},
		{"unknown sport", func(r *models.CreateEventRequest) { r.SportID = 99 }, "sport 99 does not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService()
			req := validRequest()
			tt.mutate(req)

			_, err := svc.Create(context.Background(), coach, req)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Empty(t, repo.events)
		})
	}
}

func TestCreate_RequiresCoachProfile(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Create(context.Background(), domain.Actor{UserID: 99, Role: domain.RoleCoach}, validRequest())
	assert.ErrorIs(t, err, ErrCoachNotFound)
}

func TestGet_PrivateEventAccess(t *testing.T) {
	svc, repo := newTestService()
	repo.events[1] = &domain.Event{
		ID:            1,
		OwnerID:       1,
		BackupCoachID: ptr.Ptr(int64(2)),
		IsPrivate:     true,
		PrivateToken:  ptr.Ptr("secret"),
		StartTime:     now.Add(time.Hour),
	}

	tests := []struct {
		name      string
		actor     domain.Actor
		token     string
		wantErr   error
		wantToken bool
	}{
		{"owner", coach, "", nil, true},
		{"backup coach", domain.Actor{UserID: 20, Role: domain.RoleCoach}, "", nil, true},
		{"admin", domain.Actor{UserID: 1, Role: domain.RoleAdmin}, "", nil, true},
		{"participant with token", domain.Actor{UserID: 5, Role: domain.RoleParticipant}, "secret", nil, false},
		{"participant without token", domain.Actor{UserID: 5, Role: domain.RoleParticipant}, "", ErrAccessDenied, false},
		{"participant with wrong token", domain.Actor{UserID: 5, Role: domain.RoleParticipant}, "guess", ErrAccessDenied, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Get(context.Background(), tt.actor, 1, tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, resp.PrivateToken != nil)
		})
	}
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Get(context.Background(), coach, 42, "")
	assert.ErrorIs(t, err, ErrEventNotFound)
}
