package make_reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SportHub/internal/domain"
	eventRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/event"
	profileRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/profile"
	reservationRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-SportHub/pkg/dbmetrics"
	"github.com/m04kA/SMC-SportHub/pkg/txmanager"
)

var baseNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

// store in-memory хранилище; мьютекс tx имитирует блокировку строки события
type store struct {
	tx sync.Mutex
	mu sync.Mutex

	events       map[int64]*domain.Event
	participants map[int64]*domain.Participant // по user id
	reservations []*domain.Reservation
	nextID       int64

	createErr      error
	createFailures []error
}

func newStore() *store {
	return &store{
		events:       map[int64]*domain.Event{},
		participants: map[int64]*domain.Participant{},
	}
}

func (s *store) addParticipant(userID int64) {
	s.participants[userID] = &domain.Participant{ID: userID + 1000, UserID: userID}
}

func (s *store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	s.tx.Lock()
	defer s.tx.Unlock()
	return fn(ctx)
}

func (s *store) GetByIDForUpdate(_ context.Context, id int64) (*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, eventRepo.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *store) GetParticipantByUserID(_ context.Context, userID int64) (*domain.Participant, error) {
	p, ok := s.participants[userID]
	if !ok {
		return nil, profileRepo.ErrParticipantNotFound
	}
	return p, nil
}

func (s *store) Create(_ context.Context, r *domain.Reservation) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	if len(s.createFailures) > 0 {
		err := s.createFailures[0]
		s.createFailures = s.createFailures[1:]
		return nil, err
	}
	for _, existing := range s.reservations {
		if existing.ParticipantID == r.ParticipantID && existing.EventID == r.EventID {
			return nil, reservationRepo.ErrAlreadyExists
		}
	}
	s.nextID++
	r.ID = s.nextID
	r.CreatedAt = baseNow
	s.reservations = append(s.reservations, r)
	return r, nil
}

func (s *store) GetByParticipantAndEvent(_ context.Context, participantID, eventID int64) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reservations {
		if r.ParticipantID == participantID && r.EventID == eventID {
			return r, nil
		}
	}
	return nil, reservationRepo.ErrReservationNotFound
}

func (s *store) CountByEvent(_ context.Context, eventID int64, onlyCheckedIn bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, r := range s.reservations {
		if r.EventID != eventID {
			continue
		}
		if onlyCheckedIn && !r.IsCheckedIn {
			continue
		}
		count++
	}
	return count, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	drafts []domain.NotificationDraft
	err    error
}

func (n *recordingNotifier) Dispatch(_ context.Context, d domain.NotificationDraft) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.drafts = append(n.drafts, d)
	return n.err
}

type recordingMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func (m *recordingMetrics) ObserveReservation(d string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = map[string]int{}
	}
	m.counts[d]++
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestUseCase(s *store, n Notifier, m MetricsRecorder) *UseCase {
	uc := NewUseCase(s, s, s, s, n, m, nopLogger{})
	uc.timeProvider = fixedTime{now: baseNow}
	return uc
}

func addEvent(s *store, id int64, startIn time.Duration, capacity int) *domain.Event {
	e := &domain.Event{
		ID:          id,
		Title:       fmt.Sprintf("Event %d", id),
		OwnerID:     1,
		StartTime:   baseNow.Add(startIn),
		EndTime:     baseNow.Add(startIn + 2*time.Hour),
		Capacity:    capacity,
		PricingType: domain.PricingStable,
	}
	s.events[id] = e
	return e
}

func seedReservation(s *store, eventID int64, checkedIn bool) {
	s.nextID++
	s.reservations = append(s.reservations, &domain.Reservation{
		ID:            s.nextID,
		ParticipantID: 90000 + s.nextID,
		EventID:       eventID,
		IsCheckedIn:   checkedIn,
	})
}

func TestExecute_EarlyWithFreeCapacity(t *testing.T) {
	s := newStore()
	s.addParticipant(1)
	e := addEvent(s, 10, 72*time.Hour, 2)
	notifier := &recordingNotifier{}
	metrics := &recordingMetrics{}

	resp, err := newTestUseCase(s, notifier, metrics).Execute(context.Background(), &Request{UserID: 1, EventID: 10})
	require.NoError(t, err)

	assert.Equal(t, string(domain.DispositionConfirmed), resp.Disposition)
	assert.False(t, resp.IsCheckedIn)
	assert.False(t, resp.IsWaitListed)
	assert.False(t, resp.IsPaid)
	assert.Equal(t, e.StartTime.Add(-48*time.Hour), resp.CheckInDeadline)
	assert.Equal(t, 1, metrics.counts["confirmed"])
	require.Len(t, notifier.drafts, 1)
	assert.Equal(t, int64(1), *notifier.drafts[0].UserID)
}

func TestExecute_EarlyFullGoesToWaitList(t *testing.T) {
	s := newStore()
	s.addParticipant(1)
	addEvent(s, 10, 72*time.Hour, 2)
	seedReservation(s, 10, false)
	seedReservation(s, 10, false)

	resp, err := newTestUseCase(s, nil, nil).Execute(context.Background(), &Request{UserID: 1, EventID: 10})
	require.NoError(t, err)

	assert.True(t, resp.IsWaitListed)
	assert.False(t, resp.IsCheckedIn)
	assert.Equal(t, string(domain.DispositionWaitListed), resp.Disposition)
}

func TestExecute_LateWithFreeCapacityChecksIn(t *testing.T) {
	s := newStore()
	s.addParticipant(1)
	addEvent(s, 10, 24*time.Hour, 2)
	// неотметившиеся бронирования не занимают места в окне check-in
	seedReservation(s, 10, false)
	seedReservation(s, 10, false)
	seedReservation(s, 10, true)

	resp, err := newTestUseCase(s, nil, nil).Execute(context.Background(), &Request{UserID: 1, EventID: 10})
	require.NoError(t, err)

	assert.True(t, resp.IsCheckedIn)
	assert.False(t, resp.IsWaitListed)
	assert.Equal(t, string(domain.DispositionCheckedIn), resp.Disposition)
}

func TestExecute_LateFullIsRejected(t *testing.T) {
	s := newStore()
	s.addParticipant(1)
	addEvent(s, 10, 24*time.Hour, 2)
	seedReservation(s, 10, true)
	seedReservation(s, 10, true)
	metrics := &recordingMetrics{}

	_, err := newTestUseCase(s, nil, metrics).Execute(context.Background(), &Request{UserID: 1, EventID: 10})
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	count, _ := s.CountByEvent(context.Background(), 10, false)
	assert.Equal(t, 2, count)
	assert.Equal(t, 1, metrics.counts["rejected"])
}

func TestExecute_WindowBoundary(t *testing.T) {
	s := newStore()
	s.addParticipant(1)
	// ровно 48 часов: окно check-in еще не открыто
	addEvent(s, 10, 48*time.Hour, 1)

	resp, err := newTestUseCase(s, nil, nil).Execute(context.Background(), &Request{UserID: 1, EventID: 10})
	require.NoError(t, err)
	assert.False(t, resp.IsCheckedIn)
}

func TestExecute_FreeEventIsPaid(t *testing.T) {
	s := newStore()
	s.addParticipant(1)
	e := addEvent(s, 10, 72*time.Hour, 5)
	e.PricingType = domain.PricingFree

	resp, err := newTestUseCase(s, nil, nil).Execute(context.Background(), &Request{UserID: 1, EventID: 10})
	require.NoError(t, err)
	assert.True(t, resp.IsPaid)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(s *store)
		req     *Request
		wantErr error
	}{
		{
			name:    "invalid event id",
			setup:   func(s *store) { s.addParticipant(1) },
			req:     &Request{UserID: 1, EventID: 0},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "no participant profile",
			setup:   func(s *store) { addEvent(s, 10, 72*time.Hour, 1) },
			req:     &Request{UserID: 1, EventID: 10},
			wantErr: ErrParticipantNotFound,
		},
		{
			name:    "event not found",
			setup:   func(s *store) { s.addParticipant(1) },
			req:     &Request{UserID: 1, EventID: 10},
			wantErr: ErrEventNotFound,
		},
		{
			name: "event already started",
			setup: func(s *store) {
				s.addParticipant(1)
				addEvent(s, 10, -time.Minute, 5)
			},
			req:     &Request{UserID: 1, EventID: 10},
			wantErr: ErrEventStarted,
		},
		{
			name: "repository failure",
			setup: func(s *store) {
				s.addParticipant(1)
				addEvent(s, 10, 72*time.Hour, 5)
				s.createErr = errors.New("connection reset")
			},
			req:     &Request{UserID: 1, EventID: 10},
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore()
			tt.setup(s)

			_, err := newTestUseCase(s, nil, nil).Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_DuplicateIsConflict(t *testing.T) {
	s := newStore()
	s.addParticipant(1)
	addEvent(s, 10, 72*time.Hour, 5)
	uc := newTestUseCase(s, nil, nil)

	_, err := uc.Execute(context.Background(), &Request{UserID: 1, EventID: 10})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), &Request{UserID: 1, EventID: 10})
	assert.ErrorIs(t, err, ErrAlreadyReserved)

	count, _ := s.CountByEvent(context.Background(), 10, false)
	assert.Equal(t, 1, count)
}

func TestExecute_NotificationFailureDoesNotFail(t *testing.T) {
	s := newStore()
	s.addParticipant(1)
	addEvent(s, 10, 72*time.Hour, 5)
	notifier := &recordingNotifier{err: errors.New("broker down")}

	_, err := newTestUseCase(s, notifier, nil).Execute(context.Background(), &Request{UserID: 1, EventID: 10})
	require.NoError(t, err)
	assert.Len(t, notifier.drafts, 1)
}

func TestExecute_ConcurrentLateReservationsNeverExceedCapacity(t *testing.T) {
	const (
		capacity = 3
		users    = 20
	)

	s := newStore()
	for i := int64(1); i <= users; i++ {
		s.addParticipant(i)
	}
	addEvent(s, 10, 12*time.Hour, capacity)
	uc := newTestUseCase(s, nil, nil)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		rejected int
	)
	for i := int64(1); i <= users; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), &Request{UserID: userID, EventID: 10})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrCapacityExceeded):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, capacity, ok)
	assert.Equal(t, users-capacity, rejected)

	checkedIn, _ := s.CountByEvent(context.Background(), 10, true)
	assert.Equal(t, capacity, checkedIn)
}

func TestExecute_ConcurrentEarlyReservationsWaitListOverflow(t *testing.T) {
	const (
		capacity = 4
		users    = 15
	)

	s := newStore()
	for i := int64(1); i <= users; i++ {
		s.addParticipant(i)
	}
	addEvent(s, 10, 96*time.Hour, capacity)
	uc := newTestUseCase(s, nil, nil)

	var wg sync.WaitGroup
	for i := int64(1); i <= users; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), &Request{UserID: userID, EventID: 10})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	waitListed := 0
	for _, r := range s.reservations {
		if r.IsWaitListed {
			waitListed++
		}
	}
	assert.Len(t, s.reservations, users)
	assert.Equal(t, users-capacity, waitListed)
}

// countingBeginner выдает пустые транзакции и считает их начала
type countingBeginner struct {
	mu     sync.Mutex
	begins int
}

func (b *countingBeginner) BeginTx(context.Context, *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.begins++
	return nopTx{}, nil
}

type nopTx struct{}

func (nopTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (nopTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (nopTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row { return nil }
func (nopTx) Commit() error                                                    { return nil }
func (nopTx) Rollback() error                                                  { return nil }

func TestExecute_RetriesSerializationFailure(t *testing.T) {
	s := newStore()
	s.addParticipant(1)
	addEvent(s, 10, 72*time.Hour, 5)
	s.createFailures = []error{
		fmt.Errorf("%w: Create - execute insert: %w", reservationRepo.ErrExecQuery, &pq.Error{Code: "40001"}),
	}

	beginner := &countingBeginner{}
	uc := NewUseCase(s, s, s, txmanager.NewTransactionManager(beginner), nil, nil, nopLogger{})
	uc.timeProvider = fixedTime{now: baseNow}

	resp, err := uc.Execute(context.Background(), &Request{UserID: 1, EventID: 10})
	require.NoError(t, err)
	assert.Equal(t, string(domain.DispositionConfirmed), resp.Disposition)
	assert.Equal(t, 2, beginner.begins)

	count, _ := s.CountByEvent(context.Background(), 10, false)
	assert.Equal(t, 1, count)
}

func TestExecute_RetriesExhausted(t *testing.T) {
	s := newStore()
	s.addParticipant(1)
	addEvent(s, 10, 72*time.Hour, 5)
	conflict := &pq.Error{Code: "40001"}
	s.createFailures = []error{conflict, conflict}

	beginner := &countingBeginner{}
	uc := NewUseCase(s, s, s, txmanager.NewTransactionManager(beginner).WithMaxRetries(1), nil, nil, nopLogger{})
	uc.timeProvider = fixedTime{now: baseNow}

	_, err := uc.Execute(context.Background(), &Request{UserID: 1, EventID: 10})
	assert.ErrorIs(t, err, txmanager.ErrRetriesExhausted)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, 2, beginner.begins)
}
