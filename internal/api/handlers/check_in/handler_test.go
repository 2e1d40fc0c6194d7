package check_in

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SportHub/internal/api/handlers"
	"github.com/m04kA/SMC-SportHub/internal/api/middleware"
	"github.com/m04kA/SMC-SportHub/internal/domain"
	checkIn "github.com/m04kA/SMC-SportHub/internal/usecase/check_in"
)

type fakeUseCase struct {
	got  *checkIn.Request
	resp *checkIn.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *checkIn.Request) (*checkIn.Response, error) {
	f.got = req
	return f.resp, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(t *testing.T, uc *fakeUseCase, body string, withActor bool) (*httptest.ResponseRecorder, handlers.Envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/participant/check-in", strings.NewReader(body))
	if withActor {
		req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{UserID: 100, Role: domain.RoleParticipant}))
	}
	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, req)

	var env handlers.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestHandle_CheckedIn(t *testing.T) {
	uc := &fakeUseCase{resp: &checkIn.Response{
		ID:            3,
		ParticipantID: 5,
		EventID:       7,
		IsCheckedIn:   true,
		UpdatedAt:     time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC),
	}}

	rec, env := serve(t, uc, `{"eventId": 7}`, true)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, msgCheckedIn, env.Message)
	assert.Equal(t, &checkIn.Request{UserID: 100, EventID: 7}, uc.got)

	data := env.Data.(map[string]interface{})
	assert.Equal(t, true, data["isCheckedIn"])
	assert.Equal(t, "2025-05-01T08:00:00Z", data["updatedAt"])
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"no participant profile", checkIn.ErrParticipantNotFound, http.StatusUnauthorized},
		{"no reservation", checkIn.ErrReservationNotFound, http.StatusForbidden},
		{"not eligible", checkIn.ErrNotEligible, http.StatusForbidden},
		{"capacity exceeded", checkIn.ErrCapacityExceeded, http.StatusForbidden},
		{"event ended", checkIn.ErrEventEnded, http.StatusForbidden},
		{"event not found", checkIn.ErrEventNotFound, http.StatusNotFound},
		{"invalid input", fmt.Errorf("%w: eventId must be positive", checkIn.ErrInvalidInput), http.StatusBadRequest},
		{"internal", fmt.Errorf("%w: boom", checkIn.ErrInternal), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := serve(t, &fakeUseCase{err: tt.err}, `{"eventId": 7}`, true)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Error)
		})
	}
}

func TestHandle_BadRequests(t *testing.T) {
	rec, _ := serve(t, &fakeUseCase{}, `{"eventId": "x"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = serve(t, &fakeUseCase{}, `{"eventId": 7}`, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
