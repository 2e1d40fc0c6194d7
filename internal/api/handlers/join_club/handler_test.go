package join_club

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SportHub/internal/api/handlers"
	"github.com/m04kA/SMC-SportHub/internal/api/middleware"
	"github.com/m04kA/SMC-SportHub/internal/domain"
	"github.com/m04kA/SMC-SportHub/internal/service/clubs"
	"github.com/m04kA/SMC-SportHub/internal/service/clubs/models"
)

type fakeService struct {
	calls  []string
	status domain.JoinRequestStatus
	err    error
}

func (f *fakeService) RequestJoinClub(_ context.Context, _ domain.Actor, clubID int64) (*models.JoinRequestResponse, error) {
	f.calls = append(f.calls, "club")
	if f.err != nil {
		return nil, f.err
	}
	return &models.JoinRequestResponse{ID: 1, ClubID: clubID, Status: string(f.status)}, nil
}

func (f *fakeService) RequestJoinGroup(_ context.Context, _ domain.Actor, groupID int64) (*models.JoinRequestResponse, error) {
	f.calls = append(f.calls, "group")
	if f.err != nil {
		return nil, f.err
	}
	return &models.JoinRequestResponse{ID: 2, ClubID: 1, GroupID: &groupID, Status: string(f.status)}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(t *testing.T, svc *fakeService, path string) (*httptest.ResponseRecorder, handlers.Envelope) {
	t.Helper()
	h := NewHandler(svc, nopLogger{})
	r := mux.NewRouter()
	r.HandleFunc("/clubs/{clubId}/join", h.Handle).Methods(http.MethodPost)
	r.HandleFunc("/groups/{groupId}/join", h.Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, path, nil)
	req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{UserID: 100, Role: domain.RoleParticipant}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env handlers.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestHandle_RoutesByTarget(t *testing.T) {
	svc := &fakeService{status: domain.JoinPending}

	rec, env := serve(t, svc, "/clubs/4/join")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, msgRequested, env.Message)

	rec, _ = serve(t, svc, "/groups/9/join")
	assert.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, []string{"club", "group"}, svc.calls)
}

func TestHandle_InviteAutoApproved(t *testing.T) {
	_, env := serve(t, &fakeService{status: domain.JoinApproved}, "/groups/9/join")
	assert.Equal(t, msgJoined, env.Message)
}

func TestHandle_Conflicts(t *testing.T) {
	rec, _ := serve(t, &fakeService{err: clubs.ErrAlreadyRequested}, "/clubs/4/join")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = serve(t, &fakeService{err: clubs.ErrAlreadyMember}, "/groups/9/join")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = serve(t, &fakeService{err: clubs.ErrGroupNotFound}, "/groups/9/join")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = serve(t, &fakeService{}, "/clubs/0/join")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
