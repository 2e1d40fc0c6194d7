package review_branch

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
	reviewBranch "github.com/m04kA/SMC-SportHub/internal/usecase/review_branch"
)

type fakeUseCase struct {
	got  *reviewBranch.Request
	resp *reviewBranch.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *reviewBranch.Request) (*reviewBranch.Response, error) {
	f.got = req
	return f.resp, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var admin = domain.Actor{UserID: 1, Role: domain.RoleAdmin}

func serve(t *testing.T, uc *fakeUseCase, decision domain.BranchStatus, branchID string) (*httptest.ResponseRecorder, handlers.Envelope) {
	t.Helper()
	r := mux.NewRouter()
	r.HandleFunc("/admin/coaches/branches/{branchId}/"+string(decision), NewHandler(uc, decision, nopLogger{}).Handle)

	req := httptest.NewRequest(http.MethodPut, "/admin/coaches/branches/"+branchID+"/"+string(decision), nil)
	req = req.WithContext(middleware.WithActor(req.Context(), admin))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env handlers.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestHandle_Approve(t *testing.T) {
	uc := &fakeUseCase{resp: &reviewBranch.Response{BranchID: 5, Status: "approved", Changed: true, CoachVerified: true}}

	rec, env := serve(t, uc, domain.BranchApproved, "5")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, msgApproved, env.Message)
	assert.Equal(t, &reviewBranch.Request{Actor: admin, BranchID: 5, Decision: domain.BranchApproved}, uc.got)
	assert.Equal(t, true, env.Data.(map[string]interface{})["coachVerified"])
}

func TestHandle_RepeatIsNoOp(t *testing.T) {
	uc := &fakeUseCase{resp: &reviewBranch.Response{BranchID: 5, Status: "rejected", Changed: false}}

	rec, env := serve(t, uc, domain.BranchRejected, "5")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, msgUnchanged, env.Message)
}

func TestHandle_Errors(t *testing.T) {
	rec, _ := serve(t, &fakeUseCase{err: reviewBranch.ErrAlreadyReviewed}, domain.BranchRejected, "5")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = serve(t, &fakeUseCase{err: reviewBranch.ErrBranchNotFound}, domain.BranchApproved, "5")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = serve(t, &fakeUseCase{err: reviewBranch.ErrAccessDenied}, domain.BranchApproved, "5")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = serve(t, &fakeUseCase{}, domain.BranchApproved, "abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
