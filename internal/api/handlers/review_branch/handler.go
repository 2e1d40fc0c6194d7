package review_branch

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SportHub/internal/api/handlers"
	"github.com/m04kA/SMC-SportHub/internal/api/middleware"
	"github.com/m04kA/SMC-SportHub/internal/domain"
	reviewBranch "github.com/m04kA/SMC-SportHub/internal/usecase/review_branch"
)

const (
	msgMissingActor    = "требуется авторизация"
	msgInvalidBranchID = "некорректный ID сертификата"
	msgBranchNotFound  = "сертификат не найден"
	msgForbidden       = "доступ запрещен"
	msgAlreadyReviewed = "по сертификату уже принято другое решение"
	msgInvalidDecision = "недопустимое решение"
	msgApproved        = "сертификат одобрен"
	msgRejected        = "сертификат отклонен"
	msgUnchanged       = "решение уже было принято ранее"
)

// Handler обрабатывает одно из решений: approve или reject
type Handler struct {
	useCase  ReviewBranchUseCase
	decision domain.BranchStatus
	logger   Logger
}

func NewHandler(useCase ReviewBranchUseCase, decision domain.BranchStatus, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		decision: decision,
		logger:   logger,
	}
}

// Handle PUT /api/v1/admin/coaches/branches/{branchId}/approve|reject
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	branchID, err := handlers.PathID(r, "branchId")
	if err != nil {
		h.logger.Warn("PUT /admin/coaches/branches/{id}/%s - %v", h.decision, err)
		handlers.RespondBadRequest(w, msgInvalidBranchID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &reviewBranch.Request{
		Actor:    actor,
		BranchID: branchID,
		Decision: h.decision,
	})
	if err != nil {
		switch {
		case errors.Is(err, reviewBranch.ErrBranchNotFound):
			handlers.RespondNotFound(w, msgBranchNotFound)

		case errors.Is(err, reviewBranch.ErrAccessDenied):
			h.logger.Warn("PUT /admin/coaches/branches/{id} - Access denied: branch_id=%d, user_id=%d", branchID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reviewBranch.ErrAlreadyReviewed):
			h.logger.Warn("PUT /admin/coaches/branches/{id} - Already reviewed: branch_id=%d, decision=%s", branchID, h.decision)
			handlers.RespondConflict(w, msgAlreadyReviewed)

		case errors.Is(err, reviewBranch.ErrInvalidDecision):
			handlers.RespondBadRequest(w, msgInvalidDecision)

		default:
			h.logger.Error("PUT /admin/coaches/branches/{id} - Failed to review: branch_id=%d, error=%v", branchID, err)
			handlers.RespondInternalErrorWithCause(w, err)
		}
		return
	}

	message := msgApproved
	switch {
	case !result.Changed:
		message = msgUnchanged
	case h.decision == domain.BranchRejected:
		message = msgRejected
	}

	h.logger.Info("PUT /admin/coaches/branches/{id} - Reviewed: branch_id=%d, status=%s, changed=%t",
		result.BranchID, result.Status, result.Changed)
	handlers.RespondMessage(w, http.StatusOK, message, fromUseCaseResponse(result))
}
