package review_branch

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SportHub/internal/domain"
	branchRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/branch"
	profileRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/profile"
	"github.com/m04kA/SMC-SportHub/pkg/ptr"
)

// UseCase рассмотрение сертификата тренера
type UseCase struct {
	branchRepo   BranchRepository
	coachRepo    CoachRepository
	txManager    TransactionManager
	notifier     Notifier
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// notifier и metrics могут быть nil
func NewUseCase(
	branchRepo BranchRepository,
	coachRepo CoachRepository,
	txManager TransactionManager,
	notifier Notifier,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		branchRepo:   branchRepo,
		coachRepo:    coachRepo,
		txManager:    txManager,
		notifier:     notifier,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute переводит сертификат из pending в approved или rejected
// Повтор того же решения ничего не меняет, смена принятого решения запрещена.
// Когда все сертификаты тренера одобрены, тренер становится верифицированным
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReviewBranch: branch id=%d, decision=%s, user=%d", req.BranchID, req.Decision, req.Actor.UserID)

	// 1. Валидация решения
	if !req.Decision.IsDecision() {
		uc.logger.Warn("ReviewBranch: invalid decision %q", req.Decision)
		return nil, ErrInvalidDecision
	}

	var resp *Response

	// 2. Смена статуса и верификация тренера атомарны
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		branch, err := uc.branchRepo.GetByID(txCtx, req.BranchID)
		if err != nil {
			if errors.Is(err, branchRepo.ErrBranchNotFound) {
				uc.logger.Warn("ReviewBranch: branch id=%d not found", req.BranchID)
				return ErrBranchNotFound
			}
			uc.logger.Error("ReviewBranch: failed to get branch id=%d: %v", req.BranchID, err)
			return fmt.Errorf("%w: failed to get branch: %w", ErrInternal, err)
		}

		// 2.1. Права: администратор или тренер-владелец
		if err := uc.checkAccess(txCtx, req.Actor, branch); err != nil {
			return err
		}

		resp = &Response{
			BranchID:   branch.ID,
			CoachID:    branch.CoachID,
			SportID:    branch.SportID,
			Status:     string(branch.Status),
			ReviewedAt: branch.ReviewedAt,
		}

		// 2.2. Идемпотентность и запрет смены решения
		if branch.Status == req.Decision {
			uc.logger.Info("ReviewBranch: branch id=%d already %s", branch.ID, branch.Status)
			return nil
		}
		if branch.Status.IsTerminal() {
			uc.logger.Warn("ReviewBranch: branch id=%d is %s, cannot change to %s", branch.ID, branch.Status, req.Decision)
			return ErrAlreadyReviewed
		}

		reviewedAt := uc.timeProvider.Now()
		if err := uc.branchRepo.UpdateStatus(txCtx, branch.ID, req.Decision, reviewedAt); err != nil {
			uc.logger.Error("ReviewBranch: failed to update branch id=%d: %v", branch.ID, err)
			return fmt.Errorf("%w: failed to update branch: %w", ErrInternal, err)
		}
		resp.Status = string(req.Decision)
		resp.ReviewedAt = ptr.Ptr(reviewedAt)
		resp.Changed = true

		if req.Decision != domain.BranchApproved {
			return nil
		}

		// 2.3. Верификация тренера, если одобрены все его сертификаты
		branches, err := uc.branchRepo.GetByCoachID(txCtx, branch.CoachID)
		if err != nil {
			uc.logger.Error("ReviewBranch: failed to get branches of coach id=%d: %v", branch.CoachID, err)
			return fmt.Errorf("%w: failed to get coach branches: %w", ErrInternal, err)
		}
		for _, b := range branches {
			if b.ID == branch.ID {
				b.Status = req.Decision
			}
		}
		if domain.AllApproved(branches) {
			if err := uc.coachRepo.SetCoachVerified(txCtx, branch.CoachID, true); err != nil {
				uc.logger.Error("ReviewBranch: failed to verify coach id=%d: %v", branch.CoachID, err)
				return fmt.Errorf("%w: failed to verify coach: %w", ErrInternal, err)
			}
			resp.CoachVerified = true
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if !resp.Changed {
		return resp, nil
	}

	if uc.metrics != nil {
		uc.metrics.ObserveBranchReview(resp.Status)
	}
	uc.logger.Info("ReviewBranch: branch id=%d is now %s, coach verified=%t", resp.BranchID, resp.Status, resp.CoachVerified)

	// 3. Уведомляем тренера, ошибки уведомления не влияют на результат
	uc.notify(ctx, resp)

	return resp, nil
}

func (uc *UseCase) checkAccess(ctx context.Context, actor domain.Actor, branch *domain.Branch) error {
	if actor.IsAdmin() {
		return nil
	}

	coach, err := uc.coachRepo.GetCoachByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, profileRepo.ErrCoachNotFound) {
			uc.logger.Warn("ReviewBranch: user=%d is neither admin nor coach", actor.UserID)
			return ErrAccessDenied
		}
		uc.logger.Error("ReviewBranch: failed to get coach for user=%d: %v", actor.UserID, err)
		return fmt.Errorf("%w: failed to get coach: %w", ErrInternal, err)
	}

	if coach.ID != branch.CoachID {
		uc.logger.Warn("ReviewBranch: coach id=%d does not own branch id=%d", coach.ID, branch.ID)
		return ErrAccessDenied
	}

	return nil
}

func (uc *UseCase) notify(ctx context.Context, resp *Response) {
	if uc.notifier == nil {
		return
	}

	coach, err := uc.coachRepo.GetCoachByID(ctx, resp.CoachID)
	if err != nil {
		uc.logger.Error("ReviewBranch: failed to load coach id=%d for notification: %v", resp.CoachID, err)
		return
	}

	message := fmt.Sprintf("Your certificate for sport %d was %s.", resp.SportID, resp.Status)
	if resp.CoachVerified {
		message += " All your certificates are approved, your profile is now verified."
	}

	err = uc.notifier.Dispatch(ctx, domain.NotificationDraft{
		Scope:   domain.ScopeUser,
		UserID:  ptr.Ptr(coach.UserID),
		Title:   "Certificate reviewed",
		Message: message,
	})
	if err != nil {
		uc.logger.Error("ReviewBranch: failed to notify coach id=%d: %v", coach.ID, err)
	}
}
