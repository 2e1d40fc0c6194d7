package replace_branches

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SportHub/internal/domain"
	profileRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/profile"
)

// UseCase замена полного набора сертификатов тренера
type UseCase struct {
	branchRepo  BranchRepository
	coachRepo   CoachRepository
	sportRepo   SportRepository
	files       FileStorage
	txManager   TransactionManager
	maxFileSize int64
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
// maxFileSize ограничивает размер одного файла в байтах, 0 = без ограничения
func NewUseCase(
	branchRepo BranchRepository,
	coachRepo CoachRepository,
	sportRepo SportRepository,
	files FileStorage,
	txManager TransactionManager,
	maxFileSize int64,
	logger Logger,
) *UseCase {
	return &UseCase{
		branchRepo:  branchRepo,
		coachRepo:   coachRepo,
		sportRepo:   sportRepo,
		files:       files,
		txManager:   txManager,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// Execute заменяет все сертификаты тренера новым набором
//
// Старый набор удаляется, новый сохраняется в статусе pending, тренер теряет верификацию.
// При любой ошибке новые файлы удаляются, а старый набор остается нетронутым.
// После фиксации удаляются файлы старых сертификатов, не вошедших в новый набор
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReplaceBranches: user=%d, branches=%d, files=%d", req.UserID, len(req.Descriptors), len(req.Files))

	// 1. Профиль тренера
	coach, err := uc.coachRepo.GetCoachByUserID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, profileRepo.ErrCoachNotFound) {
			uc.logger.Warn("ReplaceBranches: user=%d has no coach profile", req.UserID)
			return nil, ErrCoachNotFound
		}
		uc.logger.Error("ReplaceBranches: failed to get coach for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: failed to get coach: %w", ErrInternal, err)
	}

	// 2. Валидация набора и файлов
	if err := validateRequest(req, uc.maxFileSize); err != nil {
		uc.logger.Warn("ReplaceBranches: coach id=%d: %v", coach.ID, err)
		return nil, err
	}

	// 3. Проверяем справочник видов спорта
	sportIDs := make([]int64, 0, len(req.Descriptors))
	for _, d := range req.Descriptors {
		sportIDs = append(sportIDs, d.SportID)
	}
	sports, err := uc.sportRepo.GetByIDs(ctx, sportIDs)
	if err != nil {
		uc.logger.Error("ReplaceBranches: failed to get sports: %v", err)
		return nil, fmt.Errorf("%w: failed to get sports: %w", ErrInternal, err)
	}
	if err := validateSportsExist(req.Descriptors, sports); err != nil {
		uc.logger.Warn("ReplaceBranches: coach id=%d: %v", coach.ID, err)
		return nil, err
	}

	// 4. Сохраняем новые файлы
	saved, err := uc.saveFiles(req.Files)
	if err != nil {
		return nil, err
	}

	var (
		previous []*domain.Branch
		created  []*domain.Branch
	)

	// 5. Удаление старого набора, вставка нового и снятие верификации атомарны
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		existing, err := uc.branchRepo.GetByCoachID(txCtx, coach.ID)
		if err != nil {
			uc.logger.Error("ReplaceBranches: failed to get branches of coach id=%d: %v", coach.ID, err)
			return fmt.Errorf("%w: failed to get branches: %w", ErrInternal, err)
		}

		if err := validateKeptCertificates(req.Descriptors, existing); err != nil {
			uc.logger.Warn("ReplaceBranches: coach id=%d: %v", coach.ID, err)
			return err
		}

		deleted, err := uc.branchRepo.DeleteByCoachID(txCtx, coach.ID)
		if err != nil {
			uc.logger.Error("ReplaceBranches: failed to delete branches of coach id=%d: %v", coach.ID, err)
			return fmt.Errorf("%w: failed to delete branches: %w", ErrInternal, err)
		}

		branches := make([]*domain.Branch, 0, len(req.Descriptors))
		for _, d := range req.Descriptors {
			certificate := saved[d.SportID]
			if d.Certificate != nil {
				certificate = *d.Certificate
			}
			branches = append(branches, &domain.Branch{
				CoachID:     coach.ID,
				SportID:     d.SportID,
				BranchOrder: d.BranchOrder,
				Status:      domain.BranchPending,
				Certificate: certificate,
			})
		}

		inserted, err := uc.branchRepo.CreateBatch(txCtx, branches)
		if err != nil {
			uc.logger.Error("ReplaceBranches: failed to insert branches for coach id=%d: %v", coach.ID, err)
			return fmt.Errorf("%w: failed to insert branches: %w", ErrInternal, err)
		}

		if err := uc.coachRepo.SetCoachVerified(txCtx, coach.ID, false); err != nil {
			uc.logger.Error("ReplaceBranches: failed to reset verification of coach id=%d: %v", coach.ID, err)
			return fmt.Errorf("%w: failed to reset verification: %w", ErrInternal, err)
		}

		uc.logger.Info("ReplaceBranches: coach id=%d, replaced %d branches with %d", coach.ID, deleted, len(inserted))
		previous = existing
		created = inserted
		return nil
	})
	if err != nil {
		uc.removeFiles(saved)
		return nil, err
	}

	// 6. Удаляем файлы старых сертификатов, которые больше не используются
	uc.removeOrphans(previous, created)

	resp := &Response{
		CoachID:    coach.ID,
		IsVerified: false,
		Branches:   make([]Branch, 0, len(created)),
	}
	for _, b := range created {
		resp.Branches = append(resp.Branches, Branch{
			ID:          b.ID,
			SportID:     b.SportID,
			BranchOrder: b.BranchOrder,
			Status:      string(b.Status),
			Certificate: b.Certificate,
			CreatedAt:   b.CreatedAt,
		})
	}

	return resp, nil
}

// saveFiles сохраняет загруженные файлы; при ошибке удаляет уже сохраненные
func (uc *UseCase) saveFiles(uploads []Upload) (map[int64]string, error) {
	saved := make(map[int64]string, len(uploads))
	for _, u := range uploads {
		name, err := uc.files.Save(u.Content, u.FileName)
		if err != nil {
			uc.logger.Error("ReplaceBranches: failed to save certificate for sport %d: %v", u.SportID, err)
			uc.removeFiles(saved)
			return nil, fmt.Errorf("%w: failed to save certificate: %w", ErrInternal, err)
		}
		saved[u.SportID] = name
	}
	return saved, nil
}

func (uc *UseCase) removeFiles(saved map[int64]string) {
	for _, name := range saved {
		if err := uc.files.Remove(name); err != nil {
			uc.logger.Warn("ReplaceBranches: failed to remove file %s: %v", name, err)
		}
	}
}

func (uc *UseCase) removeOrphans(previous, current []*domain.Branch) {
	inUse := make(map[string]struct{}, len(current))
	for _, b := range current {
		inUse[b.Certificate] = struct{}{}
	}

	for _, b := range previous {
		if _, ok := inUse[b.Certificate]; ok || b.Certificate == "" {
			continue
		}
		if err := uc.files.Remove(b.Certificate); err != nil {
			uc.logger.Warn("ReplaceBranches: failed to remove old certificate %s: %v", b.Certificate, err)
		}
	}
}
