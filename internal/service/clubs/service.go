package clubs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-SportHub/internal/domain"
	clubRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/club"
	profileRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/profile"
	"github.com/m04kA/SMC-SportHub/internal/service/clubs/models"
	"github.com/m04kA/SMC-SportHub/pkg/ptr"
)

// Service сервис клубов, групп и заявок на вступление
type Service struct {
	clubRepo     ClubRepository
	coachRepo    CoachRepository
	txManager    TransactionManager
	notifier     Notifier
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса клубов
// notifier может быть nil
func NewService(
	clubRepo ClubRepository,
	coachRepo CoachRepository,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		clubRepo:     clubRepo,
		coachRepo:    coachRepo,
		txManager:    txManager,
		notifier:     notifier,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// CreateClub создает клуб. Тренер-создатель автоматически входит в список тренеров клуба
func (s *Service) CreateClub(ctx context.Context, actor domain.Actor, req *models.CreateClubRequest) (*models.ClubResponse, error) {
	s.logger.Info("CreateClub: user=%d, name=%q", actor.UserID, req.Name)

	if actor.Role != domain.RoleAdmin && actor.Role != domain.RoleCoach && actor.Role != domain.RoleOwner {
		s.logger.Warn("CreateClub: role %s cannot create clubs", actor.Role)
		return nil, ErrAccessDenied
	}

	name, err := validateName(req.Name, domain.MaxClubNameLength)
	if err != nil {
		return nil, err
	}

	coachIDs := uniqueIDs(req.CoachIDs)
	if actor.Role == domain.RoleCoach {
		coach, err := s.actorCoach(ctx, "CreateClub", actor)
		if err != nil {
			return nil, err
		}
		if coach == nil {
			return nil, ErrAccessDenied
		}
		coachIDs = uniqueIDs(append([]int64{coach.ID}, coachIDs...))
	}

	club := &domain.Club{
		Name:        name,
		CreatorID:   actor.UserID,
		PresidentID: req.PresidentID,
		CoachIDs:    coachIDs,
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		created, err := s.clubRepo.CreateClub(txCtx, club)
		if err != nil {
			return s.mapRepoError("CreateClub", err)
		}
		if err := s.clubRepo.AddClubMember(txCtx, created.ID, actor.UserID); err != nil {
			return s.mapRepoError("CreateClub", err)
		}
		club = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("CreateClub: created club id=%d", club.ID)
	return models.FromDomainClub(club), nil
}

// CreateGroup создает группу клуба под руководством тренера клуба
// Доступно создателю и президенту клуба, тренерам клуба и администратору
func (s *Service) CreateGroup(ctx context.Context, actor domain.Actor, clubID int64, req *models.CreateGroupRequest) (*models.GroupResponse, error) {
	s.logger.Info("CreateGroup: user=%d, club id=%d, name=%q", actor.UserID, clubID, req.Name)

	name, err := validateName(req.Name, domain.MaxClubNameLength)
	if err != nil {
		return nil, err
	}

	club, err := s.getClub(ctx, "CreateGroup", clubID)
	if err != nil {
		return nil, err
	}

	coach, err := s.actorCoach(ctx, "CreateGroup", actor)
	if err != nil {
		return nil, err
	}

	clubCoach := coach != nil && club.HasCoach(coach.ID)
	if !actor.IsAdmin() && !club.IsAdministeredBy(actor.UserID) && !clubCoach {
		s.logger.Warn("CreateGroup: user=%d cannot manage club id=%d", actor.UserID, clubID)
		return nil, ErrAccessDenied
	}

	var coachID int64
	switch {
	case req.CoachID != nil:
		coachID = *req.CoachID
	case coach != nil:
		coachID = coach.ID
	default:
		return nil, fmt.Errorf("%w: coachId is required", ErrInvalidInput)
	}
	if !club.HasCoach(coachID) {
		s.logger.Warn("CreateGroup: coach id=%d is not a coach of club id=%d", coachID, clubID)
		return nil, fmt.Errorf("%w: coach %d does not belong to the club", ErrInvalidInput, coachID)
	}

	group, err := s.clubRepo.CreateGroup(ctx, &domain.ClubGroup{ClubID: club.ID, CoachID: coachID, Name: name})
	if err != nil {
		return nil, s.mapRepoError("CreateGroup", err)
	}

	s.logger.Info("CreateGroup: created group id=%d in club id=%d", group.ID, clubID)
	return models.FromDomainGroup(group), nil
}

// Invite приглашает пользователя в клуб или группу
// Приглашенный пользователь вступает без рассмотрения заявки
func (s *Service) Invite(ctx context.Context, actor domain.Actor, clubID int64, req *models.InviteRequest) (*models.InviteResponse, error) {
	s.logger.Info("Invite: user=%d invites user=%d to club id=%d", actor.UserID, req.UserID, clubID)

	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}

	club, group, err := s.getTarget(ctx, "Invite", clubID, req.GroupID)
	if err != nil {
		return nil, err
	}

	if err := s.checkReviewer(ctx, "Invite", actor, club, group); err != nil {
		return nil, err
	}

	member, err := s.clubRepo.IsMember(ctx, req.UserID, club.ID, req.GroupID)
	if err != nil {
		return nil, s.mapRepoError("Invite", err)
	}
	if member {
		s.logger.Warn("Invite: user=%d is already a member", req.UserID)
		return nil, ErrAlreadyMember
	}

	invite, err := s.clubRepo.CreateInvite(ctx, &domain.Invite{
		ClubID:    club.ID,
		GroupID:   req.GroupID,
		UserID:    req.UserID,
		InvitedBy: actor.UserID,
	})
	if err != nil {
		return nil, s.mapRepoError("Invite", err)
	}

	s.logger.Info("Invite: created invite id=%d", invite.ID)
	s.notify(ctx, "Invite", req.UserID, "Invitation", fmt.Sprintf("You are invited to join %q.", targetName(club, group)))

	return models.FromDomainInvite(invite), nil
}

// RequestJoinClub подает заявку на вступление в клуб
func (s *Service) RequestJoinClub(ctx context.Context, actor domain.Actor, clubID int64) (*models.JoinRequestResponse, error) {
	return s.requestJoin(ctx, actor, clubID, nil)
}

// RequestJoinGroup подает заявку на вступление в группу
func (s *Service) RequestJoinGroup(ctx context.Context, actor domain.Actor, groupID int64) (*models.JoinRequestResponse, error) {
	group, err := s.getGroup(ctx, "RequestJoinGroup", groupID)
	if err != nil {
		return nil, err
	}
	return s.requestJoin(ctx, actor, group.ClubID, ptr.Ptr(group.ID))
}

func (s *Service) requestJoin(ctx context.Context, actor domain.Actor, clubID int64, groupID *int64) (*models.JoinRequestResponse, error) {
	s.logger.Info("RequestJoin: user=%d, club id=%d, group=%v", actor.UserID, clubID, groupID)

	club, group, err := s.getTarget(ctx, "RequestJoin", clubID, groupID)
	if err != nil {
		return nil, err
	}

	var request *domain.JoinRequest

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Уже участник
		member, err := s.clubRepo.IsMember(txCtx, actor.UserID, club.ID, groupID)
		if err != nil {
			return s.mapRepoError("RequestJoin", err)
		}
		if member {
			s.logger.Warn("RequestJoin: user=%d is already a member", actor.UserID)
			return ErrAlreadyMember
		}

		// 2. Заявка уже подана
		_, err = s.clubRepo.FindPendingJoinRequest(txCtx, actor.UserID, club.ID, groupID)
		if err == nil {
			s.logger.Warn("RequestJoin: user=%d already has a pending request", actor.UserID)
			return ErrAlreadyRequested
		}
		if !errors.Is(err, clubRepo.ErrJoinRequestNotFound) {
			return s.mapRepoError("RequestJoin", err)
		}

		// 3. Приглашение дает автоматическое одобрение
		invite, err := s.clubRepo.FindInvite(txCtx, actor.UserID, club.ID, groupID)
		if err != nil && !errors.Is(err, clubRepo.ErrInviteNotFound) {
			return s.mapRepoError("RequestJoin", err)
		}

		draft := &domain.JoinRequest{
			UserID:  actor.UserID,
			ClubID:  club.ID,
			GroupID: groupID,
			Status:  domain.JoinPending,
		}
		if invite != nil {
			draft.Status = domain.JoinApproved
			draft.ReviewedBy = ptr.Ptr(invite.InvitedBy)
			draft.ReviewedAt = ptr.Ptr(s.timeProvider.Now())
		}

		created, err := s.clubRepo.CreateJoinRequest(txCtx, draft)
		if err != nil {
			return s.mapRepoError("RequestJoin", err)
		}

		if invite != nil {
			if err := s.addMembership(txCtx, created); err != nil {
				return err
			}
			if err := s.clubRepo.DeleteInvite(txCtx, invite.ID); err != nil {
				return s.mapRepoError("RequestJoin", err)
			}
			s.logger.Info("RequestJoin: invite id=%d consumed, request id=%d auto-approved", invite.ID, created.ID)
		}

		request = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	if request.Status == domain.JoinApproved {
		s.notify(ctx, "RequestJoin", actor.UserID, "Joined", fmt.Sprintf("You joined %q.", targetName(club, group)))
	} else {
		s.notifyReviewer(ctx, club, group, request)
	}

	return models.FromDomainJoinRequest(request), nil
}

// ReviewJoinRequest одобряет или отклоняет заявку
// Заявки в клуб рассматривают создатель и президент клуба, заявки в группу тренер группы,
// любые заявки администратор. Повтор того же решения ничего не меняет
func (s *Service) ReviewJoinRequest(ctx context.Context, actor domain.Actor, requestID int64, decision domain.JoinRequestStatus) (*models.JoinRequestResponse, error) {
	s.logger.Info("ReviewJoinRequest: user=%d, request id=%d, decision=%s", actor.UserID, requestID, decision)

	if decision != domain.JoinApproved && decision != domain.JoinRejected {
		return nil, fmt.Errorf("%w: decision must be approved or rejected", ErrInvalidInput)
	}

	var (
		request *domain.JoinRequest
		club    *domain.Club
		group   *domain.ClubGroup
		changed bool
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		request, err = s.clubRepo.GetJoinRequestForUpdate(txCtx, requestID)
		if err != nil {
			if errors.Is(err, clubRepo.ErrJoinRequestNotFound) {
				s.logger.Warn("ReviewJoinRequest: request id=%d not found", requestID)
				return ErrJoinRequestNotFound
			}
			return s.mapRepoError("ReviewJoinRequest", err)
		}

		club, group, err = s.getTarget(txCtx, "ReviewJoinRequest", request.ClubID, request.GroupID)
		if err != nil {
			return err
		}

		if err := s.checkReviewer(txCtx, "ReviewJoinRequest", actor, club, group); err != nil {
			return err
		}

		if request.Status == decision {
			s.logger.Info("ReviewJoinRequest: request id=%d already %s", requestID, decision)
			return nil
		}
		if request.Status != domain.JoinPending {
			s.logger.Warn("ReviewJoinRequest: request id=%d is %s, cannot change to %s", requestID, request.Status, decision)
			return ErrAlreadyReviewed
		}

		reviewedAt := s.timeProvider.Now()
		if err := s.clubRepo.UpdateJoinRequestStatus(txCtx, request.ID, decision, actor.UserID, reviewedAt); err != nil {
			return s.mapRepoError("ReviewJoinRequest", err)
		}
		request.Status = decision
		request.ReviewedBy = ptr.Ptr(actor.UserID)
		request.ReviewedAt = ptr.Ptr(reviewedAt)
		changed = true

		if decision == domain.JoinApproved {
			return s.addMembership(txCtx, request)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.logger.Info("ReviewJoinRequest: request id=%d is now %s", request.ID, request.Status)
		s.notify(ctx, "ReviewJoinRequest", request.UserID, "Join request reviewed",
			fmt.Sprintf("Your request to join %q was %s.", targetName(club, group), request.Status))
	}

	return models.FromDomainJoinRequest(request), nil
}

// addMembership добавляет пользователя в клуб и, для заявки в группу, в группу
func (s *Service) addMembership(ctx context.Context, request *domain.JoinRequest) error {
	if err := s.clubRepo.AddClubMember(ctx, request.ClubID, request.UserID); err != nil {
		return s.mapRepoError("AddMembership", err)
	}
	if request.IsGroupRequest() {
		if err := s.clubRepo.AddGroupMember(ctx, *request.GroupID, request.UserID); err != nil {
			return s.mapRepoError("AddMembership", err)
		}
	}
	return nil
}

// checkReviewer проверяет права на приглашения и рассмотрение заявок
func (s *Service) checkReviewer(ctx context.Context, op string, actor domain.Actor, club *domain.Club, group *domain.ClubGroup) error {
	if actor.IsAdmin() {
		return nil
	}

	if group == nil {
		if club.IsAdministeredBy(actor.UserID) {
			return nil
		}
		s.logger.Warn("%s: user=%d cannot manage club id=%d", op, actor.UserID, club.ID)
		return ErrAccessDenied
	}

	coach, err := s.actorCoach(ctx, op, actor)
	if err != nil {
		return err
	}
	if coach != nil && coach.ID == group.CoachID {
		return nil
	}

	s.logger.Warn("%s: user=%d cannot manage group id=%d", op, actor.UserID, group.ID)
	return ErrAccessDenied
}

// actorCoach возвращает профиль тренера пользователя или nil, если его нет
func (s *Service) actorCoach(ctx context.Context, op string, actor domain.Actor) (*domain.Coach, error) {
	if actor.Role != domain.RoleCoach {
		return nil, nil
	}
	coach, err := s.coachRepo.GetCoachByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, profileRepo.ErrCoachNotFound) {
			return nil, nil
		}
		s.logger.Error("%s: failed to get coach for user=%d: %v", op, actor.UserID, err)
		return nil, fmt.Errorf("%w: %s - profile error: %v", ErrInternal, op, err)
	}
	return coach, nil
}

func (s *Service) getClub(ctx context.Context, op string, clubID int64) (*domain.Club, error) {
	club, err := s.clubRepo.GetClubByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, clubRepo.ErrClubNotFound) {
			s.logger.Warn("%s: club id=%d not found", op, clubID)
			return nil, ErrClubNotFound
		}
		return nil, s.mapRepoError(op, err)
	}
	return club, nil
}

func (s *Service) getGroup(ctx context.Context, op string, groupID int64) (*domain.ClubGroup, error) {
	group, err := s.clubRepo.GetGroupByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, clubRepo.ErrGroupNotFound) {
			s.logger.Warn("%s: group id=%d not found", op, groupID)
			return nil, ErrGroupNotFound
		}
		return nil, s.mapRepoError(op, err)
	}
	return group, nil
}

// getTarget загружает клуб и, если указана, группу этого клуба
func (s *Service) getTarget(ctx context.Context, op string, clubID int64, groupID *int64) (*domain.Club, *domain.ClubGroup, error) {
	club, err := s.getClub(ctx, op, clubID)
	if err != nil {
		return nil, nil, err
	}
	if groupID == nil {
		return club, nil, nil
	}

	group, err := s.getGroup(ctx, op, *groupID)
	if err != nil {
		return nil, nil, err
	}
	if group.ClubID != club.ID {
		s.logger.Warn("%s: group id=%d does not belong to club id=%d", op, group.ID, club.ID)
		return nil, nil, ErrGroupNotFound
	}
	return club, group, nil
}

func (s *Service) mapRepoError(op string, err error) error {
	switch {
	case errors.Is(err, clubRepo.ErrDuplicateInvite):
		return ErrAlreadyInvited
	case errors.Is(err, clubRepo.ErrDuplicateJoinRequest):
		return ErrAlreadyRequested
	case errors.Is(err, clubRepo.ErrInvalidReference):
		s.logger.Warn("%s: invalid reference: %v", op, err)
		return fmt.Errorf("%w: referenced user or coach does not exist", ErrInvalidInput)
	}
	s.logger.Error("%s: repository error: %v", op, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

func (s *Service) notifyReviewer(ctx context.Context, club *domain.Club, group *domain.ClubGroup, request *domain.JoinRequest) {
	reviewerID := club.CreatorID
	if group != nil {
		coach, err := s.coachRepo.GetCoachByID(ctx, group.CoachID)
		if err != nil {
			s.logger.Error("RequestJoin: failed to load coach id=%d for notification: %v", group.CoachID, err)
			return
		}
		reviewerID = coach.UserID
	}
	s.notify(ctx, "RequestJoin", reviewerID, "New join request",
		fmt.Sprintf("User %d asked to join %q.", request.UserID, targetName(club, group)))
}

func (s *Service) notify(ctx context.Context, op string, userID int64, title, message string) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Dispatch(ctx, domain.NotificationDraft{
		Scope:   domain.ScopeUser,
		UserID:  ptr.Ptr(userID),
		Title:   title,
		Message: message,
	})
	if err != nil {
		s.logger.Error("%s: failed to notify user=%d: %v", op, userID, err)
	}
}

func targetName(club *domain.Club, group *domain.ClubGroup) string {
	if group != nil {
		return group.Name
	}
	return club.Name
}

func validateName(name string, maxLen int) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > maxLen {
		return "", fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, maxLen)
	}
	return name, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id <= 0 {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
