package invite_member

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SportHub/internal/api/handlers"
	"github.com/m04kA/SMC-SportHub/internal/api/middleware"
	"github.com/m04kA/SMC-SportHub/internal/service/clubs"
	"github.com/m04kA/SMC-SportHub/internal/service/clubs/models"
)

const (
	msgMissingActor       = "требуется авторизация"
	msgInvalidClubID      = "некорректный ID клуба"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInvite      = "некорректные данные приглашения"
	msgClubNotFound       = "клуб не найден"
	msgGroupNotFound      = "группа не найдена"
	msgForbidden          = "вы не можете приглашать в этот клуб или группу"
	msgAlreadyMember      = "пользователь уже состоит в клубе или группе"
	msgAlreadyInvited     = "пользователь уже приглашен"
)

type Handler struct {
	service ClubService
	logger  Logger
}

func NewHandler(service ClubService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/clubs/{clubId}/invites
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	clubID, err := handlers.PathID(r, "clubId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidClubID)
		return
	}

	var req models.InviteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /clubs/{id}/invites - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	invite, err := h.service.Invite(r.Context(), actor, clubID, &req)
	if err != nil {
		switch {
		case errors.Is(err, clubs.ErrInvalidInput):
			handlers.RespondBadRequest(w, handlers.DetailMessage(err, clubs.ErrInvalidInput, msgInvalidInvite))

		case errors.Is(err, clubs.ErrClubNotFound):
			handlers.RespondNotFound(w, msgClubNotFound)

		case errors.Is(err, clubs.ErrGroupNotFound):
			handlers.RespondNotFound(w, msgGroupNotFound)

		case errors.Is(err, clubs.ErrAccessDenied):
			h.logger.Warn("POST /clubs/{id}/invites - Access denied: club_id=%d, user_id=%d", clubID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, clubs.ErrAlreadyMember):
			handlers.RespondConflict(w, msgAlreadyMember)

		case errors.Is(err, clubs.ErrAlreadyInvited):
			handlers.RespondConflict(w, msgAlreadyInvited)

		default:
			h.logger.Error("POST /clubs/{id}/invites - Failed to invite: club_id=%d, error=%v", clubID, err)
			handlers.RespondInternalErrorWithCause(w, err)
		}
		return
	}

	h.logger.Info("POST /clubs/{id}/invites - Invite created: id=%d, user_id=%d", invite.ID, invite.UserID)
	handlers.RespondJSON(w, http.StatusCreated, invite)
}
