package join_club

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SportHub/internal/api/handlers"
	"github.com/m04kA/SMC-SportHub/internal/api/middleware"
	"github.com/m04kA/SMC-SportHub/internal/domain"
	"github.com/m04kA/SMC-SportHub/internal/service/clubs"
)

const (
	msgMissingActor     = "требуется авторизация"
	msgInvalidID        = "некорректный ID клуба или группы"
	msgClubNotFound     = "клуб не найден"
	msgGroupNotFound    = "группа не найдена"
	msgAlreadyMember    = "вы уже состоите в клубе или группе"
	msgAlreadyRequested = "заявка уже подана и ожидает рассмотрения"
	msgRequested        = "заявка подана"
	msgJoined           = "вы вступили по приглашению"
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

// Handle POST /api/v1/clubs/{clubId}/join и POST /api/v1/groups/{groupId}/join
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	_, isGroup := mux.Vars(r)["groupId"]
	param := "clubId"
	if isGroup {
		param = "groupId"
	}

	targetID, err := handlers.PathID(r, param)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	join := h.service.RequestJoinClub
	if isGroup {
		join = h.service.RequestJoinGroup
	}

	request, err := join(r.Context(), actor, targetID)
	if err != nil {
		switch {
		case errors.Is(err, clubs.ErrClubNotFound):
			handlers.RespondNotFound(w, msgClubNotFound)

		case errors.Is(err, clubs.ErrGroupNotFound):
			handlers.RespondNotFound(w, msgGroupNotFound)

		case errors.Is(err, clubs.ErrAlreadyMember):
			handlers.RespondConflict(w, msgAlreadyMember)

		case errors.Is(err, clubs.ErrAlreadyRequested):
			h.logger.Warn("POST /%s/join - Duplicate request: user_id=%d, id=%d", param, actor.UserID, targetID)
			handlers.RespondConflict(w, msgAlreadyRequested)

		default:
			h.logger.Error("POST /%s/join - Failed to request join: user_id=%d, id=%d, error=%v", param, actor.UserID, targetID, err)
			handlers.RespondInternalErrorWithCause(w, err)
		}
		return
	}

	message := msgRequested
	if request.Status == string(domain.JoinApproved) {
		message = msgJoined
	}

	h.logger.Info("POST /%s/join - Join request id=%d, status=%s", param, request.ID, request.Status)
	handlers.RespondMessage(w, http.StatusCreated, message, request)
}
