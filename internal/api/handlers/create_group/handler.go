package create_group

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
	msgInvalidGroup       = "некорректные данные группы"
	msgClubNotFound       = "клуб не найден"
	msgForbidden          = "вы не управляете этим клубом"
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

// Handle POST /api/v1/clubs/{clubId}/groups
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

	var req models.CreateGroupRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /clubs/{id}/groups - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	group, err := h.service.CreateGroup(r.Context(), actor, clubID, &req)
	if err != nil {
		switch {
		case errors.Is(err, clubs.ErrInvalidInput):
			handlers.RespondBadRequest(w, handlers.DetailMessage(err, clubs.ErrInvalidInput, msgInvalidGroup))

		case errors.Is(err, clubs.ErrClubNotFound):
			handlers.RespondNotFound(w, msgClubNotFound)

		case errors.Is(err, clubs.ErrAccessDenied):
			h.logger.Warn("POST /clubs/{id}/groups - Access denied: club_id=%d, user_id=%d", clubID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /clubs/{id}/groups - Failed to create group: club_id=%d, error=%v", clubID, err)
			handlers.RespondInternalErrorWithCause(w, err)
		}
		return
	}

	h.logger.Info("POST /clubs/{id}/groups - Group created: id=%d, club_id=%d", group.ID, clubID)
	handlers.RespondJSON(w, http.StatusCreated, group)
}
