package get_notifications

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SportHub/internal/api/handlers"
	"github.com/m04kA/SMC-SportHub/internal/api/middleware"
	"github.com/m04kA/SMC-SportHub/internal/service/notifications"
)

const (
	msgMissingActor  = "требуется авторизация"
	msgInvalidPaging = "некорректные параметры page или limit"
)

type Handler struct {
	service NotificationService
	logger  Logger
}

func NewHandler(service NotificationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/notifications?page=1&limit=20
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	page, errPage := queryInt(r, "page")
	limit, errLimit := queryInt(r, "limit")
	if errPage != nil || errLimit != nil {
		handlers.RespondBadRequest(w, msgInvalidPaging)
		return
	}

	result, err := h.service.ListForUser(r.Context(), actor, page, limit)
	if err != nil {
		if errors.Is(err, notifications.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidPaging)
			return
		}
		h.logger.Error("GET /notifications - Failed to list: user_id=%d, error=%v", actor.UserID, err)
		handlers.RespondInternalErrorWithCause(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// queryInt читает необязательный числовой параметр, 0 если не задан
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
