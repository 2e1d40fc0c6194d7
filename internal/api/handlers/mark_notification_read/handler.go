package mark_notification_read

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SportHub/internal/api/handlers"
	"github.com/m04kA/SMC-SportHub/internal/api/middleware"
	"github.com/m04kA/SMC-SportHub/internal/service/notifications"
)

const (
	msgMissingActor          = "требуется авторизация"
	msgInvalidNotificationID = "некорректный ID уведомления"
	msgNotFound              = "уведомление не найдено"
	msgMarkedRead            = "уведомление прочитано"
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

// Handle PATCH /api/v1/notifications/{id}/read
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	id, err := handlers.PathID(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidNotificationID)
		return
	}

	if err := h.service.MarkRead(r.Context(), actor, id); err != nil {
		if errors.Is(err, notifications.ErrNotificationNotFound) {
			h.logger.Warn("PATCH /notifications/{id}/read - Not found: id=%d, user_id=%d", id, actor.UserID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("PATCH /notifications/{id}/read - Failed: id=%d, error=%v", id, err)
		handlers.RespondInternalErrorWithCause(w, err)
		return
	}

	handlers.RespondMessage(w, http.StatusOK, msgMarkedRead, nil)
}
