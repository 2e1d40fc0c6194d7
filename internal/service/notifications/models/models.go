package models

import (
	"time"

	"github.com/m04kA/SMC-SportHub/internal/domain"
)

// NotificationResponse уведомление в ответе API
type NotificationResponse struct {
	ID        int64     `json:"id"`
	Scope     string    `json:"scope"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationListResponse список уведомлений
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
}

// Message сообщение, публикуемое в брокер
type Message struct {
	ID        int64   `json:"id"`
	Scope     string  `json:"scope"`
	UserID    *int64  `json:"userId,omitempty"`
	Role      *string `json:"role,omitempty"`
	GroupID   *int64  `json:"groupId,omitempty"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	CreatedAt string  `json:"createdAt"`
}

// FromDomainNotification конвертирует domain модель в DTO
func FromDomainNotification(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Scope:     string(n.Scope),
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// ToMessage конвертирует сохраненное уведомление в сообщение для брокера
func ToMessage(n *domain.Notification) Message {
	msg := Message{
		ID:        n.ID,
		Scope:     string(n.Scope),
		UserID:    n.UserID,
		GroupID:   n.GroupID,
		Title:     n.Title,
		Message:   n.Message,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if n.Role != nil {
		role := n.Role.String()
		msg.Role = &role
	}
	return msg
}
