package domain

import "time"

// NotificationScope defines who receives a notification
type NotificationScope string

const (
	ScopeUser   NotificationScope = "user"
	ScopeGlobal NotificationScope = "global"
	ScopeRole   NotificationScope = "role"
	ScopeGroup  NotificationScope = "group"
)

// Notification is a stored message for a user, a role, a group or everyone
type Notification struct {
	ID        int64
	Scope     NotificationScope
	UserID    *int64
	Role      *Role
	GroupID   *int64
	Title     string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}

// NotificationDraft describes a notification to dispatch
type NotificationDraft struct {
	Scope   NotificationScope
	UserID  *int64
	Role    *Role
	GroupID *int64
	Title   string
	Message string
}
