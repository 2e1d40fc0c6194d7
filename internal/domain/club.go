package domain

import "time"

// Club is a sports club
type Club struct {
	ID          int64
	Name        string
	CreatorID   int64  // user id
	PresidentID *int64 // user id
	CoachIDs    []int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsAdministeredBy returns true if the user created the club or is its president
func (c *Club) IsAdministeredBy(userID int64) bool {
	if c.CreatorID == userID {
		return true
	}
	return c.PresidentID != nil && *c.PresidentID == userID
}

// HasCoach returns true if the coach belongs to the club
func (c *Club) HasCoach(coachID int64) bool {
	for _, id := range c.CoachIDs {
		if id == coachID {
			return true
		}
	}
	return false
}

// ClubGroup is a group inside a club owned by a coach
type ClubGroup struct {
	ID        int64
	ClubID    int64
	CoachID   int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// JoinRequestStatus is the approval status of a join request
type JoinRequestStatus string

const (
	JoinPending  JoinRequestStatus = "pending"
	JoinApproved JoinRequestStatus = "approved"
	JoinRejected JoinRequestStatus = "rejected"
)

// JoinRequest tracks a user's request to join a club or one of its groups
type JoinRequest struct {
	ID         int64
	UserID     int64
	ClubID     int64
	GroupID    *int64 // nil = request to the club itself
	Status     JoinRequestStatus
	ReviewedBy *int64
	ReviewedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsGroupRequest returns true if the request targets a group
func (r *JoinRequest) IsGroupRequest() bool {
	return r.GroupID != nil
}

// Invite lets a user join a club or group without review
type Invite struct {
	ID        int64
	ClubID    int64
	GroupID   *int64
	UserID    int64
	InvitedBy int64
	CreatedAt time.Time
}
