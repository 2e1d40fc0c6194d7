package domain

// Role is a user role as issued by the authentication layer
type Role int

const (
	RoleAdmin       Role = 0
	RoleParticipant Role = 1
	RoleCoach       Role = 2
	RoleOwner       Role = 3
)

// IsValid returns true if the role is one of the known roles
func (r Role) IsValid() bool {
	return r >= RoleAdmin && r <= RoleOwner
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleParticipant:
		return "participant"
	case RoleCoach:
		return "coach"
	case RoleOwner:
		return "owner"
	default:
		return "unknown"
	}
}

// Actor is the authenticated caller of an operation
type Actor struct {
	UserID int64
	Role   Role
}

// IsAdmin returns true if the actor has the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Participant is the end-user profile that reserves events
type Participant struct {
	ID     int64
	UserID int64
}

// Coach is the end-user profile that owns events and certification branches
type Coach struct {
	ID         int64
	UserID     int64
	IsVerified bool
}

// Sport is a reference sport record
type Sport struct {
	ID   int64
	Name string
}
