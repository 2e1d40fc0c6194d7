package domain

import "time"

// BranchStatus is the approval status of a coach certification branch
type BranchStatus string

const (
	BranchPending  BranchStatus = "pending"
	BranchApproved BranchStatus = "approved"
	BranchRejected BranchStatus = "rejected"
)

// IsTerminal returns true if the status can no longer change by review
func (s BranchStatus) IsTerminal() bool {
	return s == BranchApproved || s == BranchRejected
}

// IsDecision returns true if the status is a valid review decision
func (s BranchStatus) IsDecision() bool {
	return s.IsTerminal()
}

// Branch is one sport-specific certification record of a coach
type Branch struct {
	ID          int64
	CoachID     int64
	SportID     int64
	BranchOrder int
	Status      BranchStatus
	Certificate string // path of the stored certificate file
	ReviewedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AllApproved returns true if the set is non-empty and every branch is approved
func AllApproved(branches []*Branch) bool {
	if len(branches) == 0 {
		return false
	}
	for _, b := range branches {
		if b.Status != BranchApproved {
			return false
		}
	}
	return true
}
