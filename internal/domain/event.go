package domain

import "time"

// PricingType defines how an event is paid for
type PricingType string

const (
	PricingFree   PricingType = "free"
	PricingStable PricingType = "stable"
	PricingManual PricingType = "manual"
)

// IsValid returns true if the pricing type is known
func (p PricingType) IsValid() bool {
	return p == PricingFree || p == PricingStable || p == PricingManual
}

// Event represents a coach-owned event with a fixed capacity
type Event struct {
	ID            int64
	Title         string
	OwnerID       int64  // coach id
	BackupCoachID *int64 // optional second coach allowed to manage the event
	StartTime     time.Time
	EndTime       time.Time
	Capacity      int

	PricingType PricingType
	Fee         float64

	IsPrivate    bool
	PrivateToken *string

	SportID      int64
	StyleID      *int64
	SportGroupID *int64

	FacilityID *int64
	SalonID    *int64
	Location   *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CheckInDeadline returns the moment the check-in window opens
func (e *Event) CheckInDeadline() time.Time {
	return e.StartTime.Add(-CheckInWindow)
}

// IsWithinCheckInWindow returns true if less than CheckInWindow is left before start
func (e *Event) IsWithinCheckInWindow(now time.Time) bool {
	return e.StartTime.Sub(now) < CheckInWindow
}

// HasStarted returns true if the event start time has passed
func (e *Event) HasStarted(now time.Time) bool {
	return !now.Before(e.StartTime)
}

// HasEnded returns true if the event end time has passed
func (e *Event) HasEnded(now time.Time) bool {
	return !now.Before(e.EndTime)
}

// IsManagedBy returns true if the coach owns the event or is its backup coach
func (e *Event) IsManagedBy(coachID int64) bool {
	if e.OwnerID == coachID {
		return true
	}
	return e.BackupCoachID != nil && *e.BackupCoachID == coachID
}

// HasLocation returns true if at least one of facility, salon or free-text location is set
func (e *Event) HasLocation() bool {
	return e.FacilityID != nil || e.SalonID != nil || (e.Location != nil && *e.Location != "")
}

// IsFree returns true if participants do not pay for the event
func (e *Event) IsFree() bool {
	return e.PricingType == PricingFree
}
