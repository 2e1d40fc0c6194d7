package domain

import "time"

// Disposition is the initial state decided for a new reservation
type Disposition string

const (
	DispositionConfirmed  Disposition = "confirmed"
	DispositionCheckedIn  Disposition = "checked_in"
	DispositionWaitListed Disposition = "waitlisted"
	DispositionRejected   Disposition = "rejected"
)

// Reservation is a participant's reservation of an event
type Reservation struct {
	ID            int64
	ParticipantID int64
	EventID       int64

	IsApproved   bool
	IsCancelled  bool
	IsPaid       bool
	IsCheckedIn  bool
	IsWaitListed bool
	IsJoined     bool

	CheckInDeadline time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Disposition returns the reservation state as seen by the capacity allocator
func (r *Reservation) Disposition() Disposition {
	switch {
	case r.IsWaitListed:
		return DispositionWaitListed
	case r.IsCheckedIn:
		return DispositionCheckedIn
	default:
		return DispositionConfirmed
	}
}

// CanCheckIn returns true if the reservation is eligible for check-in
func (r *Reservation) CanCheckIn() bool {
	return r.IsPaid && !r.IsWaitListed && !r.IsCancelled
}

// ReservationFilter filters reservations of one event
// nil flags are not applied
type ReservationFilter struct {
	EventID      int64
	IsApproved   *bool
	IsCancelled  *bool
	IsPaid       *bool
	IsCheckedIn  *bool
	IsWaitListed *bool
	IsJoined     *bool
	Limit        int
	Offset       int
}
