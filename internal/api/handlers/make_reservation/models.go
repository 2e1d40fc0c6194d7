package make_reservation

import (
	"time"

	"github.com/m04kA/SMC-SportHub/internal/domain"
	makeReservation "github.com/m04kA/SMC-SportHub/internal/usecase/make_reservation"
)

// MakeReservationRequest HTTP request model
type MakeReservationRequest struct {
	EventID int64 `json:"eventId"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID              int64  `json:"id"`
	ParticipantID   int64  `json:"participantId"`
	EventID         int64  `json:"eventId"`
	Disposition     string `json:"disposition"`
	IsApproved      bool   `json:"isApproved"`
	IsPaid          bool   `json:"isPaid"`
	IsCheckedIn     bool   `json:"isCheckedIn"`
	IsWaitListed    bool   `json:"isWaitListed"`
	CheckInDeadline string `json:"checkInDeadline"`
	CreatedAt       string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *MakeReservationRequest) ToUseCaseRequest(userID int64) *makeReservation.Request {
	return &makeReservation.Request{
		UserID:  userID,
		EventID: r.EventID,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *makeReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ID:              resp.ID,
		ParticipantID:   resp.ParticipantID,
		EventID:         resp.EventID,
		Disposition:     resp.Disposition,
		IsApproved:      resp.IsApproved,
		IsPaid:          resp.IsPaid,
		IsCheckedIn:     resp.IsCheckedIn,
		IsWaitListed:    resp.IsWaitListed,
		CheckInDeadline: resp.CheckInDeadline.Format(domain.DateTimeFormat),
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
