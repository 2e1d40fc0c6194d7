package check_in

import (
	"time"

	checkIn "github.com/m04kA/SMC-SportHub/internal/usecase/check_in"
)

// CheckInRequest HTTP request model
type CheckInRequest struct {
	EventID int64 `json:"eventId"`
}

// CheckInResponse HTTP response model
type CheckInResponse struct {
	ID             int64  `json:"id"`
	ParticipantID  int64  `json:"participantId"`
	EventID        int64  `json:"eventId"`
	IsCheckedIn    bool   `json:"isCheckedIn"`
	AlreadyChecked bool   `json:"alreadyChecked"`
	UpdatedAt      string `json:"updatedAt"`
}

func fromUseCaseResponse(resp *checkIn.Response) *CheckInResponse {
	return &CheckInResponse{
		ID:             resp.ID,
		ParticipantID:  resp.ParticipantID,
		EventID:        resp.EventID,
		IsCheckedIn:    resp.IsCheckedIn,
		AlreadyChecked: resp.AlreadyChecked,
		UpdatedAt:      resp.UpdatedAt.Format(time.RFC3339),
	}
}
