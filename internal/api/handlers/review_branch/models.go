package review_branch

import (
	"time"

	reviewBranch "github.com/m04kA/SMC-SportHub/internal/usecase/review_branch"
)

// ReviewResponse HTTP response model
type ReviewResponse struct {
	BranchID      int64   `json:"branchId"`
	CoachID       int64   `json:"coachId"`
	SportID       int64   `json:"sportId"`
	Status        string  `json:"status"`
	ReviewedAt    *string `json:"reviewedAt,omitempty"`
	CoachVerified bool    `json:"coachVerified"`
}

func fromUseCaseResponse(resp *reviewBranch.Response) *ReviewResponse {
	out := &ReviewResponse{
		BranchID:      resp.BranchID,
		CoachID:       resp.CoachID,
		SportID:       resp.SportID,
		Status:        resp.Status,
		CoachVerified: resp.CoachVerified,
	}
	if resp.ReviewedAt != nil {
		formatted := resp.ReviewedAt.Format(time.RFC3339)
		out.ReviewedAt = &formatted
	}
	return out
}
