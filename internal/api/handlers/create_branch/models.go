package create_branch

import (
	"time"

	replaceBranches "github.com/m04kA/SMC-SportHub/internal/usecase/replace_branches"
)

// BranchResponse HTTP response model
type BranchResponse struct {
	ID          int64  `json:"id"`
	SportID     int64  `json:"sportId"`
	BranchOrder int    `json:"branchOrder"`
	Status      string `json:"status"`
	Certificate string `json:"certificate"`
	CreatedAt   string `json:"createdAt"`
}

// BranchesResponse новый набор сертификатов тренера
type BranchesResponse struct {
	CoachID    int64            `json:"coachId"`
	IsVerified bool             `json:"isVerified"`
	Branches   []BranchResponse `json:"branches"`
}

func fromUseCaseResponse(resp *replaceBranches.Response) *BranchesResponse {
	branches := make([]BranchResponse, 0, len(resp.Branches))
	for _, b := range resp.Branches {
		branches = append(branches, BranchResponse{
			ID:          b.ID,
			SportID:     b.SportID,
			BranchOrder: b.BranchOrder,
			Status:      b.Status,
			Certificate: b.Certificate,
			CreatedAt:   b.CreatedAt.Format(time.RFC3339),
		})
	}
	return &BranchesResponse{
		CoachID:    resp.CoachID,
		IsVerified: resp.IsVerified,
		Branches:   branches,
	}
}
