package review_branch

import (
	"time"

	"github.com/m04kA/SMC-SportHub/internal/domain"
)

// Request модель запроса на рассмотрение сертификата
type Request struct {
	Actor    domain.Actor        // Кто рассматривает
	BranchID int64               // ID сертификата
	Decision domain.BranchStatus // approved или rejected
}

// Response результат рассмотрения
type Response struct {
	BranchID      int64
	CoachID       int64
	SportID       int64
	Status        string
	ReviewedAt    *time.Time
	Changed       bool // false, если решение совпало с уже принятым
	CoachVerified bool // тренер стал верифицированным в результате этого решения
}
