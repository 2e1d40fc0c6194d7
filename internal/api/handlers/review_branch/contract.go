package review_branch

import (
	"context"

	reviewBranch "github.com/m04kA/SMC-SportHub/internal/usecase/review_branch"
)

type ReviewBranchUseCase interface {
	Execute(ctx context.Context, req *reviewBranch.Request) (*reviewBranch.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
