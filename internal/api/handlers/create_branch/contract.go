package create_branch

import (
	"context"

	replaceBranches "github.com/m04kA/SMC-SportHub/internal/usecase/replace_branches"
)

type ReplaceBranchesUseCase interface {
	Execute(ctx context.Context, req *replaceBranches.Request) (*replaceBranches.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
