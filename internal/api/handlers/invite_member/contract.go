package invite_member

import (
	"context"

	"github.com/m04kA/SMC-SportHub/internal/domain"
	"github.com/m04kA/SMC-SportHub/internal/service/clubs/models"
)

type ClubService interface {
	Invite(ctx context.Context, actor domain.Actor, clubID int64, req *models.InviteRequest) (*models.InviteResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
