package join_club

import (
	"context"

	"github.com/m04kA/SMC-SportHub/internal/domain"
	"github.com/m04kA/SMC-SportHub/internal/service/clubs/models"
)

type ClubService interface {
	RequestJoinClub(ctx context.Context, actor domain.Actor, clubID int64) (*models.JoinRequestResponse, error)
	RequestJoinGroup(ctx context.Context, actor domain.Actor, groupID int64) (*models.JoinRequestResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
