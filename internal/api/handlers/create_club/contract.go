package create_club

import (
	"context"

	"github.com/m04kA/SMC-SportHub/internal/domain"
	"github.com/m04kA/SMC-SportHub/internal/service/clubs/models"
)

type ClubService interface {
	CreateClub(ctx context.Context, actor domain.Actor, req *models.CreateClubRequest) (*models.ClubResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
