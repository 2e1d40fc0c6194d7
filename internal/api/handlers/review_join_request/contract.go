package review_join_request

import (
	"context"

	"github.com/m04kA/SMC-SportHub/internal/domain"
	"github.com/m04kA/SMC-SportHub/internal/service/clubs/models"
)

type ClubService interface {
	ReviewJoinRequest(ctx context.Context, actor domain.Actor, requestID int64, decision domain.JoinRequestStatus) (*models.JoinRequestResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
