package get_event_participants

import (
	"context"

	"github.com/m04kA/SMC-SportHub/internal/domain"
	"github.com/m04kA/SMC-SportHub/internal/service/reservations/models"
)

type ReservationService interface {
	ListEventParticipants(ctx context.Context, actor domain.Actor, req *models.ListParticipantsRequest) (*models.ParticipantsPageResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
