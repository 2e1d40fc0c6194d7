package create_event

import (
	"context"

	"github.com/m04kA/SMC-SportHub/internal/domain"
	"github.com/m04kA/SMC-SportHub/internal/service/events/models"
)

type EventService interface {
	Create(ctx context.Context, actor domain.Actor, req *models.CreateEventRequest) (*models.EventResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
