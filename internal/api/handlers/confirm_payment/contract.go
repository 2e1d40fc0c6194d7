package confirm_payment

import (
	"context"

	"github.com/m04kA/SMC-SportHub/internal/domain"
	"github.com/m04kA/SMC-SportHub/internal/service/reservations/models"
)

type ReservationService interface {
	ConfirmPayment(ctx context.Context, actor domain.Actor, reservationID int64) (*models.ReservationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
