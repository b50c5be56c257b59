package cancel_appointment

import (
	"context"

	"github.com/m04kA/VEA-SchedulingService/internal/service/appointments/models"
)

type AppointmentsService interface {
	Cancel(ctx context.Context, req *models.CancelAppointmentRequest) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
