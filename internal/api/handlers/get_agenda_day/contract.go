package get_agenda_day

import (
	"context"

	"github.com/m04kA/VEA-SchedulingService/internal/service/appointments/models"
)

type AppointmentsService interface {
	GetAgendaDay(ctx context.Context, req *models.GetAgendaDayRequest) (*models.AgendaDayResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
