package get_employee_agenda

import (
	"context"

	"github.com/m04kA/VEA-SchedulingService/internal/service/appointments/models"
)

type AppointmentsService interface {
	GetEmployeeAgenda(ctx context.Context, req *models.GetEmployeeAgendaRequest) (*models.EmployeeAgendaResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
