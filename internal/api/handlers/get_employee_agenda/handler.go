package get_employee_agenda

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/VEA-SchedulingService/internal/api/handlers"
	"github.com/m04kA/VEA-SchedulingService/internal/api/middleware"
	"github.com/m04kA/VEA-SchedulingService/internal/service/appointments"
	"github.com/m04kA/VEA-SchedulingService/internal/service/appointments/models"
)

const (
	msgInvalidCompanyID  = "некорректный ID компании"
	msgInvalidEmployeeID = "некорректный ID сотрудника"
	msgInvalidPeriod     = "некорректный период, ожидается today, week или month"
	msgEmployeeNotFound  = "сотрудник не найден"
	msgAccessDenied      = "доступно только менеджерам компании"
)

type Handler struct {
	service AppointmentsService
	logger  Logger
}

func NewHandler(service AppointmentsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments/employee/agenda
// Query params: companyId, employeeId, period (today|week|month, по умолчанию today)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	query := r.URL.Query()

	companyID, err := strconv.ParseInt(query.Get("companyId"), 10, 64)
	if err != nil {
		h.logger.Warn("GET /appointments/employee/agenda - Invalid company ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCompanyID)
		return
	}

	employeeID, err := strconv.ParseInt(query.Get("employeeId"), 10, 64)
	if err != nil {
		h.logger.Warn("GET /appointments/employee/agenda - Invalid employee ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEmployeeID)
		return
	}

	period := query.Get("period")
	if period == "" {
		period = models.PeriodToday
	}

	result, err := h.service.GetEmployeeAgenda(r.Context(), &models.GetEmployeeAgendaRequest{
		CompanyID:  companyID,
		EmployeeID: employeeID,
		Period:     period,
		Actor:      actor,
	})
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /appointments/employee/agenda - Invalid period: %q", period)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /appointments/employee/agenda - Access denied: company_id=%d, user=%d", companyID, actor.UserID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, appointments.ErrEmployeeNotFound):
			h.logger.Warn("GET /appointments/employee/agenda - Employee not found: employee_id=%d", employeeID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		default:
			h.logger.Error("GET /appointments/employee/agenda - Failed to get agenda: employee_id=%d, error=%v", employeeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments/employee/agenda - Agenda retrieved successfully: employee_id=%d, period=%s, appointments=%d",
		employeeID, period, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
