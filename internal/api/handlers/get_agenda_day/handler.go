package get_agenda_day

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/VEA-SchedulingService/internal/api/handlers"
	"github.com/m04kA/VEA-SchedulingService/internal/api/middleware"
	"github.com/m04kA/VEA-SchedulingService/internal/domain"
	"github.com/m04kA/VEA-SchedulingService/internal/service/appointments"
	"github.com/m04kA/VEA-SchedulingService/internal/service/appointments/models"
)

const (
	msgInvalidCompanyID  = "некорректный ID компании"
	msgInvalidEmployeeID = "некорректный ID сотрудника"
	msgMissingDate       = "дата обязательна"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
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

// Handle GET /api/v1/appointments/agenda-day
// Query params: companyId, employeeId, date (YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	query := r.URL.Query()

	companyID, err := strconv.ParseInt(query.Get("companyId"), 10, 64)
	if err != nil {
		h.logger.Warn("GET /appointments/agenda-day - Invalid company ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCompanyID)
		return
	}

	employeeID, err := strconv.ParseInt(query.Get("employeeId"), 10, 64)
	if err != nil {
		h.logger.Warn("GET /appointments/agenda-day - Invalid employee ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEmployeeID)
		return
	}

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /appointments/agenda-day - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /appointments/agenda-day - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.GetAgendaDay(r.Context(), &models.GetAgendaDayRequest{
		CompanyID:  companyID,
		EmployeeID: employeeID,
		Date:       date,
		Actor:      actor,
	})
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /appointments/agenda-day - Access denied: company_id=%d, user=%d", companyID, actor.UserID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, appointments.ErrEmployeeNotFound):
			h.logger.Warn("GET /appointments/agenda-day - Employee not found: employee_id=%d", employeeID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		default:
			h.logger.Error("GET /appointments/agenda-day - Failed to get agenda: employee_id=%d, error=%v", employeeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments/agenda-day - Agenda retrieved successfully: employee_id=%d, date=%s, entries=%d",
		employeeID, dateStr, len(result.Entries))
	handlers.RespondJSON(w, http.StatusOK, result)
}
