package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/VEA-SchedulingService/internal/api/handlers"
	"github.com/m04kA/VEA-SchedulingService/internal/api/middleware"
	getAvailableSlots "github.com/m04kA/VEA-SchedulingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidCompanyID      = "некорректный ID компании"
	msgInvalidEmployeeID     = "некорректный ID сотрудника"
	msgMissingServiceIDs     = "список услуг обязателен"
	msgInvalidServiceIDs     = "некорректный список услуг"
	msgMissingDate           = "дата обязательна"
	msgInvalidDate           = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgCompanyNotFound       = "компания не найдена"
	msgCompanyInactive       = "компания не принимает записи"
	msgEmployeeNotFound      = "сотрудник не найден"
	msgServiceNotFound       = "услуга не найдена или неактивна"
	msgHoursNotConfigured    = "график работы компании не настроен"
	msgInvalidOperatingHours = "график работы компании задан некорректно"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments/available-slots
// Query params: companyId, employeeId, serviceIds (CSV), date (YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	query := r.URL.Query()

	companyID, err := strconv.ParseInt(query.Get("companyId"), 10, 64)
	if err != nil {
		h.logger.Warn("GET /appointments/available-slots - Invalid company ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCompanyID)
		return
	}

	employeeID, err := strconv.ParseInt(query.Get("employeeId"), 10, 64)
	if err != nil {
		h.logger.Warn("GET /appointments/available-slots - Invalid employee ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEmployeeID)
		return
	}

	serviceIDsStr := query.Get("serviceIds")
	if serviceIDsStr == "" {
		h.logger.Warn("GET /appointments/available-slots - Missing service IDs")
		handlers.RespondBadRequest(w, msgMissingServiceIDs)
		return
	}

	serviceIDs, err := parseServiceIDs(serviceIDsStr)
	if err != nil {
		h.logger.Warn("GET /appointments/available-slots - Invalid service IDs: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceIDs)
		return
	}

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /appointments/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(actor.UserID, companyID, employeeID, serviceIDs, dateStr)
	if err != nil {
		h.logger.Warn("GET /appointments/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /appointments/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, getAvailableSlots.ErrCompanyNotFound):
			h.logger.Warn("GET /appointments/available-slots - Company not found: company_id=%d", companyID)
			handlers.RespondBadRequest(w, msgCompanyNotFound)

		case errors.Is(err, getAvailableSlots.ErrCompanyInactive):
			h.logger.Warn("GET /appointments/available-slots - Company inactive: company_id=%d", companyID)
			handlers.RespondBadRequest(w, msgCompanyInactive)

		case errors.Is(err, getAvailableSlots.ErrEmployeeNotFound):
			h.logger.Warn("GET /appointments/available-slots - Employee not found: employee_id=%d", employeeID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /appointments/available-slots - Service not found: company_id=%d", companyID)
			handlers.RespondBadRequest(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrHoursNotConfigured):
			h.logger.Warn("GET /appointments/available-slots - Hours not configured: company_id=%d", companyID)
			handlers.RespondBadRequest(w, msgHoursNotConfigured)

		case errors.Is(err, getAvailableSlots.ErrInvalidHours):
			h.logger.Warn("GET /appointments/available-slots - Malformed operating hours: company_id=%d", companyID)
			handlers.RespondBadRequest(w, msgInvalidOperatingHours)

		default:
			h.logger.Error("GET /appointments/available-slots - Failed to get slots: company_id=%d, employee_id=%d, error=%v",
				companyID, employeeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /appointments/available-slots - Slots retrieved successfully: company_id=%d, employee_id=%d, slots_count=%d",
		companyID, employeeID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
