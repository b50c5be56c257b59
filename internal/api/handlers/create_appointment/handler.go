package create_appointment

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/VEA-SchedulingService/internal/api/handlers"
	"github.com/m04kA/VEA-SchedulingService/internal/api/middleware"
	"github.com/m04kA/VEA-SchedulingService/internal/service/appointments/models"
	createAppointment "github.com/m04kA/VEA-SchedulingService/internal/usecase/create_appointment"
)

const (
	msgInvalidBody           = "некорректное тело запроса"
	msgValidationFailed      = "запрос не прошел валидацию"
	msgCompanyNotFound       = "компания не найдена"
	msgCompanyInactive       = "компания не принимает записи"
	msgEmployeeNotFound      = "сотрудник не найден"
	msgServiceNotFound       = "услуга не найдена или неактивна"
	msgHoursNotConfigured    = "график работы компании не настроен"
	msgInvalidOperatingHours = "график работы компании задан некорректно"
	msgOutsideHours          = "запись не помещается в график работы"
	msgSlotNotAvailable      = "выбранное время уже занято"
)

type Handler struct {
	useCase  CreateAppointmentUseCase
	validate *validator.Validate
	logger   Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		validate: validator.New(),
		logger:   logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		h.logger.Warn("POST /appointments - Validation failed: %v", err)
		handlers.RespondBadRequest(w, msgValidationFailed)
		return
	}

	// Клиент записывает себя; менеджер создает запись без клиента
	// (посетитель без аккаунта)
	var clientID *int64
	if actor.Role == models.RoleClient {
		clientID = &actor.UserID
	}

	useCaseReq, err := req.ToUseCaseRequest(clientID)
	if err != nil {
		h.logger.Warn("POST /appointments - Invalid date or time: %v", err)
		handlers.RespondBadRequest(w, msgValidationFailed)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createAppointment.ErrCompanyNotFound):
			h.logger.Warn("POST /appointments - Company not found: company_id=%d", req.CompanyID)
			handlers.RespondBadRequest(w, msgCompanyNotFound)

		case errors.Is(err, createAppointment.ErrCompanyInactive):
			h.logger.Warn("POST /appointments - Company inactive: company_id=%d", req.CompanyID)
			handlers.RespondBadRequest(w, msgCompanyInactive)

		case errors.Is(err, createAppointment.ErrEmployeeNotFound):
			h.logger.Warn("POST /appointments - Employee not found: employee_id=%d", req.EmployeeID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: company_id=%d", req.CompanyID)
			handlers.RespondBadRequest(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrHoursNotConfigured):
			h.logger.Warn("POST /appointments - Hours not configured: company_id=%d", req.CompanyID)
			handlers.RespondBadRequest(w, msgHoursNotConfigured)

		case errors.Is(err, createAppointment.ErrInvalidHours):
			h.logger.Warn("POST /appointments - Malformed operating hours: company_id=%d", req.CompanyID)
			handlers.RespondBadRequest(w, msgInvalidOperatingHours)

		case errors.Is(err, createAppointment.ErrOutsideOperatingHours):
			h.logger.Warn("POST /appointments - Outside operating hours: company_id=%d, time=%s",
				req.CompanyID, req.StartTime)
			handlers.RespondBadRequest(w, msgOutsideHours)

		case errors.Is(err, createAppointment.ErrSlotNotAvailable):
			h.logger.Warn("POST /appointments - Slot not available: employee_id=%d, date=%s, time=%s",
				req.EmployeeID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: company_id=%d, employee_id=%d, error=%v",
				req.CompanyID, req.EmployeeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Appointment created successfully: id=%d, employee_id=%d, date=%s, time=%s",
		result.ID, result.EmployeeID, req.Date, req.StartTime)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
