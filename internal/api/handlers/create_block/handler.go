package create_block

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/m04kA/VEA-SchedulingService/internal/api/handlers"
	"github.com/m04kA/VEA-SchedulingService/internal/api/middleware"
	"github.com/m04kA/VEA-SchedulingService/internal/service/blocks"
)

const (
	msgInvalidEmployeeID = "некорректный ID сотрудника"
	msgInvalidBody       = "некорректное тело запроса"
	msgValidationFailed  = "запрос не прошел валидацию"
	msgAccessDenied      = "доступно только менеджерам компании"
	msgEmployeeNotFound  = "сотрудник не найден"
)

type Handler struct {
	service  BlocksService
	validate *validator.Validate
	logger   Logger
}

func NewHandler(service BlocksService, logger Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// Handle POST /api/v1/employees/{employeeId}/blocks
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	vars := mux.Vars(r)

	employeeID, err := strconv.ParseInt(vars["employeeId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /employees/{id}/blocks - Invalid employee ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEmployeeID)
		return
	}

	var req CreateBlockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /employees/{id}/blocks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		h.logger.Warn("POST /employees/{id}/blocks - Validation failed: %v", err)
		handlers.RespondBadRequest(w, msgValidationFailed)
		return
	}

	// Компания менеджера из идентификации; не-менеджеров отсечет сервис
	var companyID int64
	if actor.CompanyID != nil {
		companyID = *actor.CompanyID
	}

	serviceReq, err := req.ToServiceRequest(companyID, employeeID, actor)
	if err != nil {
		h.logger.Warn("POST /employees/{id}/blocks - Invalid date or time: %v", err)
		handlers.RespondBadRequest(w, msgValidationFailed)
		return
	}

	result, err := h.service.Create(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, blocks.ErrAccessDenied):
			h.logger.Warn("POST /employees/{id}/blocks - Access denied: employee_id=%d, user=%d", employeeID, actor.UserID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, blocks.ErrInvalidInput):
			h.logger.Warn("POST /employees/{id}/blocks - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, blocks.ErrEmployeeNotFound):
			h.logger.Warn("POST /employees/{id}/blocks - Employee not found: employee_id=%d", employeeID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		default:
			h.logger.Error("POST /employees/{id}/blocks - Failed to create block: employee_id=%d, error=%v", employeeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /employees/{id}/blocks - Block created successfully: id=%d, employee_id=%d", result.ID, employeeID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
