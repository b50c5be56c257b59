package get_client_appointments

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
	msgInvalidCompanyID = "некорректный ID компании"
	msgAccessDenied     = "нет прав на просмотр этих записей"
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

// Handle GET /api/v1/appointments/my
// Query params: companyId (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	var companyID *int64
	if companyIDStr := r.URL.Query().Get("companyId"); companyIDStr != "" {
		id, err := strconv.ParseInt(companyIDStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /appointments/my - Invalid company ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidCompanyID)
			return
		}
		companyID = &id
	}

	result, err := h.service.GetClientAppointments(r.Context(), &models.GetClientAppointmentsRequest{
		ClientID:  actor.UserID,
		CompanyID: companyID,
		Actor:     actor,
	})
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /appointments/my - Access denied: user=%d", actor.UserID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("GET /appointments/my - Failed to get appointments: user=%d, error=%v", actor.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments/my - Appointments retrieved successfully: user=%d, count=%d",
		actor.UserID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
