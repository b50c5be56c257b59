package cancel_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/VEA-SchedulingService/internal/api/handlers"
	"github.com/m04kA/VEA-SchedulingService/internal/api/middleware"
	"github.com/m04kA/VEA-SchedulingService/internal/service/appointments"
	"github.com/m04kA/VEA-SchedulingService/internal/service/appointments/models"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgAppointmentNotFound  = "запись не найдена"
	msgAccessDenied         = "нет прав на отмену этой записи"
	msgAlreadyCancelled     = "запись уже отменена"
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

// Handle PATCH /api/v1/appointments/{appointmentId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	vars := mux.Vars(r)

	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/cancel - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	result, err := h.service.Cancel(r.Context(), &models.CancelAppointmentRequest{
		AppointmentID: appointmentID,
		Actor:         actor,
	})
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Appointment not found: id=%d", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Access denied: id=%d, user=%d", appointmentID, actor.UserID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, appointments.ErrAlreadyCancelled):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Already cancelled: id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgAlreadyCancelled)

		default:
			h.logger.Error("PATCH /appointments/{id}/cancel - Failed to cancel: id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/cancel - Appointment cancelled successfully: id=%d, user=%d",
		appointmentID, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
