package delete_block

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/VEA-SchedulingService/internal/api/handlers"
	"github.com/m04kA/VEA-SchedulingService/internal/api/middleware"
	"github.com/m04kA/VEA-SchedulingService/internal/service/blocks"
	"github.com/m04kA/VEA-SchedulingService/internal/service/blocks/models"
)

const (
	msgInvalidBlockID   = "некорректный ID блокировки"
	msgBlockNotFound    = "блокировка не найдена"
	msgAccessDenied     = "доступно только менеджерам компании"
	msgEmployeeNotFound = "сотрудник не найден"
)

type Handler struct {
	service BlocksService
	logger  Logger
}

func NewHandler(service BlocksService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/blocks/{blockId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	vars := mux.Vars(r)

	blockID, err := strconv.ParseInt(vars["blockId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /blocks/{id} - Invalid block ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBlockID)
		return
	}

	var companyID int64
	if actor.CompanyID != nil {
		companyID = *actor.CompanyID
	}

	err = h.service.Delete(r.Context(), &models.DeleteBlockRequest{
		CompanyID: companyID,
		BlockID:   blockID,
		Actor:     actor,
	})
	if err != nil {
		switch {
		case errors.Is(err, blocks.ErrAccessDenied):
			h.logger.Warn("DELETE /blocks/{id} - Access denied: block_id=%d, user=%d", blockID, actor.UserID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, blocks.ErrBlockNotFound):
			h.logger.Warn("DELETE /blocks/{id} - Block not found: block_id=%d", blockID)
			handlers.RespondNotFound(w, msgBlockNotFound)

		case errors.Is(err, blocks.ErrEmployeeNotFound):
			h.logger.Warn("DELETE /blocks/{id} - Employee not found for block: block_id=%d", blockID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		default:
			h.logger.Error("DELETE /blocks/{id} - Failed to delete block: block_id=%d, error=%v", blockID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /blocks/{id} - Block deleted successfully: block_id=%d, user=%d", blockID, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
