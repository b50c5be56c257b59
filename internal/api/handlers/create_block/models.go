package create_block

import (
	"time"

	"github.com/m04kA/VEA-SchedulingService/internal/domain"
	appointmentModels "github.com/m04kA/VEA-SchedulingService/internal/service/appointments/models"
	"github.com/m04kA/VEA-SchedulingService/internal/service/blocks/models"
	"github.com/m04kA/VEA-SchedulingService/pkg/types"
)

// CreateBlockRequest HTTP request model
type CreateBlockRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime   string `json:"endTime" validate:"required,datetime=15:04"`
	Reason    string `json:"reason" validate:"max=200"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
// companyID берется из идентификации менеджера
func (r *CreateBlockRequest) ToServiceRequest(companyID, employeeID int64, actor appointmentModels.Actor) (*models.CreateBlockRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &models.CreateBlockRequest{
		CompanyID:  companyID,
		EmployeeID: employeeID,
		Date:       date,
		StartTime:  startTime,
		EndTime:    endTime,
		Reason:     r.Reason,
		Actor:      actor,
	}, nil
}
