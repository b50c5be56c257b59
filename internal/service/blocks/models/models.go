package models

import (
	"time"

	"github.com/m04kA/VEA-SchedulingService/internal/domain"
	appointmentModels "github.com/m04kA/VEA-SchedulingService/internal/service/appointments/models"
	"github.com/m04kA/VEA-SchedulingService/pkg/types"
)

// CreateBlockRequest запрос на создание блокировки времени
type CreateBlockRequest struct {
	CompanyID  int64
	EmployeeID int64
	Date       time.Time
	StartTime  types.TimeString
	EndTime    types.TimeString
	Reason     string
	Actor      appointmentModels.Actor
}

// DeleteBlockRequest запрос на удаление блокировки времени
type DeleteBlockRequest struct {
	CompanyID int64
	BlockID   int64
	Actor     appointmentModels.Actor
}

// BlockResponse ответ с данными блокировки
type BlockResponse struct {
	ID         int64  `json:"id"`
	EmployeeID int64  `json:"employeeId"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Reason     string `json:"reason,omitempty"`
}

// FromDomainBlock конвертирует domain модель в DTO
func FromDomainBlock(b *domain.EmployeeBlock) *BlockResponse {
	if b == nil {
		return nil
	}

	return &BlockResponse{
		ID:         b.ID,
		EmployeeID: b.EmployeeID,
		Date:       b.BlockDate.Format(domain.DateFormat),
		StartTime:  b.StartTime.String(),
		EndTime:    b.EndTime.String(),
		Reason:     b.Reason,
	}
}
