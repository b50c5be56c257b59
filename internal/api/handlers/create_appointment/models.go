package create_appointment

import (
	"time"

	"github.com/m04kA/VEA-SchedulingService/internal/domain"
	createAppointment "github.com/m04kA/VEA-SchedulingService/internal/usecase/create_appointment"
	"github.com/m04kA/VEA-SchedulingService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	CompanyID  int64   `json:"companyId" validate:"required,gt=0"`
	EmployeeID int64   `json:"employeeId" validate:"required,gt=0"`
	ServiceIDs []int64 `json:"serviceIds" validate:"required,min=1,max=10,dive,gt=0"`
	Date       string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime  string  `json:"startTime" validate:"required,datetime=15:04"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID                   int64   `json:"id"`
	CompanyID            int64   `json:"companyId"`
	EmployeeID           int64   `json:"employeeId"`
	ClientID             *int64  `json:"clientId,omitempty"`
	Date                 string  `json:"date"`
	StartTime            string  `json:"startTime"`
	EndTime              string  `json:"endTime"`
	TotalDurationMinutes int     `json:"totalDurationMinutes"`
	Status               string  `json:"status"`
	ServiceIDs           []int64 `json:"serviceIds"`
	CreatedAt            string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// clientID - идентификация из контекста запроса, nil для менеджеров
func (r *CreateAppointmentRequest) ToUseCaseRequest(clientID *int64) (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		ClientID:   clientID,
		CompanyID:  r.CompanyID,
		EmployeeID: r.EmployeeID,
		ServiceIDs: r.ServiceIDs,
		Date:       date,
		StartTime:  startTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:                   resp.ID,
		CompanyID:            resp.CompanyID,
		EmployeeID:           resp.EmployeeID,
		ClientID:             resp.ClientID,
		Date:                 resp.Date.Format(domain.DateFormat),
		StartTime:            resp.StartTime.String(),
		EndTime:              resp.EndTime.String(),
		TotalDurationMinutes: resp.TotalDurationMinutes,
		Status:               resp.Status,
		ServiceIDs:           resp.ServiceIDs,
		CreatedAt:            resp.CreatedAt.Format(time.RFC3339),
	}
}
