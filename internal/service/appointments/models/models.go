package models

import (
	"errors"
	"time"

	"github.com/m04kA/VEA-SchedulingService/internal/domain"
	"github.com/m04kA/VEA-SchedulingService/pkg/types"
)

var (
	// ErrInvalidPeriod возвращается при некорректном периоде расписания
	ErrInvalidPeriod = errors.New("invalid agenda period")
)

// Роли пользователей, прокидываемые API Gateway
const (
	RoleClient  = "client"
	RoleManager = "manager"
)

// Периоды расписания сотрудника
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// Actor идентификация пользователя, выполняющего операцию
type Actor struct {
	UserID    int64
	Role      string
	CompanyID *int64 // ID компании (только для менеджеров)
}

// IsManagerOf проверяет, что пользователь - менеджер указанной компании
func (a Actor) IsManagerOf(companyID int64) bool {
	return a.Role == RoleManager && a.CompanyID != nil && *a.CompanyID == companyID
}

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	AppointmentID int64
	Actor         Actor
}

// GetAgendaDayRequest запрос расписания сотрудника на день
type GetAgendaDayRequest struct {
	CompanyID  int64
	EmployeeID int64
	Date       time.Time
	Actor      Actor
}

// GetClientAppointmentsRequest запрос записей клиента
type GetClientAppointmentsRequest struct {
	ClientID  int64
	CompanyID *int64 // Опциональный фильтр по компании
	Actor     Actor
}

// GetEmployeeAgendaRequest запрос расписания сотрудника за период
type GetEmployeeAgendaRequest struct {
	CompanyID  int64
	EmployeeID int64
	Period     string // today, week, month
	Actor      Actor
}

// ValidatePeriod проверяет период расписания
func ValidatePeriod(period string) error {
	switch period {
	case PeriodToday, PeriodWeek, PeriodMonth:
		return nil
	default:
		return ErrInvalidPeriod
	}
}

// Response модели

// ServiceInfo данные услуги в составе записи
type ServiceInfo struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
}

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64         `json:"id"`
	CompanyID       int64         `json:"companyId"`
	EmployeeID      int64         `json:"employeeId"`
	ClientID        *int64        `json:"clientId,omitempty"`
	ClientName      *string       `json:"clientName,omitempty"`
	Date            string        `json:"date"`      // "2025-12-20"
	StartTime       string        `json:"startTime"` // "10:00"
	EndTime         string        `json:"endTime"`   // "11:00"
	DurationMinutes int           `json:"durationMinutes"`
	Status          string        `json:"status"`
	Services        []ServiceInfo `json:"services"`
	CancelledAt     *string       `json:"cancelledAt,omitempty"` // ISO 8601
	CreatedAt       time.Time     `json:"createdAt"`
}

// BlockResponse ответ с данными блокировки времени
type BlockResponse struct {
	ID         int64  `json:"id"`
	EmployeeID int64  `json:"employeeId"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Reason     string `json:"reason,omitempty"`
}

// Типы элементов расписания
const (
	EntryAppointment = "appointment"
	EntryBlock       = "block"
)

// AgendaEntry элемент расписания: запись или блокировка
type AgendaEntry struct {
	Type        string               `json:"type"` // appointment | block
	StartTime   string               `json:"startTime"`
	EndTime     string               `json:"endTime"`
	Appointment *AppointmentResponse `json:"appointment,omitempty"`
	Block       *BlockResponse       `json:"block,omitempty"`
}

// AgendaDayResponse расписание сотрудника на день
type AgendaDayResponse struct {
	EmployeeID int64         `json:"employeeId"`
	Date       string        `json:"date"`
	Entries    []AgendaEntry `json:"entries"`
}

// EmployeeAgendaResponse расписание сотрудника за период
type EmployeeAgendaResponse struct {
	EmployeeID   int64                 `json:"employeeId"`
	Period       string                `json:"period"`
	StartDate    string                `json:"startDate"`
	EndDate      string                `json:"endDate"`
	Appointments []AppointmentResponse `json:"appointments"`
	Blocks       []BlockResponse       `json:"blocks"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
// services - разрезолвленный снимок услуг записи, clientName - имя клиента (опционально)
func FromDomainAppointment(a *domain.Appointment, services []ServiceInfo, clientName *string) *AppointmentResponse {
	if a == nil {
		return nil
	}

	end := a.End()

	resp := &AppointmentResponse{
		ID:              a.ID,
		CompanyID:       a.CompanyID,
		EmployeeID:      a.EmployeeID,
		ClientID:        a.ClientID,
		ClientName:      clientName,
		Date:            a.StartDateTime.Format(domain.DateFormat),
		StartTime:       types.NewTimeString(a.StartDateTime).String(),
		EndTime:         types.NewTimeString(end).String(),
		DurationMinutes: a.TotalDurationMinutes,
		Status:          string(a.Status),
		Services:        services,
		CreatedAt:       a.CreatedAt,
	}

	if a.CancelledAt != nil {
		cancelledAt := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}

	return resp
}

// FromDomainBlock конвертирует domain модель блокировки в DTO
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

// ServiceInfosFromDomain конвертирует услуги в DTO, сохраняя порядок снимка
func ServiceInfosFromDomain(serviceIDs []int64, services []*domain.Service) []ServiceInfo {
	byID := make(map[int64]*domain.Service, len(services))
	for _, svc := range services {
		byID[svc.ID] = svc
	}

	result := make([]ServiceInfo, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		svc, ok := byID[id]
		if !ok {
			// Услуга удалена из каталога - показываем только ID
			result = append(result, ServiceInfo{ID: id})
			continue
		}
		result = append(result, ServiceInfo{
			ID:              svc.ID,
			Name:            svc.Name,
			DurationMinutes: svc.DurationMinutes,
			Price:           svc.Price,
		})
	}

	return result
}
