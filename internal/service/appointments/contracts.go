package appointments

import (
	"context"
	"time"

	"github.com/m04kA/VEA-SchedulingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	ListByEmployeeAndDate(ctx context.Context, filter domain.EmployeeDayFilter) ([]*domain.Appointment, error)
	ListByEmployeeRange(ctx context.Context, filter domain.EmployeeRangeFilter) ([]*domain.Appointment, error)
	ListByClient(ctx context.Context, clientID int64, companyID *int64) ([]*domain.Appointment, error)
	Cancel(ctx context.Context, id int64) error
}

// BlockRepository интерфейс репозитория блокировок времени
type BlockRepository interface {
	ListByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) ([]*domain.EmployeeBlock, error)
	ListByEmployeeRange(ctx context.Context, employeeID int64, startDate, endDate time.Time) ([]*domain.EmployeeBlock, error)
}

// CatalogRepository интерфейс репозитория справочных данных
type CatalogRepository interface {
	GetEmployee(ctx context.Context, employeeID int64) (*domain.Employee, error)
	// GetServicesByIDs получает услуги без фильтра активности -
	// история записей показывает и отключённые услуги
	GetServicesByIDs(ctx context.Context, serviceIDs []int64) ([]*domain.Service, error)
	GetClientName(ctx context.Context, clientID int64) (string, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
