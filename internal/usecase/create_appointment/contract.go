package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/VEA-SchedulingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// Create создает запись со снимком выбранных услуг
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	// ListByEmployeeAndDate получает записи сотрудника на конкретную дату
	// Внутри транзакции строки блокируются (FOR UPDATE)
	ListByEmployeeAndDate(ctx context.Context, filter domain.EmployeeDayFilter) ([]*domain.Appointment, error)
}

// BlockRepository интерфейс репозитория блокировок времени
type BlockRepository interface {
	ListByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) ([]*domain.EmployeeBlock, error)
}

// CatalogRepository интерфейс репозитория справочных данных
type CatalogRepository interface {
	GetCompany(ctx context.Context, companyID int64) (*domain.Company, error)
	GetEmployee(ctx context.Context, employeeID int64) (*domain.Employee, error)
	GetActiveServices(ctx context.Context, companyID int64, serviceIDs []int64) ([]*domain.Service, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
