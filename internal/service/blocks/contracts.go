package blocks

import (
	"context"
	"time"

	"github.com/m04kA/VEA-SchedulingService/internal/domain"
)

// BlockRepository интерфейс репозитория блокировок времени
type BlockRepository interface {
	Create(ctx context.Context, blk *domain.EmployeeBlock) (*domain.EmployeeBlock, error)
	GetByID(ctx context.Context, id int64) (*domain.EmployeeBlock, error)
	ListByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) ([]*domain.EmployeeBlock, error)
	Delete(ctx context.Context, id int64) error
}

// CatalogRepository интерфейс репозитория справочных данных
type CatalogRepository interface {
	GetEmployee(ctx context.Context, employeeID int64) (*domain.Employee, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
