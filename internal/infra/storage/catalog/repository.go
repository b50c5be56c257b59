package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/VEA-SchedulingService/internal/domain"
	"github.com/m04kA/VEA-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/VEA-SchedulingService/pkg/psqlbuilder"
)

// Repository read-only репозиторий справочных данных:
// компании, сотрудники, услуги, клиенты
// Записи принадлежат management-сервису, здесь только чтение
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория справочных данных
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetCompany получает компанию по ID
func (r *Repository) GetCompany(ctx context.Context, id int64) (*domain.Company, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"COALESCE(operating_hours, '')",
		"is_active",
	).
		From("companies").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetCompany - build select query: %w", ErrBuildQuery, err)
	}

	var company domain.Company
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&company.ID,
		&company.Name,
		&company.OperatingHours,
		&company.IsActive,
	)

	if err == sql.ErrNoRows {
		return nil, ErrCompanyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetCompany - scan company: %w", ErrScanRow, err)
	}

	return &company, nil
}

// GetEmployee получает сотрудника по ID
func (r *Repository) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"company_id",
		"name",
		"is_active",
		"email_verified",
	).
		From("employees").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetEmployee - build select query: %w", ErrBuildQuery, err)
	}

	var employee domain.Employee
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&employee.ID,
		&employee.CompanyID,
		&employee.Name,
		&employee.IsActive,
		&employee.EmailVerified,
	)

	if err == sql.ErrNoRows {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetEmployee - scan employee: %w", ErrScanRow, err)
	}

	return &employee, nil
}

// GetActiveServices получает активные услуги компании по списку ID
// Возвращает только найденные: вызывающая сторона сравнивает количество
// с количеством запрошенных ID (молчаливых пропусков быть не должно)
func (r *Repository) GetActiveServices(ctx context.Context, companyID int64, serviceIDs []int64) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"company_id",
		"name",
		"duration_minutes",
		"price",
		"active",
	).
		From("services").
		Where(squirrel.Eq{
			"id":         serviceIDs,
			"company_id": companyID,
			"active":     true,
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveServices - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveServices - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanServices(rows)
}

// GetServicesByIDs получает услуги по списку ID без фильтра активности
// Используется для отображения истории: снимок записи ссылается на услуги,
// которые могли быть деактивированы позже
func (r *Repository) GetServicesByIDs(ctx context.Context, serviceIDs []int64) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"company_id",
		"name",
		"duration_minutes",
		"price",
		"active",
	).
		From("services").
		Where(squirrel.Eq{"id": serviceIDs}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanServices(rows)
}

// GetClientName получает имя клиента по ID
// Для гостевых записей (clientID = nil) не вызывается
func (r *Repository) GetClientName(ctx context.Context, id int64) (string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("name").
		From("clients").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return "", fmt.Errorf("%w: GetClientName - build select query: %w", ErrBuildQuery, err)
	}

	var name string
	err = executor.QueryRowContext(ctx, query, args...).Scan(&name)

	if err == sql.ErrNoRows {
		return "", ErrClientNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: GetClientName - scan client: %w", ErrScanRow, err)
	}

	return name, nil
}

// scanServices сканирует результаты запроса в слайс услуг
func (r *Repository) scanServices(rows *sql.Rows) ([]*domain.Service, error) {
	services := make([]*domain.Service, 0)

	for rows.Next() {
		var service domain.Service

		err := rows.Scan(
			&service.ID,
			&service.CompanyID,
			&service.Name,
			&service.DurationMinutes,
			&service.Price,
			&service.Active,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanServices - scan row: %w", ErrScanRow, err)
		}

		services = append(services, &service)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanServices - rows error: %w", ErrScanRow, err)
	}

	return services, nil
}
