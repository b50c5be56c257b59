package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/VEA-SchedulingService/internal/domain"
	"github.com/m04kA/VEA-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/VEA-SchedulingService/pkg/psqlbuilder"
)

// exclusionViolation код ошибки PostgreSQL при нарушении exclusion constraint
// (appointments_no_overlap по (employee_id, интервал записи))
const exclusionViolation = "23P01"

var appointmentColumns = []string{
	"id",
	"company_id",
	"employee_id",
	"client_id",
	"start_datetime",
	"end_datetime",
	"status",
	"total_duration_minutes",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями на услуги
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись вместе со снимком выбранных услуг
// Вызывается только внутри сериализуемой транзакции usecase создания записи:
// вставка в appointments и appointment_services разделяет один executor
//
// Нарушение exclusion constraint по (employee_id, интервал) транслируется
// в ErrSlotTaken - конкурентная запись успела занять слот первой
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"company_id",
			"employee_id",
			"client_id",
			"start_datetime",
			"end_datetime",
			"status",
			"total_duration_minutes",
		).
		Values(
			appt.CompanyID,
			appt.EmployeeID,
			appt.ClientID,
			appt.StartDateTime,
			appt.EndDateTime,
			appt.Status,
			appt.TotalDurationMinutes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isExclusionViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	// Снимок услуг: порядок выбора сохраняется через position
	if len(appt.ServiceIDs) > 0 {
		insert := psqlbuilder.Insert("appointment_services").
			Columns("appointment_id", "service_id", "position")

		for i, serviceID := range appt.ServiceIDs {
			insert = insert.Values(appt.ID, serviceID, i)
		}

		query, args, err := insert.ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: Create - build services insert: %w", ErrBuildQuery, err)
		}

		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("%w: Create - insert services: %w", ErrExecQuery, err)
		}
	}

	return appt, nil
}

// GetByID получает запись по ID вместе со снимком услуг
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %w", ErrScanRow, err)
	}

	if err := r.attachServiceIDs(ctx, executor, []*domain.Appointment{appt}); err != nil {
		return nil, err
	}

	return appt, nil
}

// ListByEmployeeAndDate получает записи сотрудника на конкретную дату,
// отсортированные по времени начала
//
// Внутри транзакции добавляет FOR UPDATE: usecase создания записи блокирует
// строки дня сотрудника на время проверки доступности слота
// ServiceIDs у результата не заполняются - для расчёта занятости они не нужны
// (FOR UPDATE несовместим с агрегирующим join по услугам)
func (r *Repository) ListByEmployeeAndDate(ctx context.Context, filter domain.EmployeeDayFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	dayStart := time.Date(filter.Date.Year(), filter.Date.Month(), filter.Date.Day(), 0, 0, 0, 0, filter.Date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{
			"company_id":  filter.CompanyID,
			"employee_id": filter.EmployeeID,
		}).
		Where(squirrel.GtOrEq{"start_datetime": dayStart}).
		Where(squirrel.Lt{"start_datetime": dayEnd}).
		OrderBy("start_datetime ASC")

	if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.StatusCancelled})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByEmployeeAndDate - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByEmployeeAndDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ListByEmployeeRange получает активные записи сотрудника за период [start, end],
// отсортированные по времени начала, со снимком услуг
func (r *Repository) ListByEmployeeRange(ctx context.Context, filter domain.EmployeeRangeFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	dayStart := time.Date(filter.StartDate.Year(), filter.StartDate.Month(), filter.StartDate.Day(), 0, 0, 0, 0, filter.StartDate.Location())
	dayEnd := time.Date(filter.EndDate.Year(), filter.EndDate.Month(), filter.EndDate.Day(), 0, 0, 0, 0, filter.EndDate.Location()).AddDate(0, 0, 1)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"employee_id": filter.EmployeeID}).
		Where(squirrel.GtOrEq{"start_datetime": dayStart}).
		Where(squirrel.Lt{"start_datetime": dayEnd}).
		OrderBy("start_datetime ASC")

	if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.StatusCancelled})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByEmployeeRange - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByEmployeeRange - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments, err := scanAppointments(rows)
	if err != nil {
		return nil, err
	}

	if err := r.attachServiceIDs(ctx, executor, appointments); err != nil {
		return nil, err
	}

	return appointments, nil
}

// ListByClient получает активные записи клиента (сначала новые) со снимком услуг
// Опционально фильтрует по компании
func (r *Repository) ListByClient(ctx context.Context, clientID int64, companyID *int64) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"client_id": clientID}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		OrderBy("start_datetime DESC")

	if companyID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"company_id": *companyID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByClient - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByClient - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments, err := scanAppointments(rows)
	if err != nil {
		return nil, err
	}

	if err := r.attachServiceIDs(ctx, executor, appointments); err != nil {
		return nil, err
	}

	return appointments, nil
}

// Cancel переводит запись в статус Cancelled
// Переход одноразовый: повторная отмена возвращает ErrAlreadyCancelled
func (r *Repository) Cancel(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCancelled).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		// Либо записи нет, либо она уже отменена - различаем отдельным чтением
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyCancelled
	}

	return nil
}

// attachServiceIDs дозагружает снимок услуг для набора записей
func (r *Repository) attachServiceIDs(ctx context.Context, executor DBExecutor, appointments []*domain.Appointment) error {
	if len(appointments) == 0 {
		return nil
	}

	ids := make([]int64, len(appointments))
	byID := make(map[int64]*domain.Appointment, len(appointments))
	for i, appt := range appointments {
		ids[i] = appt.ID
		byID[appt.ID] = appt
		appt.ServiceIDs = nil
	}

	query, args, err := psqlbuilder.Select("appointment_id", "service_id").
		From("appointment_services").
		Where(squirrel.Eq{"appointment_id": ids}).
		OrderBy("appointment_id ASC", "position ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: attachServiceIDs - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachServiceIDs - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var appointmentID, serviceID int64
		if err := rows.Scan(&appointmentID, &serviceID); err != nil {
			return fmt.Errorf("%w: attachServiceIDs - scan row: %w", ErrScanRow, err)
		}
		if appt, ok := byID[appointmentID]; ok {
			appt.ServiceIDs = append(appt.ServiceIDs, serviceID)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachServiceIDs - rows error: %w", ErrScanRow, err)
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment
	var endDateTime, cancelledAt, createdAt, updatedAt sql.NullTime
	var clientID sql.NullInt64

	err := row.Scan(
		&appt.ID,
		&appt.CompanyID,
		&appt.EmployeeID,
		&clientID,
		&appt.StartDateTime,
		&endDateTime,
		&appt.Status,
		&appt.TotalDurationMinutes,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if clientID.Valid {
		appt.ClientID = &clientID.Int64
	}
	if endDateTime.Valid {
		appt.EndDateTime = &endDateTime.Time
	}
	if cancelledAt.Valid {
		appt.CancelledAt = &cancelledAt.Time
	}
	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %w", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %w", ErrScanRow, err)
	}

	return appointments, nil
}

func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == exclusionViolation
	}
	return false
}
