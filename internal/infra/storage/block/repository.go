package block

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/VEA-SchedulingService/internal/domain"
	"github.com/m04kA/VEA-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/VEA-SchedulingService/pkg/psqlbuilder"
)

var blockColumns = []string{
	"id",
	"employee_id",
	"block_date",
	"start_time",
	"end_time",
	"reason",
}

// Repository репозиторий для работы с блокировками времени сотрудников
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую блокировку времени
func (r *Repository) Create(ctx context.Context, blk *domain.EmployeeBlock) (*domain.EmployeeBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("employee_blocks").
		Columns("employee_id", "block_date", "start_time", "end_time", "reason").
		Values(blk.EmployeeID, blk.BlockDate, blk.StartTime, blk.EndTime, blk.Reason).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&blk.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return blk, nil
}

// GetByID получает блокировку по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.EmployeeBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(blockColumns...).
		From("employee_blocks").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	blk, err := scanBlock(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBlockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan block: %w", ErrScanRow, err)
	}

	return blk, nil
}

// ListByEmployeeAndDate получает блокировки сотрудника на конкретную дату,
// отсортированные по времени начала
//
// Внутри транзакции добавляет FOR UPDATE: создание записи блокирует
// блокировки дня вместе с записями на время проверки доступности слота
func (r *Repository) ListByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) ([]*domain.EmployeeBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	selectBuilder := psqlbuilder.Select(blockColumns...).
		From("employee_blocks").
		Where(squirrel.Eq{
			"employee_id": employeeID,
			"block_date":  day,
		}).
		OrderBy("start_time ASC")

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

	return scanBlocks(rows)
}

// ListByEmployeeRange получает блокировки сотрудника за период [start, end],
// отсортированные по дате и времени начала
func (r *Repository) ListByEmployeeRange(ctx context.Context, employeeID int64, startDate, endDate time.Time) ([]*domain.EmployeeBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rangeStart := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, time.UTC)
	rangeEnd := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 0, 0, 0, 0, time.UTC)

	query, args, err := psqlbuilder.Select(blockColumns...).
		From("employee_blocks").
		Where(squirrel.Eq{"employee_id": employeeID}).
		Where(squirrel.GtOrEq{"block_date": rangeStart}).
		Where(squirrel.LtOrEq{"block_date": rangeEnd}).
		OrderBy("block_date ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByEmployeeRange - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByEmployeeRange - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBlocks(rows)
}

// Delete удаляет блокировку времени
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("employee_blocks").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlockNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBlock(row rowScanner) (*domain.EmployeeBlock, error) {
	var blk domain.EmployeeBlock
	var reason sql.NullString

	err := row.Scan(
		&blk.ID,
		&blk.EmployeeID,
		&blk.BlockDate,
		&blk.StartTime,
		&blk.EndTime,
		&reason,
	)
	if err != nil {
		return nil, err
	}

	blk.Reason = reason.String

	return &blk, nil
}

func scanBlocks(rows *sql.Rows) ([]*domain.EmployeeBlock, error) {
	blocks := make([]*domain.EmployeeBlock, 0)

	for rows.Next() {
		blk, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBlocks - scan row: %w", ErrScanRow, err)
		}
		blocks = append(blocks, blk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBlocks - rows error: %w", ErrScanRow, err)
	}

	return blocks, nil
}
