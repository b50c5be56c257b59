package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VEA-SchedulingService/pkg/dbmetrics"
)

var errExecQuery = errors.New("storage: failed to execute query")

type fakeTx struct {
	commits   int
	rollbacks int
}

func (t *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) Commit() error {
	t.commits++
	return nil
}

func (t *fakeTx) Rollback() error {
	t.rollbacks++
	return nil
}

type fakeBeginner struct {
	tx    *fakeTx
	begun int
}

func (b *fakeBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.begun++
	return b.tx, nil
}

func TestDo_CommitsOnSuccess(t *testing.T) {
	tx := &fakeTx{}
	mgr := NewTransactionManager(&fakeBeginner{tx: tx})

	err := mgr.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, tx.commits)
	assert.Equal(t, 0, tx.rollbacks)
}

func TestDo_RollsBackOnError(t *testing.T) {
	tx := &fakeTx{}
	mgr := NewTransactionManager(&fakeBeginner{tx: tx})

	boom := errors.New("boom")
	err := mgr.Do(context.Background(), func(ctx context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, tx.commits)
	assert.Equal(t, 1, tx.rollbacks)
}

// Ошибка сериализации, поднятая запросом внутри транзакции, приходит сюда
// обёрнутой репозиторием. Цепочка должна сохранять *pq.Error, иначе
// повтор не сработает.
func TestDoSerializable_RetriesOnWrappedSerializationFailure(t *testing.T) {
	tx := &fakeTx{}
	beginner := &fakeBeginner{tx: tx}
	mgr := NewTransactionManager(beginner)

	pqErr := &pq.Error{Code: "40001", Message: "could not serialize access"}
	wrapped := fmt.Errorf("%w: ListByEmployeeAndDate - execute query: %w", errExecQuery, pqErr)

	attempts := 0
	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return wrapped
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, beginner.begun)
	assert.Equal(t, 3, tx.rollbacks)
	assert.ErrorIs(t, err, errExecQuery)

	var got *pq.Error
	require.ErrorAs(t, err, &got)
	assert.Equal(t, pq.ErrorCode("40001"), got.Code)
}

func TestDoSerializable_SucceedsAfterRetry(t *testing.T) {
	tx := &fakeTx{}
	mgr := NewTransactionManager(&fakeBeginner{tx: tx})

	attempts := 0
	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return fmt.Errorf("%w: Create - execute insert: %w", errExecQuery, &pq.Error{Code: "40001"})
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 1, tx.commits)
	assert.Equal(t, 1, tx.rollbacks)
}

func TestDoSerializable_NoRetryOnOtherErrors(t *testing.T) {
	tx := &fakeTx{}
	mgr := NewTransactionManager(&fakeBeginner{tx: tx})

	attempts := 0
	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return fmt.Errorf("%w: Create - execute insert: %w", errExecQuery, &pq.Error{Code: "23505"})
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, tx.rollbacks)
}
