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

	"github.com/m04kA/SMC-TableBookingService/pkg/dbmetrics"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
	commitErr  error
}

func (t *fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	txs       []*fakeTx
	opts      []*sql.TxOptions
	commitErr error
	beginErr  error
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	tx := &fakeTx{commitErr: b.commitErr}
	b.txs = append(b.txs, tx)
	b.opts = append(b.opts, opts)
	return tx, nil
}

func TestDo_CommitsAndPassesTxInContext(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	require.Len(t, db.txs, 1)
	assert.True(t, db.txs[0].committed)
	assert.Nil(t, db.opts[0])
}

func TestDo_RollsBackOnError(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db)
	boom := errors.New("boom")

	err := m.Do(context.Background(), func(context.Context) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.True(t, db.txs[0].rolledBack)
	assert.False(t, db.txs[0].committed)
}

func TestDo_NestedReusesOuterTx(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.DoSerializable(ctx, func(context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Len(t, db.txs, 1)
}

func TestDo_BeginError(t *testing.T) {
	m := NewTransactionManager(&fakeBeginner{beginErr: errors.New("conn refused")})

	err := m.Do(context.Background(), func(context.Context) error { return nil })

	assert.ErrorIs(t, err, ErrBeginTx)
}

func TestDoReadOnly_SetsReadOnly(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db)

	require.NoError(t, m.DoReadOnly(context.Background(), func(context.Context) error { return nil }))
	assert.True(t, db.opts[0].ReadOnly)
}

func TestDoSerializable_RetriesSerializationFailure(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db, WithMaxRetries(3), WithRetryBackoff(0))

	calls := 0
	err := m.DoSerializable(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return fmt.Errorf("insert booking: %w", &pq.Error{Code: "40001"})
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	require.Len(t, db.opts, 3)
	assert.Equal(t, sql.LevelSerializable, db.opts[0].Isolation)
	assert.True(t, db.txs[2].committed)
}

func TestDoSerializable_RetriesExhausted(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db, WithMaxRetries(2), WithRetryBackoff(0))

	calls := 0
	err := m.DoSerializable(context.Background(), func(context.Context) error {
		calls++
		return &pq.Error{Code: "40P01"}
	})

	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, 3, calls)
}

func TestDoSerializable_CommitSerializationFailureIsRetried(t *testing.T) {
	db := &fakeBeginner{commitErr: &pq.Error{Code: "40001"}}
	m := NewTransactionManager(db, WithMaxRetries(1), WithRetryBackoff(0))

	err := m.DoSerializable(context.Background(), func(context.Context) error { return nil })

	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Len(t, db.txs, 2)
}

func TestDoSerializable_DomainErrorNotRetried(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db, WithRetryBackoff(0))
	domainErr := errors.New("capacity exceeded")

	calls := 0
	err := m.DoSerializable(context.Background(), func(context.Context) error {
		calls++
		return domainErr
	})

	assert.ErrorIs(t, err, domainErr)
	assert.Equal(t, 1, calls)
}

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, IsSerializationFailure(&pq.Error{Code: "40001"}))
	assert.True(t, IsSerializationFailure(fmt.Errorf("wrapped: %w", &pq.Error{Code: "40P01"})))
	assert.False(t, IsSerializationFailure(&pq.Error{Code: "23505"}))
	assert.False(t, IsSerializationFailure(errors.New("plain")))
}
