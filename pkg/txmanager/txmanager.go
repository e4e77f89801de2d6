// Package txmanager управляет транзакциями поверх dbmetrics.
// Транзакция передается репозиториям через context (dbmetrics.WithTx).
package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-TableBookingService/pkg/dbmetrics"
)

const (
	// DefaultMaxRetries число повторов сериализуемой транзакции по умолчанию
	DefaultMaxRetries = 3

	defaultRetryBackoff = 10 * time.Millisecond

	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
)

var (
	// ErrBeginTx возвращается при ошибке начала транзакции
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx возвращается при ошибке фиксации транзакции
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")

	// ErrRetriesExhausted возвращается, когда все повторы сериализуемой транзакции исчерпаны
	ErrRetriesExhausted = errors.New("txmanager: serialization retries exhausted")
)

// TransactionManager менеджер транзакций
type TransactionManager struct {
	db           dbmetrics.TxBeginner
	maxRetries   int
	retryBackoff time.Duration
}

// Option настройка менеджера
type Option func(*TransactionManager)

// WithMaxRetries задает число повторов при ошибке сериализации
func WithMaxRetries(n int) Option {
	return func(m *TransactionManager) {
		if n >= 0 {
			m.maxRetries = n
		}
	}
}

// WithRetryBackoff задает базовую паузу между повторами
func WithRetryBackoff(d time.Duration) Option {
	return func(m *TransactionManager) {
		m.retryBackoff = d
	}
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db dbmetrics.TxBeginner, opts ...Option) *TransactionManager {
	m := &TransactionManager{
		db:           db,
		maxRetries:   DefaultMaxRetries,
		retryBackoff: defaultRetryBackoff,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, nil, fn)
}

// DoReadOnly выполняет fn в транзакции только для чтения
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

// DoSerializable выполняет fn в SERIALIZABLE транзакции.
// При конфликте сериализации (40001) или дедлоке (40P01) транзакция
// повторяется целиком, не более maxRetries раз.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}

	var lastErr error
	for attempt := 0; attempt <= m.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, m.retryBackoff*time.Duration(attempt)); err != nil {
				return err
			}
		}

		lastErr = m.run(ctx, opts, fn)
		if lastErr == nil || !IsSerializationFailure(lastErr) {
			return lastErr
		}
	}

	return fmt.Errorf("%w: %d attempts: %w", ErrRetriesExhausted, m.maxRetries+1, lastErr)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginTx, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitTx, err)
	}

	return nil
}

// IsSerializationFailure возвращает true для ошибок postgres, после которых
// транзакцию можно безопасно повторить
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == sqlStateSerializationFailure || pqErr.Code == sqlStateDeadlockDetected
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
