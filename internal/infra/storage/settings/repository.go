package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
	"github.com/m04kA/SMC-TableBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TableBookingService/pkg/psqlbuilder"
)

const tableName = "branch_booking_settings"

var columns = []string{
	"branch_id",
	"open_time",
	"close_time",
	"interval_minutes",
	"max_seats_per_slot",
	"max_tables_per_slot",
	"advance_booking_days",
	"created_at",
	"updated_at",
}

// Repository репозиторий настроек бронирования филиалов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByBranchID получает настройки филиала
func (r *Repository) GetByBranchID(ctx context.Context, branchID int64) (*domain.BranchBookingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"branch_id": branchID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBranchID - build select query: %v", ErrBuildQuery, err)
	}

	settings, err := scanSettings(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBranchID - scan settings: %w", ErrScanRow, err)
	}

	return settings, nil
}

// Upsert создает или обновляет настройки филиала
func (r *Repository) Upsert(ctx context.Context, settings *domain.BranchBookingSettings) (*domain.BranchBookingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"branch_id",
			"open_time",
			"close_time",
			"interval_minutes",
			"max_seats_per_slot",
			"max_tables_per_slot",
			"advance_booking_days",
		).
		Values(
			settings.BranchID,
			settings.OpenTime,
			settings.CloseTime,
			settings.IntervalMinutes,
			settings.MaxSeatsPerSlot,
			settings.MaxTablesPerSlot,
			settings.AdvanceBookingDays,
		).
		Suffix(`ON CONFLICT (branch_id) DO UPDATE SET
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			interval_minutes = EXCLUDED.interval_minutes,
			max_seats_per_slot = EXCLUDED.max_seats_per_slot,
			max_tables_per_slot = EXCLUDED.max_tables_per_slot,
			advance_booking_days = EXCLUDED.advance_booking_days,
			updated_at = NOW()
		RETURNING created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	settings.CreatedAt = createdAt.Time
	settings.UpdatedAt = updatedAt.Time

	return settings, nil
}

// ListAll возвращает настройки всех филиалов
// Используется фоновой материализацией слотов
func (r *Repository) ListAll(ctx context.Context) ([]*domain.BranchBookingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		OrderBy("branch_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListAll - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAll - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.BranchBookingSettings, 0)
	for rows.Next() {
		settings, err := scanSettings(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListAll - scan row: %w", ErrScanRow, err)
		}
		result = append(result, settings)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListAll - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSettings(row rowScanner) (*domain.BranchBookingSettings, error) {
	var settings domain.BranchBookingSettings
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&settings.BranchID,
		&settings.OpenTime,
		&settings.CloseTime,
		&settings.IntervalMinutes,
		&settings.MaxSeatsPerSlot,
		&settings.MaxTablesPerSlot,
		&settings.AdvanceBookingDays,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	settings.CreatedAt = createdAt.Time
	settings.UpdatedAt = updatedAt.Time

	return &settings, nil
}
