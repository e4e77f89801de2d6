package override

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
	"github.com/m04kA/SMC-TableBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TableBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-TableBookingService/pkg/types"
)

const tableName = "booking_overrides"

var columns = []string{
	"id",
	"branch_id",
	"override_date",
	"start_time",
	"end_time",
	"override_type",
	"new_max_seats",
	"new_max_tables",
	"note",
	"created_at",
	"updated_at",
}

// Repository репозиторий исключений из расписания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория исключений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает исключение
func (r *Repository) Create(ctx context.Context, o *domain.BookingOverride) (*domain.BookingOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"branch_id",
			"override_date",
			"start_time",
			"end_time",
			"override_type",
			"new_max_seats",
			"new_max_tables",
			"note",
		).
		Values(
			o.BranchID,
			domain.DateOnly(o.Date),
			o.StartTime,
			o.EndTime,
			o.Type,
			o.NewMaxSeats,
			o.NewMaxTables,
			o.Note,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&o.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time

	return o, nil
}

// GetByID получает исключение по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.BookingOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	o, err := scanOverride(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOverrideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan override: %w", ErrScanRow, err)
	}

	return o, nil
}

// ListByBranch возвращает исключения филиала. date = nil - за все даты.
func (r *Repository) ListByBranch(ctx context.Context, branchID int64, date *time.Time) ([]*domain.BookingOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"branch_id": branchID})

	if date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"override_date": domain.DateOnly(*date)})
	}

	query, args, err := selectBuilder.
		OrderBy("override_date ASC", "start_time ASC NULLS FIRST", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBranch - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBranch - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.BookingOverride, 0)
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByBranch - scan row: %w", ErrScanRow, err)
		}
		result = append(result, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByBranch - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

// Update обновляет исключение целиком
func (r *Repository) Update(ctx context.Context, o *domain.BookingOverride) (*domain.BookingOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("override_date", domain.DateOnly(o.Date)).
		Set("start_time", o.StartTime).
		Set("end_time", o.EndTime).
		Set("override_type", o.Type).
		Set("new_max_seats", o.NewMaxSeats).
		Set("new_max_tables", o.NewMaxTables).
		Set("note", o.Note).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": o.ID, "branch_id": o.BranchID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOverrideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time

	return o, nil
}

// Delete удаляет исключение
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
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
		return ErrOverrideNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOverride(row rowScanner) (*domain.BookingOverride, error) {
	var o domain.BookingOverride
	var startTime, endTime sql.NullString
	var newMaxSeats, newMaxTables sql.NullInt64
	var note sql.NullString
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&o.ID,
		&o.BranchID,
		&o.Date,
		&startTime,
		&endTime,
		&o.Type,
		&newMaxSeats,
		&newMaxTables,
		&note,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.Date = domain.DateOnly(o.Date)
	if o.StartTime, err = parseOptionalTime(startTime); err != nil {
		return nil, err
	}
	if o.EndTime, err = parseOptionalTime(endTime); err != nil {
		return nil, err
	}
	if newMaxSeats.Valid {
		v := int(newMaxSeats.Int64)
		o.NewMaxSeats = &v
	}
	if newMaxTables.Valid {
		v := int(newMaxTables.Int64)
		o.NewMaxTables = &v
	}
	if note.Valid {
		o.Note = &note.String
	}
	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time

	return &o, nil
}

func parseOptionalTime(v sql.NullString) (*types.TimeString, error) {
	if !v.Valid {
		return nil, nil
	}
	t, err := types.NewTimeStringFromString(v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
