package timeslot

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
)

const tableName = "time_slots"

var columns = []string{
	"id",
	"branch_id",
	"slot_date",
	"start_time",
	"end_time",
	"max_seats",
	"max_tables",
	"is_closed",
	"created_at",
}

// Repository репозиторий материализованных слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// InsertIfAbsent создает слот, если слота с таким (branch_id, start_time) еще нет.
// Возвращает false без ошибки, если слот уже существует.
func (r *Repository) InsertIfAbsent(ctx context.Context, slot *domain.TimeSlot) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"branch_id",
			"slot_date",
			"start_time",
			"end_time",
			"max_seats",
			"max_tables",
			"is_closed",
		).
		Values(
			slot.BranchID,
			slot.Date,
			slot.StartTime,
			slot.EndTime,
			slot.MaxSeats,
			slot.MaxTables,
			slot.IsClosed,
		).
		Suffix("ON CONFLICT (branch_id, start_time) DO NOTHING RETURNING id, created_at").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: InsertIfAbsent - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&slot.ID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: InsertIfAbsent - execute insert: %w", ErrExecQuery, err)
	}

	slot.CreatedAt = createdAt.Time
	return true, nil
}

// GetByID получает слот по ID.
// В транзакции строка слота блокируется (FOR UPDATE), чтобы сериализовать
// приём бронирований в один слот.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %w", ErrScanRow, err)
	}

	return slot, nil
}

// GetByBranchAndStart получает слот филиала по времени начала
func (r *Repository) GetByBranchAndStart(ctx context.Context, branchID int64, start time.Time) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From(tableName).
		Where(squirrel.Eq{"branch_id": branchID, "start_time": start}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBranchAndStart - build select query: %v", ErrBuildQuery, err)
	}

	var id int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBranchAndStart - scan id: %w", ErrScanRow, err)
	}

	return r.GetByID(ctx, id)
}

// ListByBranchAndDate возвращает все слоты филиала на дату, упорядоченные по началу
func (r *Repository) ListByBranchAndDate(ctx context.Context, branchID int64, date time.Time) ([]*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"branch_id": branchID, "slot_date": domain.DateOnly(date)}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBranchAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBranchAndDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.TimeSlot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByBranchAndDate - scan row: %w", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByBranchAndDate - rows error: %w", ErrScanRow, err)
	}

	return slots, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.TimeSlot, error) {
	var slot domain.TimeSlot
	var createdAt sql.NullTime

	err := row.Scan(
		&slot.ID,
		&slot.BranchID,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&slot.MaxSeats,
		&slot.MaxTables,
		&slot.IsClosed,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	// TIMESTAMP без часового пояса: приводим к локальному времени филиала с location = UTC
	slot.Date = domain.DateOnly(slot.Date)
	slot.StartTime = wallClock(slot.StartTime)
	slot.EndTime = wallClock(slot.EndTime)
	slot.CreatedAt = createdAt.Time

	return &slot, nil
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
