package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
	"github.com/m04kA/SMC-TableBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TableBookingService/pkg/psqlbuilder"
)

const (
	tableName = "bookings"

	idempotencyKeyConstraint = "bookings_idempotency_key_key"
	sqlStateUniqueViolation  = "23505"
)

var columns = []string{
	"id",
	"user_id",
	"guest_name",
	"guest_phone",
	"guest_email",
	"branch_id",
	"time_slot_id",
	"party_size",
	"status",
	"start_time",
	"end_time",
	"notes",
	"idempotency_key",
	"cancellation_reason",
	"arrived_at",
	"cancelled_at",
	"completed_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Вызывается внутри сериализуемой транзакции приёма бронирования.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"user_id",
			"guest_name",
			"guest_phone",
			"guest_email",
			"branch_id",
			"time_slot_id",
			"party_size",
			"status",
			"start_time",
			"end_time",
			"notes",
			"idempotency_key",
		).
		Values(
			booking.UserID,
			booking.GuestName,
			booking.GuestPhone,
			booking.GuestEmail,
			booking.BranchID,
			booking.TimeSlotID,
			booking.PartySize,
			booking.Status,
			booking.StartTime,
			booking.EndTime,
			booking.Notes,
			booking.IdempotencyKey,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == sqlStateUniqueViolation && pqErr.Constraint == idempotencyKeyConstraint {
			return nil, ErrDuplicateIdempotencyKey
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID.
// В транзакции строка блокируется (FOR UPDATE) для смены статуса.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	return r.getOne(ctx, "GetByID", selectBuilder)
}

// GetByIdempotencyKey получает бронирование по ключу идемпотентности
func (r *Repository) GetByIdempotencyKey(ctx context.Context, key uuid.UUID) (*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"idempotency_key": key})

	return r.getOne(ctx, "GetByIdempotencyKey", selectBuilder)
}

func (r *Repository) getOne(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %w", ErrScanRow, op, err)
	}

	return booking, nil
}

// GetBySlotIDs возвращает все бронирования (в любом статусе) указанных слотов
func (r *Repository) GetBySlotIDs(ctx context.Context, slotIDs []int64) ([]*domain.Booking, error) {
	if len(slotIDs) == 0 {
		return []*domain.Booking{}, nil
	}

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"time_slot_id": slotIDs}).
		OrderBy("start_time ASC", "id ASC")

	return r.list(ctx, "GetBySlotIDs", selectBuilder)
}

// GetByUserID получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("start_time DESC", "id DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	return r.list(ctx, "GetByUserID", selectBuilder)
}

// GetByBranchWithFilter получает бронирования филиала с фильтрацией по дате и статусу.
// Без статуса и IncludeInactive возвращаются только бронирования, занимающие места.
func (r *Repository) GetByBranchWithFilter(ctx context.Context, filter domain.BranchBookingsFilter) ([]*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"branch_id": filter.BranchID})

	if filter.Date != nil {
		day := domain.DateOnly(*filter.Date)
		selectBuilder = selectBuilder.
			Where(squirrel.GtOrEq{"start_time": day}).
			Where(squirrel.Lt{"start_time": day.AddDate(0, 0, 1)})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		inactive := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactive[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactive})
	}

	if filter.Date != nil {
		selectBuilder = selectBuilder.OrderBy("start_time ASC", "id ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("start_time DESC", "id DESC")
	}

	return r.list(ctx, "GetByBranchWithFilter", selectBuilder)
}

// UpdateStatus сохраняет статус, причину отмены и временные метки
func (r *Repository) UpdateStatus(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", booking.Status).
		Set("cancellation_reason", booking.CancellationReason).
		Set("arrived_at", booking.ArrivedAt).
		Set("cancelled_at", booking.CancelledAt).
		Set("completed_at", booking.CompletedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": booking.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt time.Time
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBookingNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	booking.UpdatedAt = updatedAt
	return nil
}

func (r *Repository) list(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.GuestName,
		&booking.GuestPhone,
		&booking.GuestEmail,
		&booking.BranchID,
		&booking.TimeSlotID,
		&booking.PartySize,
		&booking.Status,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Notes,
		&booking.IdempotencyKey,
		&booking.CancellationReason,
		&booking.ArrivedAt,
		&booking.CancelledAt,
		&booking.CompletedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	// start_time/end_time хранятся как локальное время филиала без часового пояса
	booking.StartTime = wallClock(booking.StartTime)
	booking.EndTime = wallClock(booking.EndTime)
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
