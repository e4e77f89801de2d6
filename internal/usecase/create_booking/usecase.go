package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TableBookingService/internal/infra/storage/booking"
	settingsRepo "github.com/m04kA/SMC-TableBookingService/internal/infra/storage/settings"
	slotRepo "github.com/m04kA/SMC-TableBookingService/internal/infra/storage/timeslot"
)

// UseCase use case для допуска нового бронирования в слот
type UseCase struct {
	bookingRepo  BookingRepository
	slotRepo     SlotRepository
	settingsRepo SettingsRepository
	overrideRepo OverrideRepository
	txManager    TransactionManager
	cache        AvailabilityCache
	metrics      Metrics
	defaults     DefaultStatuses
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	settingsRepo SettingsRepository,
	overrideRepo OverrideRepository,
	txManager TransactionManager,
	cache AvailabilityCache,
	metrics Metrics,
	defaults DefaultStatuses,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		settingsRepo: settingsRepo,
		overrideRepo: overrideRepo,
		txManager:    txManager,
		cache:        cache,
		metrics:      metrics,
		defaults:     defaults,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования.
// Чтение остатка и вставка выполняются в одной сериализуемой транзакции
// под блокировкой строки слота, поэтому два параллельных запроса
// не могут вместе превысить вместимость.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: role=%s, slot=%v, branch=%d, partySize=%d",
		req.Requester.Role, req.TimeSlotID, req.BranchID, req.PartySize)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.observe(admissionRejected)
		return nil, err
	}

	// 2. Повторный запрос с тем же ключом идемпотентности
	if replay, err := uc.findReplay(ctx, req); err != nil || replay != nil {
		return replay, err
	}

	// 3. Текущее локальное время филиала
	now := domain.WallClock(uc.timeProvider.Now(), uc.location)

	var result *domain.Booking

	// 4. Выполняем допуск в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Находим и блокируем слот
		slot, err := uc.lockSlot(txCtx, req)
		if err != nil {
			return err
		}

		// 4.2. Настройки филиала
		settings, err := uc.settingsRepo.GetByBranchID(txCtx, slot.BranchID)
		if err != nil {
			if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
				return fmt.Errorf("%w: branch=%d", domain.ErrConfigurationMissing, slot.BranchID)
			}
			return fmt.Errorf("%w: failed to get settings: %w", ErrInternal, err)
		}

		// 4.3. Слот должен быть открыт и еще не начаться
		if slot.IsClosed {
			return fmt.Errorf("%w: slot id=%d is closed", domain.ErrInvalidSlot, slot.ID)
		}
		if slot.HasStarted(now) {
			return fmt.Errorf("%w: slot id=%d starts in the past", domain.ErrInvalidSlot, slot.ID)
		}

		// 4.4. Остаток считается тем же способом, что и для просмотра доступности
		availability, err := uc.slotAvailability(txCtx, slot, now)
		if err != nil {
			return err
		}
		if !availability.CanAdmit(req.PartySize) {
			uc.logger.Warn("CreateBooking: slot id=%d has %d seats and %d tables left, partySize=%d",
				slot.ID, availability.RemainingSeats, availability.RemainingTables, req.PartySize)
			return fmt.Errorf("%w: %d seats left", domain.ErrCapacityExceeded, availability.Remaining)
		}

		// 4.5. Создаем бронирование, конец фиксируется по текущему интервалу филиала
		booking := &domain.Booking{
			UserID:         bookingUserID(req),
			BranchID:       slot.BranchID,
			TimeSlotID:     slot.ID,
			PartySize:      req.PartySize,
			Status:         uc.defaults.For(req.Requester.Role),
			StartTime:      slot.StartTime,
			EndTime:        slot.StartTime.Add(time.Duration(settings.IntervalMinutes) * time.Minute),
			Notes:          req.Notes,
			IdempotencyKey: req.IdempotencyKey,
		}
		if booking.UserID == nil {
			booking.GuestName = req.GuestName
			booking.GuestPhone = req.GuestPhone
			booking.GuestEmail = req.GuestEmail
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrDuplicateIdempotencyKey) {
				return errIdempotencyRace
			}
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return uc.handleError(ctx, req, err)
	}

	uc.observe(admissionAdmitted)
	uc.invalidate(ctx, result)

	uc.logger.Info("CreateBooking: created booking id=%d in slot id=%d, status=%s",
		result.ID, result.TimeSlotID, result.Status)
	return &Response{Booking: result}, nil
}

// lockSlot находит слот запроса и блокирует его строку до конца транзакции
func (uc *UseCase) lockSlot(ctx context.Context, req *Request) (*domain.TimeSlot, error) {
	slotID := int64(0)
	if req.TimeSlotID != nil {
		slotID = *req.TimeSlotID
	} else {
		start := req.StartTime.OnDate(domain.DateOnly(*req.Date))
		slot, err := uc.slotRepo.GetByBranchAndStart(ctx, req.BranchID, start)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return nil, fmt.Errorf("%w: no slot at %s for branch=%d", domain.ErrInvalidSlot, start.Format(time.DateTime), req.BranchID)
			}
			return nil, fmt.Errorf("%w: failed to find slot: %w", ErrInternal, err)
		}
		slotID = slot.ID
	}

	slot, err := uc.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, fmt.Errorf("%w: slot id=%d not found", domain.ErrInvalidSlot, slotID)
		}
		return nil, fmt.Errorf("%w: failed to lock slot: %w", ErrInternal, err)
	}

	if req.TimeSlotID != nil && req.BranchID > 0 && slot.BranchID != req.BranchID {
		return nil, fmt.Errorf("%w: slot id=%d belongs to another branch", domain.ErrInvalidSlot, slotID)
	}

	return slot, nil
}

// slotAvailability считает остаток слота по всем слотам и бронированиям его даты
func (uc *UseCase) slotAvailability(ctx context.Context, slot *domain.TimeSlot, now time.Time) (domain.SlotAvailability, error) {
	date := domain.DateOnly(slot.Date)

	slots, err := uc.slotRepo.ListByBranchAndDate(ctx, slot.BranchID, date)
	if err != nil {
		return domain.SlotAvailability{}, fmt.Errorf("%w: failed to list slots: %w", ErrInternal, err)
	}

	ids := make([]int64, 0, len(slots))
	for _, s := range slots {
		ids = append(ids, s.ID)
	}

	bookings, err := uc.bookingRepo.GetBySlotIDs(ctx, ids)
	if err != nil {
		return domain.SlotAvailability{}, fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
	}

	overrides, err := uc.overrideRepo.ListByBranch(ctx, slot.BranchID, &date)
	if err != nil {
		return domain.SlotAvailability{}, fmt.Errorf("%w: failed to get overrides: %w", ErrInternal, err)
	}

	list := domain.CalculateAvailability(date, slots, bookings, overrides, now)
	if a, ok := domain.FindSlotAvailability(list, slot.ID); ok {
		return a, nil
	}

	// Слот не попал в выборку по дате, считаем его отдельно
	list = domain.CalculateAvailability(date, []*domain.TimeSlot{slot}, bookings, overrides, now)
	return list[0], nil
}

// findReplay возвращает ранее созданное бронирование с тем же ключом идемпотентности
func (uc *UseCase) findReplay(ctx context.Context, req *Request) (*Response, error) {
	if req.IdempotencyKey == nil {
		return nil, nil
	}

	existing, err := uc.bookingRepo.GetByIdempotencyKey(ctx, *req.IdempotencyKey)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, nil
		}
		uc.logger.Error("CreateBooking: failed to look up idempotency key %s: %v", req.IdempotencyKey, err)
		uc.observe(admissionFailed)
		return nil, fmt.Errorf("%w: failed to look up idempotency key: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: idempotency key %s already used by booking id=%d", req.IdempotencyKey, existing.ID)
	uc.observe(admissionReplayed)
	return &Response{Booking: existing, Replayed: true}, nil
}

func (uc *UseCase) handleError(ctx context.Context, req *Request, err error) (*Response, error) {
	switch {
	case errors.Is(err, errIdempotencyRace):
		replay, replayErr := uc.findReplay(ctx, req)
		if replayErr != nil {
			return nil, replayErr
		}
		if replay == nil {
			uc.observe(admissionFailed)
			return nil, fmt.Errorf("%w: idempotency key conflict without booking", ErrInternal)
		}
		return replay, nil

	case errors.Is(err, domain.ErrInvalidSlot),
		errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrConfigurationMissing):
		uc.logger.Warn("CreateBooking: rejected: %v", err)
		uc.observe(admissionRejected)
		return nil, err

	case errors.Is(err, ErrInternal):
		uc.logger.Error("CreateBooking: %v", err)
		uc.observe(admissionFailed)
		return nil, err

	default:
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		uc.observe(admissionFailed)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}
}

func (uc *UseCase) observe(result string) {
	if uc.metrics != nil {
		uc.metrics.IncAdmission(result)
	}
}

func (uc *UseCase) invalidate(ctx context.Context, b *domain.Booking) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, b.BranchID, domain.DateOnly(b.StartTime)); err != nil {
		uc.logger.Warn("CreateBooking: failed to invalidate availability cache: %v", err)
	}
}
