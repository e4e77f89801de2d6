package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TableBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-TableBookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями: чтение и жизненный цикл статусов
type Service struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	cache        AvailabilityCache
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	cache AvailabilityCache,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		cache:        cache,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID.
// Пользователь видит только своё бронирование, оператор - любое.
func (s *Service) GetByID(ctx context.Context, id int64, requester domain.Requester) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d, role=%s", id, requester.Role)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !requester.IsOperator() && !requester.Owns(booking) {
		s.logger.Warn("GetByID: access denied to booking id=%d", id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя, включая завершенные и отмененные.
// Опционально фильтрует по статусу.
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	ownHistory := req.Requester.UserID != nil && *req.Requester.UserID == req.UserID
	if !ownHistory && !req.Requester.IsOperator() {
		s.logger.Warn("GetUserBookings: access denied to history of user=%d", req.UserID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetBranchBookings получает бронирования филиала с фильтрацией по дате и статусу.
// Права оператора проверяются на уровне middleware.
func (s *Service) GetBranchBookings(ctx context.Context, req *models.GetBranchBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetBranchBookings: fetching bookings for branch=%d", req.BranchID)
	if req.Date != nil {
		logMsg += fmt.Sprintf(", date=%s", *req.Date)
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBranchBookings: invalid filter for branch=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByBranchWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBranchBookings: repository error for branch=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: GetBranchBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBranchBookings: fetched %d bookings for branch=%d", len(bookings), req.BranchID)
	return models.FromDomainBookingList(bookings), nil
}

// ChangeStatus переводит бронирование в новый статус.
// Отменить может владелец или оператор; подтверждение, приход и завершение - только оператор.
// Строка бронирования блокируется на время перехода.
func (s *Service) ChangeStatus(ctx context.Context, bookingID int64, req *models.ChangeStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("ChangeStatus: booking id=%d -> %s, role=%s", bookingID, req.Status, req.Requester.Role)

	if !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}
	if req.CancellationReason != nil && len(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}

	var updated *domain.Booking
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		booking, err := s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: ChangeStatus - get booking: %v", ErrInternal, err)
		}

		if !canChange(req.Requester, booking, req.Status) {
			return ErrAccessDenied
		}

		if err := booking.Transition(req.Status, s.timeProvider.Now().UTC(), req.CancellationReason); err != nil {
			return err
		}

		if err := s.bookingRepo.UpdateStatus(ctx, booking); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: ChangeStatus - update status: %v", ErrInternal, err)
		}

		updated = booking
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound), errors.Is(err, ErrAccessDenied), errors.Is(err, domain.ErrInvalidTransition):
			s.logger.Warn("ChangeStatus: booking id=%d rejected: %v", bookingID, err)
			return nil, err
		case errors.Is(err, ErrInternal):
			s.logger.Error("ChangeStatus: booking id=%d: %v", bookingID, err)
			return nil, err
		default:
			s.logger.Error("ChangeStatus: transaction error for booking id=%d: %v", bookingID, err)
			return nil, fmt.Errorf("%w: ChangeStatus - transaction error: %v", ErrInternal, err)
		}
	}

	if s.metrics != nil {
		s.metrics.IncStatusTransition(string(updated.Status))
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, updated.BranchID, domain.DateOnly(updated.StartTime)); err != nil {
			s.logger.Warn("ChangeStatus: failed to invalidate availability cache: %v", err)
		}
	}

	s.logger.Info("ChangeStatus: booking id=%d is now %s", bookingID, updated.Status)
	return models.FromDomainBooking(updated), nil
}

// canChange проверяет права инициатора на переход в статус next
func canChange(requester domain.Requester, booking *domain.Booking, next domain.BookingStatus) bool {
	if requester.IsOperator() {
		return true
	}
	return next == domain.StatusCancelled && requester.Owns(booking)
}
