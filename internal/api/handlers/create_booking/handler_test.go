package create_booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TableBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-TableBookingService/internal/domain"
	"github.com/m04kA/SMC-TableBookingService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-TableBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-TableBookingService/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*createBooking.Response)
	return resp, args.Error(1)
}

func testBooking() *domain.Booking {
	start := time.Date(2025, 10, 15, 18, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:         42,
		BranchID:   1,
		TimeSlotID: 7,
		PartySize:  2,
		Status:     domain.StatusPending,
		StartTime:  start,
		EndTime:    start.Add(30 * time.Minute),
	}
}

func serve(h *Handler, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewBufferString(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	middleware.OptionalAuth(http.HandlerFunc(h.Handle)).ServeHTTP(rec, req)
	return rec
}

func TestHandle_CreatedForGuest(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createBooking.Request) bool {
		return req.Requester.Role == domain.RoleGuest &&
			req.Date != nil && req.Date.Format(domain.DateFormat) == "2025-10-15" &&
			req.StartTime != nil && req.StartTime.String() == "18:00" &&
			req.IdempotencyKey == nil
	})).Return(&createBooking.Response{Booking: testBooking()}, nil)

	h := NewHandler(uc, logger.NewNop())
	rec := serve(h, `{"branchId":1,"date":"2025-10-15","startTime":"18:00","partySize":2,"guestName":"Анна","guestPhone":"+79990000000"}`, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "18:00", resp.StartTime)
	assert.Equal(t, "18:30", resp.EndTime)
	uc.AssertExpectations(t)
}

func TestHandle_ReplayReturnsOK(t *testing.T) {
	key := uuid.New()
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createBooking.Request) bool {
		return req.IdempotencyKey != nil && *req.IdempotencyKey == key &&
			req.Requester.Role == domain.RoleUser
	})).Return(&createBooking.Response{Booking: testBooking(), Replayed: true}, nil)

	h := NewHandler(uc, logger.NewNop())
	rec := serve(h, `{"timeSlotId":7,"partySize":2}`, map[string]string{
		HeaderIdempotencyKey:    key.String(),
		middleware.HeaderUserID: "10",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)
}

func TestHandle_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		headers map[string]string
	}{
		{name: "malformed json", body: `{"partySize":`},
		{name: "unknown field", body: `{"partySize":2,"tableId":3}`},
		{name: "bad date", body: `{"branchId":1,"date":"15.10.2025","startTime":"18:00","partySize":2}`},
		{name: "bad time", body: `{"branchId":1,"date":"2025-10-15","startTime":"6pm","partySize":2}`},
		{name: "bad idempotency key", body: `{"timeSlotId":7,"partySize":2}`, headers: map[string]string{HeaderIdempotencyKey: "not-a-uuid"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			h := NewHandler(uc, logger.NewNop())

			rec := serve(h, tt.body, tt.headers)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
	}{
		{"capacity", fmt.Errorf("%w: party of 6", domain.ErrCapacityExceeded), http.StatusConflict, handlers.ReasonCapacityExceeded},
		{"invalid slot", domain.ErrInvalidSlot, http.StatusBadRequest, handlers.ReasonInvalidSlot},
		{"no settings", domain.ErrConfigurationMissing, http.StatusUnprocessableEntity, handlers.ReasonConfigurationMissing},
		{"invalid input", fmt.Errorf("%w: partySize", createBooking.ErrInvalidInput), http.StatusBadRequest, handlers.ReasonBadRequest},
		{"internal", createBooking.ErrInternal, http.StatusInternalServerError, handlers.ReasonInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)
			h := NewHandler(uc, logger.NewNop())

			rec := serve(h, `{"timeSlotId":7,"partySize":6,"guestName":"Анна","guestPhone":"1"}`, nil)

			require.Equal(t, tt.wantStatus, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantReason, body.Reason)
			assert.NotEmpty(t, body.Message)
		})
	}
}
