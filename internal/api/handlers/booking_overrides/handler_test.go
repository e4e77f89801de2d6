package booking_overrides

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TableBookingService/internal/domain"
	"github.com/m04kA/SMC-TableBookingService/internal/service/overrides"
	"github.com/m04kA/SMC-TableBookingService/internal/service/overrides/models"
	"github.com/m04kA/SMC-TableBookingService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Create(ctx context.Context, branchID int64, req *models.OverrideRequest) (*models.OverrideResponse, error) {
	args := m.Called(ctx, branchID, req)
	resp, _ := args.Get(0).(*models.OverrideResponse)
	return resp, args.Error(1)
}

func (m *mockService) Get(ctx context.Context, branchID, id int64) (*models.OverrideResponse, error) {
	args := m.Called(ctx, branchID, id)
	resp, _ := args.Get(0).(*models.OverrideResponse)
	return resp, args.Error(1)
}

func (m *mockService) List(ctx context.Context, branchID int64, date *time.Time) (*models.OverrideListResponse, error) {
	args := m.Called(ctx, branchID, date)
	resp, _ := args.Get(0).(*models.OverrideListResponse)
	return resp, args.Error(1)
}

func (m *mockService) Update(ctx context.Context, branchID, id int64, req *models.OverrideRequest) (*models.OverrideResponse, error) {
	args := m.Called(ctx, branchID, id, req)
	resp, _ := args.Get(0).(*models.OverrideResponse)
	return resp, args.Error(1)
}

func (m *mockService) Delete(ctx context.Context, branchID, id int64) error {
	return m.Called(ctx, branchID, id).Error(0)
}

func newRouter(svc OverrideService) *mux.Router {
	h := NewHandler(svc, logger.NewNop())
	r := mux.NewRouter()
	r.HandleFunc("/branches/{branchId}/overrides", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/branches/{branchId}/overrides", h.List).Methods(http.MethodGet)
	r.HandleFunc("/branches/{branchId}/overrides/{overrideId}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/branches/{branchId}/overrides/{overrideId}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/branches/{branchId}/overrides/{overrideId}", h.Delete).Methods(http.MethodDelete)
	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, bytes.NewBufferString(body)))
	return rec
}

func TestCreate(t *testing.T) {
	svc := &mockService{}
	svc.On("Create", mock.Anything, int64(2), mock.MatchedBy(func(req *models.OverrideRequest) bool {
		return req.Date == "2025-12-31" && req.OverrideType == "closed" && req.StartTime == nil
	})).Return(&models.OverrideResponse{ID: 9, BranchID: 2}, nil)

	rec := do(newRouter(svc), http.MethodPost, "/branches/2/overrides", `{"date":"2025-12-31","overrideType":"closed"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp models.OverrideResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(9), resp.ID)
	svc.AssertExpectations(t)
}

func TestCreate_Conflict(t *testing.T) {
	svc := &mockService{}
	svc.On("Create", mock.Anything, int64(2), mock.Anything).
		Return(nil, fmt.Errorf("%w: %w: capacity override needs newMaxSeats", overrides.ErrInvalidInput, domain.ErrOverrideConflict))

	rec := do(newRouter(svc), http.MethodPost, "/branches/2/overrides", `{"date":"2025-12-31","overrideType":"capacity"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, handlers.ReasonOverrideConflict, body.Reason)
}

func TestList_WithDate(t *testing.T) {
	want := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	svc := &mockService{}
	svc.On("List", mock.Anything, int64(2), mock.MatchedBy(func(d *time.Time) bool {
		return d != nil && d.Equal(want)
	})).Return(&models.OverrideListResponse{Overrides: []*models.OverrideResponse{{ID: 1}}, Total: 1}, nil)

	rec := do(newRouter(svc), http.MethodGet, "/branches/2/overrides?date=2025-12-31", "")

	require.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)

	rec = do(newRouter(svc), http.MethodGet, "/branches/2/overrides?date=31-12-2025", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGet_NotFound(t *testing.T) {
	svc := &mockService{}
	svc.On("Get", mock.Anything, int64(2), int64(77)).Return(nil, overrides.ErrOverrideNotFound)

	rec := do(newRouter(svc), http.MethodGet, "/branches/2/overrides/77", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdate(t *testing.T) {
	svc := &mockService{}
	svc.On("Update", mock.Anything, int64(2), int64(9), mock.Anything).
		Return(&models.OverrideResponse{ID: 9, BranchID: 2}, nil)

	rec := do(newRouter(svc), http.MethodPut, "/branches/2/overrides/9",
		`{"date":"2025-12-31","overrideType":"capacity","newMaxSeats":4}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestDelete(t *testing.T) {
	svc := &mockService{}
	svc.On("Delete", mock.Anything, int64(2), int64(9)).Return(nil)

	rec := do(newRouter(svc), http.MethodDelete, "/branches/2/overrides/9", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}

func TestInvalidIDs(t *testing.T) {
	svc := &mockService{}
	r := newRouter(svc)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/branches/0/overrides", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodDelete, "/branches/2/overrides/abc", "").Code)
	svc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
