package update_branch_settings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TableBookingService/internal/domain"
	"github.com/m04kA/SMC-TableBookingService/internal/service/settings"
	"github.com/m04kA/SMC-TableBookingService/internal/service/settings/models"
	"github.com/m04kA/SMC-TableBookingService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Upsert(ctx context.Context, branchID int64, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	args := m.Called(ctx, branchID, req)
	resp, _ := args.Get(0).(*models.SettingsResponse)
	return resp, args.Error(1)
}

func put(svc SettingsService, target, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/branches/{branchId}/settings", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodPut)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, target, bytes.NewBufferString(body)))
	return rec
}

const validBody = `{"openTime":"12:00","closeTime":"23:00","intervalMinutes":30,"maxSeatsPerSlot":10,"maxTablesPerSlot":5}`

func TestHandle_Saved(t *testing.T) {
	svc := &mockService{}
	svc.On("Upsert", mock.Anything, int64(4), &models.UpdateSettingsRequest{
		OpenTime:         "12:00",
		CloseTime:        "23:00",
		IntervalMinutes:  30,
		MaxSeatsPerSlot:  10,
		MaxTablesPerSlot: 5,
	}).Return(&models.SettingsResponse{BranchID: 4, OpenTime: "12:00", CloseTime: "23:00"}, nil)

	rec := put(svc, "/branches/4/settings", validBody)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.SettingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(4), resp.BranchID)
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
	}{
		{
			name:       "invalid settings",
			err:        fmt.Errorf("%w: %w: open must be before close", settings.ErrInvalidInput, domain.ErrInvalidSettings),
			wantStatus: http.StatusBadRequest,
			wantReason: handlers.ReasonInvalidSettings,
		},
		{
			name:       "invalid input",
			err:        fmt.Errorf("%w: branchId must be positive", settings.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
			wantReason: handlers.ReasonBadRequest,
		},
		{
			name:       "internal",
			err:        settings.ErrInternal,
			wantStatus: http.StatusInternalServerError,
			wantReason: handlers.ReasonInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("Upsert", mock.Anything, int64(4), mock.Anything).Return(nil, tt.err)

			rec := put(svc, "/branches/4/settings", validBody)

			require.Equal(t, tt.wantStatus, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantReason, body.Reason)
		})
	}
}

func TestHandle_InvalidBody(t *testing.T) {
	svc := &mockService{}

	rec := put(svc, "/branches/4/settings", `{"openTime":12}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}
