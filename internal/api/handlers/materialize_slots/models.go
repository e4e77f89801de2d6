package materialize_slots

import (
	materializeSlots "github.com/m04kA/SMC-TableBookingService/internal/usecase/materialize_slots"
)

// MaterializeRequest HTTP request model
type MaterializeRequest struct {
	Days int `json:"days"` // 0 = горизонт филиала
}

// MaterializeResponse HTTP response model
type MaterializeResponse struct {
	BranchID int64 `json:"branchId"`
	Days     int   `json:"days"`
	Created  int   `json:"created"`
	Skipped  int   `json:"skipped"`
	Failed   int   `json:"failed"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *materializeSlots.Response) *MaterializeResponse {
	return &MaterializeResponse{
		BranchID: resp.BranchID,
		Days:     resp.Days,
		Created:  resp.Created,
		Skipped:  resp.Skipped,
		Failed:   resp.Failed,
	}
}
