package change_booking_status

// ChangeStatusRequest HTTP request model, тело необязательно
type ChangeStatusRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}
