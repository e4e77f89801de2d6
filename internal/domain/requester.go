package domain

// Role роль вызывающего, проставляется шлюзом в заголовке X-User-Role
type Role string

const (
	RoleGuest    Role = "guest"
	RoleUser     Role = "user"
	RoleOperator Role = "operator"
)

// Requester инициатор запроса
type Requester struct {
	UserID *int64
	Role   Role
}

// IsOperator возвращает true для оператора ресторана
func (r Requester) IsOperator() bool {
	return r.Role == RoleOperator
}

// IsGuest возвращает true для анонимного гостя
func (r Requester) IsGuest() bool {
	return r.UserID == nil && r.Role != RoleOperator
}

// Owns возвращает true, если бронирование принадлежит инициатору
func (r Requester) Owns(b *Booking) bool {
	return r.UserID != nil && b.UserID != nil && *r.UserID == *b.UserID
}
