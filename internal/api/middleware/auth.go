package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-TableBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TableBookingService/internal/domain"
)

// Заголовки идентификации, которые проставляет шлюз
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

const (
	msgUnauthorized  = "требуется авторизация"
	msgInvalidUserID = "некорректный заголовок X-User-ID"
	msgForbidden     = "операция доступна только оператору ресторана"
)

type contextKey string

const requesterKey contextKey = "requester"

// Auth требует идентифицированного пользователя
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requester, ok, err := parseRequester(r)
		if err != nil {
			handlers.RespondUnauthorized(w, msgInvalidUserID)
			return
		}
		if !ok {
			handlers.RespondUnauthorized(w, msgUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(withRequester(r.Context(), requester)))
	})
}

// OptionalAuth пропускает анонимных гостей
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requester, _, err := parseRequester(r)
		if err != nil {
			handlers.RespondUnauthorized(w, msgInvalidUserID)
			return
		}
		next.ServeHTTP(w, r.WithContext(withRequester(r.Context(), requester)))
	})
}

// RequireOperator пропускает только оператора ресторана. Используется после Auth.
func RequireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetRequester(r.Context()).IsOperator() {
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetRequester возвращает инициатора запроса; без Auth/OptionalAuth это гость
func GetRequester(ctx context.Context) domain.Requester {
	requester, ok := ctx.Value(requesterKey).(domain.Requester)
	if !ok {
		return domain.Requester{Role: domain.RoleGuest}
	}
	return requester
}

// GetUserID возвращает ID пользователя, если он есть
func GetUserID(ctx context.Context) (int64, bool) {
	requester := GetRequester(ctx)
	if requester.UserID == nil {
		return 0, false
	}
	return *requester.UserID, true
}

// GetRole возвращает роль инициатора
func GetRole(ctx context.Context) domain.Role {
	return GetRequester(ctx).Role
}

func withRequester(ctx context.Context, requester domain.Requester) context.Context {
	return context.WithValue(ctx, requesterKey, requester)
}

// parseRequester читает заголовки шлюза. ok = false, если пользователь не указан.
func parseRequester(r *http.Request) (domain.Requester, bool, error) {
	requester := domain.Requester{Role: domain.RoleGuest}

	raw := r.Header.Get(HeaderUserID)
	if raw == "" {
		return requester, false, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return requester, false, strconv.ErrSyntax
	}

	requester.UserID = &id
	requester.Role = domain.RoleUser
	if domain.Role(r.Header.Get(HeaderUserRole)) == domain.RoleOperator {
		requester.Role = domain.RoleOperator
	}
	return requester, true, nil
}
