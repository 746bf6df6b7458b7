package middleware

import (
	"context"
	"net/http"
	"strings"

	"rental-backend/internal/auth"
	"rental-backend/internal/repositories"
)

type contextKey string

const StaffIDKey contextKey = "staff_id"
const EmailKey contextKey = "email"
const RoleKey contextKey = "role"
const TenantPhoneKey contextKey = "tenant_phone"

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	staffRepo  *repositories.StaffRepository
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, staffRepo *repositories.StaffRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		staffRepo:  staffRepo,
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// Authenticate validates a staff JWT and re-checks the account against the
// database so deactivations take effect immediately, not at token expiry.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		staff, err := m.staffRepo.Get(r.Context(), claims.StaffID)
		if err != nil {
			http.Error(w, "Account not found", http.StatusUnauthorized)
			return
		}
		if !staff.IsActive {
			http.Error(w, "Account suspended. Please contact administrator.", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), StaffIDKey, staff.ID)
		ctx = context.WithValue(ctx, EmailKey, staff.Email)
		ctx = context.WithValue(ctx, RoleKey, staff.Role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole ensures the authenticated staff account has one of the
// allowed roles.
func (m *AuthMiddleware) RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, _ := GetRoleFromContext(r.Context())
			for _, allowed := range allowedRoles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "Forbidden: Insufficient permissions", http.StatusForbidden)
		}))
	}
}

// RequireAdmin ensures the staff account has the admin role.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireRole("admin")(next)
}

// AuthenticateTenant validates a tenant portal token. Tenants never share
// the staff token path; their claims carry a phone, not a staff ID.
func (m *AuthMiddleware) AuthenticateTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwtManager.ValidateTenantToken(token)
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), TenantPhoneKey, claims.Phone)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetStaffIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(StaffIDKey).(int)
	return id, ok
}

func GetEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(EmailKey).(string)
	return email, ok
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}

func GetTenantPhoneFromContext(ctx context.Context) (string, bool) {
	phone, ok := ctx.Value(TenantPhoneKey).(string)
	return phone, ok
}
