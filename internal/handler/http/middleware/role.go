package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// Claims is the identity carried by a verified access token.
type Claims struct {
	UserID     string
	EmployeeID string
	Role       string
}

// IsManager reports whether the caller may act on other employees' data.
func (c Claims) IsManager() bool {
	return c.Role == jwt.RoleManager || c.Role == jwt.RoleAdmin
}

// CanAccessEmployee reports whether the caller may read or act for employeeID.
func (c Claims) CanAccessEmployee(employeeID string) bool {
	return c.IsManager() || (c.EmployeeID != "" && c.EmployeeID == employeeID)
}

// ClaimsFromRequest reads the verified token claims. Missing claims come
// back as empty strings.
func ClaimsFromRequest(r *http.Request) Claims {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return Claims{}
	}
	userID, _ := claims["user_id"].(string)
	employeeID, _ := claims["employee_id"].(string)
	role, _ := claims["role"].(string)
	return Claims{UserID: userID, EmployeeID: employeeID, Role: role}
}

// RequireManager requires manager or admin role
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ClaimsFromRequest(r).IsManager() {
			response.Forbidden(w, "Manager access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
