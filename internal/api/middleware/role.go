package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tutorlink/chain-client/internal/core/domain"
)

// RequireRole gates a route on the currently resolved on-chain role. This
// is affordance only, mirroring which buttons each role would see: the
// ledger remains the authority on whether the operation is actually legal,
// and passing this check guarantees nothing about the submission.
func RequireRole(current func() domain.Role, allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := allowed[current()]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "not available for current role"})
			}
			return next(c)
		}
	}
}
