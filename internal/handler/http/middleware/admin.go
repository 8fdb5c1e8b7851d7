package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/auth"
	"github.com/opencore-hr/attendance-backend-go/internal/handler/http/response"
)

// AdminOnly rejects callers whose role claim is neither admin nor hr.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		role, ok := claims["role"].(string)
		if !ok || (role != "admin" && role != "hr") {
			response.HandleError(w, auth.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
