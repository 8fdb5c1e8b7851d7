package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/opencore-hr/attendance-backend-go/internal/domain/auth"
	"github.com/opencore-hr/attendance-backend-go/internal/handler/http/response"
)

// AuthRequired verifies that a valid access token survived the jwtauth
// verifier. Tokens of any other type (e.g. refresh) are rejected here so
// they cannot be replayed against API endpoints.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if err := validateAccessToken(r, token); err != nil {
				response.HandleError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func validateAccessToken(r *http.Request, token jwt.Token) error {
	if token == nil {
		return auth.ErrInvalidToken
	}
	claims, err := token.AsMap(r.Context())
	if err != nil {
		return auth.ErrInvalidToken
	}
	if tokenType, ok := claims["type"].(string); !ok || tokenType != "access" {
		return auth.ErrInvalidToken
	}
	return nil
}
