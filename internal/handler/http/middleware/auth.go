package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shifttrack/timecard-backend-go/internal/handler/http/response"
	"github.com/shifttrack/timecard-backend-go/internal/pkg/jwt"
)

// AuthRequired rejects requests whose verified token is missing, expired or
// not an access token. It must run after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		if token == nil {
			response.HandleError(w, jwt.ErrInvalidToken)
			return
		}

		if _, err := jwt.FromContext(r.Context()); err != nil {
			response.HandleError(w, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}
