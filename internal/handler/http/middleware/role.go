package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shifttrack/timecard-backend-go/internal/handler/http/response"
	"github.com/shifttrack/timecard-backend-go/internal/pkg/jwt"
)

// RequireManager requires manager or owner role
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := jwt.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		if !identity.Role.CanManage() {
			response.HandleError(w, jwt.ErrManagerAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireSelfOrManager lets employees through only for their own
// {employeeID}; managers and owners may read anyone.
func RequireSelfOrManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := jwt.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		if !identity.Role.CanManage() && identity.EmployeeID != chi.URLParam(r, "employeeID") {
			response.HandleError(w, jwt.ErrEmployeeMismatch)
			return
		}

		next.ServeHTTP(w, r)
	})
}
