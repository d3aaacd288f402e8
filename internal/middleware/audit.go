package middleware

import (
	"net/http"

	"legalhub/internal/service"
)

// AuditContext attaches the caller's IP address and user agent to the request
// context so audit entries written by services can record them
func AuditContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := service.WithRequestMeta(r.Context(), getIP(r), r.UserAgent())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
