package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/solsticedigital/backoffice/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags each request with a correlation id. A caller-supplied
// header is honored only when it parses as a UUID; anything else is
// replaced so log queries never key on attacker-chosen strings.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := requestIDFor(r)
			w.Header().Set(requestIDHeader, requestID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, requestID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestIDFor(r *http.Request) string {
	if supplied, err := uuid.Parse(r.Header.Get(requestIDHeader)); err == nil {
		return supplied.String()
	}
	return uuid.NewString()
}
