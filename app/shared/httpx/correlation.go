package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/zrl-league/zrl-manager/app/shared/observability/attr"
)

// CorrelationHeader carries the correlation id between services.
const CorrelationHeader = "X-Correlation-Id"

// CorrelationMiddleware stores a correlation id in the request context. It
// reuses the caller's header, then chi's request id, then a fresh UUID.
func CorrelationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(CorrelationHeader)
		if id == "" {
			id = middleware.GetReqID(r.Context())
		}
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(CorrelationHeader, id)
		next.ServeHTTP(w, r.WithContext(attr.WithCorrelationID(r.Context(), id)))
	})
}
