package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"staffhub/internal/requestctx"
)

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		ctx := requestctx.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID is the package-local accessor used by the other middleware
// in this chain.
func GetRequestID(ctx context.Context) string {
	return requestctx.GetRequestID(ctx)
}
