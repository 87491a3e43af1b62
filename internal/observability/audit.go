package observability

import (
	"log/slog"
	"net/http"
)

// Audit emits a request-scoped audit record. Attrs must never contain
// passwords or raw tokens.
func Audit(r *http.Request, event string, attrs ...any) {
	base := []any{
		"event", event,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", r.Header.Get("X-Request-Id"),
	}
	base = append(base, attrs...)
	slog.InfoContext(r.Context(), "audit", base...)
}
