// Package session attaches the browser tab's session ID to each request.
package session

import (
	"context"
	"net/http"
	"regexp"
	"strings"
)

const (
	HeaderName   = "X-Session-ID"
	QueryParam   = "session_id"
	DefaultValue = "default"
)

type contextKey int

const sessionIDKey contextKey = iota

var idPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// IDFromContext extracts the tab session ID from the request context.
func IDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionIDKey).(string); ok {
		return v
	}
	return DefaultValue
}

// WithID returns a copy of ctx carrying id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, Sanitize(id))
}

// Sanitize returns id if it is well formed, DefaultValue otherwise.
func Sanitize(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || !idPattern.MatchString(id) {
		return DefaultValue
	}
	return id
}

func idFromRequest(r *http.Request) string {
	sid := r.Header.Get(HeaderName)
	if sid == "" {
		sid = r.URL.Query().Get(QueryParam)
	}
	return sid
}

// Middleware injects the per-request tab session ID.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), idFromRequest(r))))
	})
}
