// Package audit writes audit events for the auth and user lifecycle.
package audit

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"userauth.dev/internal/auth"
	"userauth.dev/internal/obs"
)

// Events emitted by the service.
const (
	EventLogin         = "auth.login"
	EventLoginFailed   = "auth.login.failed"
	EventRefresh       = "auth.refresh"
	EventRefreshFailed = "auth.refresh.failed"
	EventRecover       = "auth.recover"
	EventRecoverFailed = "auth.recover.failed"
	EventLogout        = "auth.logout"
	EventUserCreate    = "user.create"
	EventUserRemove    = "user.remove"
)

type requestIDKey struct{}

// WithRequestID attaches the request identifier to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request identifier or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}

// LogEvent writes an audit entry enriched with the request id and the
// authenticated caller, when present.
func LogEvent(ctx context.Context, event string, fields map[string]any) error {
	event = strings.TrimSpace(event)
	if event == "" {
		return errors.New("event name is required")
	}
	attrs := []slog.Attr{
		slog.String("type", "audit"),
		slog.String("event", event),
	}
	if rid := RequestIDFromContext(ctx); rid != "" {
		attrs = append(attrs, slog.String("request_id", rid))
	}
	if c, ok := auth.CallerFromContext(ctx); ok {
		attrs = append(attrs, slog.Int64("user_id", c.UserID))
	}
	copyFields := make(map[string]any, len(fields))
	for k, v := range fields {
		copyFields[k] = v
	}
	attrs = append(attrs, slog.Any("fields", copyFields))

	obs.Logger().LogAttrs(ctx, slog.LevelInfo, "audit", attrs...)
	return nil
}
