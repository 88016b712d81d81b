package auth

import "context"

// Caller is the authenticated identity resolved from the access token.
type Caller struct {
	UserID int64
	Email  string
}

type callerContextKey struct{}

// ContextWithCaller attaches the caller to the context.
func ContextWithCaller(ctx context.Context, c *Caller) context.Context {
	if c == nil {
		return ctx
	}
	return context.WithValue(ctx, callerContextKey{}, c)
}

// CallerFromContext extracts the caller attached by ContextWithCaller.
func CallerFromContext(ctx context.Context) (*Caller, bool) {
	if ctx == nil {
		return nil, false
	}
	c, ok := ctx.Value(callerContextKey{}).(*Caller)
	return c, ok && c != nil
}
