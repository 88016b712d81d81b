package auth

import "errors"

// ErrInvalidToken indicates the token failed signature, method, issuer or expiry checks.
var ErrInvalidToken = errors.New("invalid token")

// Caller-facing messages.
const (
	MsgInvalidCredentials = "invalid email or password"
	MsgRefreshMissing     = "refresh token is missing"
	MsgRefreshInvalid     = "refresh token is invalid"
	MsgRefreshFailed      = "refresh token verification failed"
	MsgAlreadyActive      = "user is already active"
	MsgInvalidSession     = "invalid session"
)
