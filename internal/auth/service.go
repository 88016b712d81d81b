package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"userauth.dev/internal/apperr"
	"userauth.dev/internal/obs"
	"userauth.dev/internal/users"
)

// Users is the credential store view the auth core needs.
type Users interface {
	FindActiveByEmail(ctx context.Context, email string) (*users.User, error)
	FindInactiveByEmail(ctx context.Context, email string) (*users.User, error)
	GetActive(ctx context.Context, id int64) (*users.User, error)
	Activate(ctx context.Context, id int64) error
}

// Service orchestrates login, refresh, recovery and logout.
type Service struct {
	users  Users
	tokens *Tokens
	store  TokenStore
	hasher *Hasher
}

// NewService wires the auth core.
func NewService(u Users, tokens *Tokens, store TokenStore, hasher *Hasher) *Service {
	return &Service{users: u, tokens: tokens, store: store, hasher: hasher}
}

// Login checks credentials and issues a session. Unknown emails and wrong
// passwords fail with the same Unauthorized message.
func (s *Service) Login(ctx context.Context, req LoginRequest, sess Session) (users.Info, error) {
	u, err := s.users.FindActiveByEmail(ctx, req.Email)
	if err != nil {
		return users.Info{}, s.fail("login", err)
	}
	if u == nil {
		s.hasher.burn(req.Password)
		return users.Info{}, s.fail("login", apperr.New(apperr.ErrUnauthorized, MsgInvalidCredentials))
	}
	if !s.hasher.Compare(u.PasswordHash, req.Password) {
		return users.Info{}, s.fail("login", apperr.New(apperr.ErrUnauthorized, MsgInvalidCredentials))
	}
	info, err := s.Issue(ctx, u.Info(), sess)
	return s.done("login", info, err)
}

// Refresh rotates the session for a valid refresh token that matches the
// stored one. Verification failures become Unauthorized; NotFound and Gone
// from the user lookup pass through.
func (s *Service) Refresh(ctx context.Context, token string, sess Session) (users.Info, error) {
	if strings.TrimSpace(token) == "" {
		return users.Info{}, s.fail("refresh", apperr.New(apperr.ErrUnauthorized, MsgRefreshMissing))
	}
	claims, err := s.tokens.VerifyRefresh(token)
	if err != nil {
		return users.Info{}, s.fail("refresh", apperr.New(apperr.ErrUnauthorized, MsgRefreshFailed))
	}
	id, err := claims.UserID()
	if err != nil {
		return users.Info{}, s.fail("refresh", apperr.New(apperr.ErrUnauthorized, MsgRefreshFailed))
	}

	stored, err := s.store.Get(ctx, id)
	if err != nil {
		return users.Info{}, s.fail("refresh", fmt.Errorf("load refresh token: %w", err))
	}
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(token)) != 1 {
		return users.Info{}, s.fail("refresh", apperr.New(apperr.ErrUnauthorized, MsgRefreshInvalid))
	}

	u, err := s.users.GetActive(ctx, id)
	if err != nil {
		return users.Info{}, s.fail("refresh", err)
	}
	info, err := s.Issue(ctx, u.Info(), sess)
	return s.done("refresh", info, err)
}

// Recover reactivates a soft-deleted account after a password check and
// issues a session.
func (s *Service) Recover(ctx context.Context, req LoginRequest, sess Session) (users.Info, error) {
	u, err := s.users.FindInactiveByEmail(ctx, req.Email)
	if err != nil {
		return users.Info{}, s.fail("recover", err)
	}
	if u == nil {
		return users.Info{}, s.fail("recover", apperr.New(apperr.ErrNotFound, users.MsgNotFound))
	}
	if u.IsActive {
		return users.Info{}, s.fail("recover", apperr.New(apperr.ErrConflict, MsgAlreadyActive))
	}
	if !s.hasher.Compare(u.PasswordHash, req.Password) {
		return users.Info{}, s.fail("recover", apperr.New(apperr.ErrUnauthorized, MsgInvalidCredentials))
	}
	if err := s.users.Activate(ctx, u.ID); err != nil {
		return users.Info{}, s.fail("recover", err)
	}
	u.IsActive = true
	info, err := s.Issue(ctx, u.Info(), sess)
	return s.done("recover", info, err)
}

// Issue mints a token pair, stores the refresh token under the user's key
// (replacing any previous one) and attaches both tokens to the session.
func (s *Service) Issue(ctx context.Context, info users.Info, sess Session) (users.Info, error) {
	pair, err := s.tokens.GenerateTokens(info.ID, info.Email)
	if err != nil {
		return users.Info{}, err
	}
	if err := s.store.Save(ctx, info.ID, pair.Refresh, s.tokens.RefreshTTL()); err != nil {
		return users.Info{}, fmt.Errorf("store refresh token: %w", err)
	}
	sess.Attach(pair)
	return info, nil
}

// Logout drops the caller's refresh token when there is a caller and always
// clears the session. A token store failure is logged, not returned.
func (s *Service) Logout(ctx context.Context, caller *Caller, sess Session) {
	if caller != nil {
		if err := s.store.Delete(ctx, caller.UserID); err != nil {
			obs.Logger().Error("logout: delete refresh token", "user_id", caller.UserID, "err", err)
		}
	}
	sess.Clear()
	obs.ObserveAuth("logout", "ok")
}

// Authenticate resolves an access token to an active caller. Every failure is
// reported as the same Unauthorized error.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*Caller, error) {
	claims, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, apperr.New(apperr.ErrUnauthorized, MsgInvalidSession)
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, apperr.New(apperr.ErrUnauthorized, MsgInvalidSession)
	}
	u, err := s.users.GetActive(ctx, id)
	if err != nil {
		if !apperr.IsDomain(err) {
			obs.Logger().Error("authenticate: load user", "user_id", id, "err", err)
		}
		return nil, apperr.New(apperr.ErrUnauthorized, MsgInvalidSession)
	}
	return &Caller{UserID: u.ID, Email: u.Email}, nil
}

func (s *Service) fail(op string, err error) error {
	obs.ObserveAuth(op, outcome(err))
	return err
}

func (s *Service) done(op string, info users.Info, err error) (users.Info, error) {
	if err != nil {
		return info, s.fail(op, err)
	}
	obs.ObserveAuth(op, "ok")
	return info, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, apperr.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, apperr.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperr.ErrGone):
		return "gone"
	case errors.Is(err, apperr.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
