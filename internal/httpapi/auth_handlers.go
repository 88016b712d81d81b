package httpapi

import (
	"net/http"

	"userauth.dev/internal/apperr"
	"userauth.dev/internal/audit"
	"userauth.dev/internal/auth"
)

type messageResponse struct {
	Message string `json:"message"`
}

func (a *API) readLogin(w http.ResponseWriter, r *http.Request) (auth.LoginRequest, bool) {
	var req auth.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return req, false
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return req, false
	}
	return req, true
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	req, ok := a.readLogin(w, r)
	if !ok {
		return
	}

	info, err := a.auth.Login(r.Context(), req, a.cookies.For(w))
	if err != nil {
		_ = audit.LogEvent(r.Context(), audit.EventLoginFailed, map[string]any{
			"email":  req.Email,
			"reason": err.Error(),
		})
		writeAppError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), audit.EventLogin, map[string]any{"user_id": info.ID})
	writeJSON(w, http.StatusOK, info)
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	info, err := a.auth.Refresh(r.Context(), a.cookies.RefreshToken(r), a.cookies.For(w))
	if err != nil {
		_ = audit.LogEvent(r.Context(), audit.EventRefreshFailed, map[string]any{"reason": err.Error()})
		writeAppError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), audit.EventRefresh, map[string]any{"user_id": info.ID})
	writeJSON(w, http.StatusOK, info)
}

func (a *API) handleRecover(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	req, ok := a.readLogin(w, r)
	if !ok {
		return
	}

	info, err := a.auth.Recover(r.Context(), req, a.cookies.For(w))
	if err != nil {
		_ = audit.LogEvent(r.Context(), audit.EventRecoverFailed, map[string]any{
			"email":  req.Email,
			"reason": err.Error(),
		})
		writeAppError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), audit.EventRecover, map[string]any{"user_id": info.ID})
	writeJSON(w, http.StatusOK, info)
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	caller := a.optionalCaller(r)
	ctx := auth.ContextWithCaller(r.Context(), caller)
	a.auth.Logout(ctx, caller, a.cookies.For(w))
	_ = audit.LogEvent(ctx, audit.EventLogout, map[string]any{"session": caller != nil})
	writeJSON(w, http.StatusOK, messageResponse{Message: "logged out"})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		writeAppError(w, r, apperr.New(apperr.ErrUnauthorized, auth.MsgInvalidSession))
		return
	}
	info, err := a.users.Get(r.Context(), caller.UserID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
