package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"userauth.dev/internal/audit"
	"userauth.dev/internal/users"
)

func (a *API) handleUsersCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listUsers(w, r)
	case http.MethodPost:
		a.createUser(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleUserResource(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/users/"), "/")
	if raw == "" || strings.Contains(raw, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid user id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.getUser(w, r, id)
	case http.MethodDelete:
		a.removeUser(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodDelete)
	}
}

func (a *API) listUsers(w http.ResponseWriter, r *http.Request) {
	list, err := a.users.List(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// createUser signs a user up and opens a session for them.
func (a *API) createUser(w http.ResponseWriter, r *http.Request) {
	var req users.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	info, err := a.users.Create(r.Context(), req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), audit.EventUserCreate, map[string]any{"user_id": info.ID, "email": info.Email})

	if _, err := a.auth.Issue(r.Context(), info, a.cookies.For(w)); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/users/"+strconv.FormatInt(info.ID, 10))
	writeJSON(w, http.StatusCreated, info)
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request, id int64) {
	info, err := a.users.Get(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (a *API) removeUser(w http.ResponseWriter, r *http.Request, id int64) {
	if err := a.users.Remove(r.Context(), id); err != nil {
		writeAppError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), audit.EventUserRemove, map[string]any{"target_id": id})
	w.WriteHeader(http.StatusNoContent)
}
