package ui

import (
	"net/http"
)

// UserRequest is the create/update payload for a user
type UserRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

func (a *App) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		a.respondError(w, err)
		return
	}

	user, err := a.users.Create(r.Context(), req.Name, req.Email)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respondJSON(w, http.StatusCreated, user)
}

func (a *App) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.users.List(r.Context())
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respondJSON(w, http.StatusOK, users)
}

func (a *App) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id", "user")
	if err != nil {
		a.respondError(w, err)
		return
	}

	user, err := a.users.Get(r.Context(), id)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respondJSON(w, http.StatusOK, user)
}

func (a *App) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id", "user")
	if err != nil {
		a.respondError(w, err)
		return
	}

	var req UserRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		a.respondError(w, err)
		return
	}

	user, err := a.users.Update(r.Context(), id, req.Name, req.Email)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respondJSON(w, http.StatusOK, user)
}

func (a *App) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id", "user")
	if err != nil {
		a.respondError(w, err)
		return
	}

	if err := a.users.Delete(r.Context(), id); err != nil {
		a.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) handleUserTimeEntries(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id", "user")
	if err != nil {
		a.respondError(w, err)
		return
	}

	entries, err := a.timesheet.ListByUser(r.Context(), id)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respondJSON(w, http.StatusOK, entries)
}

func (a *App) handleWorkStats(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id", "user")
	if err != nil {
		a.respondError(w, err)
		return
	}

	result, err := a.stats.WorkStats(r.Context(), id, r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date"))
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respondJSON(w, http.StatusOK, result)
}
