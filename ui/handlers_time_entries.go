package ui

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"timeclock/app"
)

// TimeEntryRequest is the create payload for a time entry. ClockOut may be
// omitted for a clock-in.
type TimeEntryRequest struct {
	UserID   uuid.UUID  `json:"user_id" validate:"required"`
	ClockIn  time.Time  `json:"clock_in" validate:"required"`
	ClockOut *time.Time `json:"clock_out"`
}

// TimeEntryUpdateRequest is the update payload. Omitting clock_out leaves
// the entry open; setting it records the clock-out.
type TimeEntryUpdateRequest struct {
	ClockIn  time.Time  `json:"clock_in" validate:"required"`
	ClockOut *time.Time `json:"clock_out"`
}

func (a *App) handleCreateTimeEntry(w http.ResponseWriter, r *http.Request) {
	var req TimeEntryRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		a.respondError(w, err)
		return
	}

	entry, err := a.timesheet.Create(r.Context(), app.TimeEntryInput{
		UserID:   req.UserID,
		ClockIn:  req.ClockIn,
		ClockOut: req.ClockOut,
	})
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respondJSON(w, http.StatusCreated, entry)
}

func (a *App) handleGetTimeEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id", "time entry")
	if err != nil {
		a.respondError(w, err)
		return
	}

	entry, err := a.timesheet.Get(r.Context(), id)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respondJSON(w, http.StatusOK, entry)
}

func (a *App) handleUpdateTimeEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id", "time entry")
	if err != nil {
		a.respondError(w, err)
		return
	}

	var req TimeEntryUpdateRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		a.respondError(w, err)
		return
	}

	entry, err := a.timesheet.Update(r.Context(), id, req.ClockIn, req.ClockOut)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respondJSON(w, http.StatusOK, entry)
}

func (a *App) handleDeleteTimeEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id", "time entry")
	if err != nil {
		a.respondError(w, err)
		return
	}

	if err := a.timesheet.Delete(r.Context(), id); err != nil {
		a.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
