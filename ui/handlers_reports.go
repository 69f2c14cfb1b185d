package ui

import (
	"fmt"
	"net/http"
)

// ReportRequest is the trigger payload: an inclusive date window
type ReportRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

func (a *App) handleTriggerReport(w http.ResponseWriter, r *http.Request) {
	userID, err := uuidParam(r, "id", "user")
	if err != nil {
		a.respondError(w, err)
		return
	}

	var req ReportRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		a.respondError(w, err)
		return
	}

	result, err := a.reports.Trigger(r.Context(), userID, req.StartDate, req.EndDate)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respondJSON(w, http.StatusAccepted, result)
}

func (a *App) handleReportStatus(w http.ResponseWriter, r *http.Request) {
	processID, err := uuidParam(r, "process_id", "report process")
	if err != nil {
		a.respondError(w, err)
		return
	}

	result, err := a.reports.Status(r.Context(), processID)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respondJSON(w, http.StatusOK, result)
}

func (a *App) handleReportDownload(w http.ResponseWriter, r *http.Request) {
	processID, err := uuidParam(r, "process_id", "report process")
	if err != nil {
		a.respondError(w, err)
		return
	}

	artifact, err := a.reports.Download(r.Context(), processID)
	if err != nil {
		a.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", artifact.Filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", artifact.ByteSize))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(artifact.Data); err != nil {
		a.logger.Error("failed to write artifact %s: %v", processID, err)
	}
}
