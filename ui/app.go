package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"timeclock/app"
	"timeclock/internal"
)

// App is the HTTP surface: JSON endpoints for users, time entries and the
// report pipeline (trigger, status polling, artifact download)
type App struct {
	router    *chi.Mux
	users     *app.UserService
	timesheet *app.TimesheetService
	reports   *app.ReportService
	stats     *app.StatsService
	validate  *validator.Validate
	logger    *internal.Logger
}

// NewApp creates the HTTP application
func NewApp(users *app.UserService, timesheet *app.TimesheetService, reports *app.ReportService, stats *app.StatsService, logger *internal.Logger) *App {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}

	a := &App{
		router:    chi.NewRouter(),
		users:     users,
		timesheet: timesheet,
		reports:   reports,
		stats:     stats,
		validate:  validator.New(),
		logger:    logger,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/health", a.handleHealth)

	a.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Get("/", a.handleListUsers)
			r.Post("/", a.handleCreateUser)
			r.Get("/{id}", a.handleGetUser)
			r.Put("/{id}", a.handleUpdateUser)
			r.Delete("/{id}", a.handleDeleteUser)
			r.Get("/{id}/time_entries", a.handleUserTimeEntries)
			r.Post("/{id}/reports", a.handleTriggerReport)
			r.Get("/{id}/work_stats", a.handleWorkStats)
		})

		r.Route("/time_entries", func(r chi.Router) {
			r.Post("/", a.handleCreateTimeEntry)
			r.Get("/{id}", a.handleGetTimeEntry)
			r.Put("/{id}", a.handleUpdateTimeEntry)
			r.Delete("/{id}", a.handleDeleteTimeEntry)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/{process_id}/status", a.handleReportStatus)
			r.Get("/{process_id}/download", a.handleReportDownload)
		})
	})
}

// Handler exposes the router for serving and for tests
func (a *App) Handler() http.Handler {
	return a.router
}

// Start starts the HTTP server
func (a *App) Start(port string) error {
	a.logger.Info("starting timeclock API server on :%s", port)
	return http.ListenAndServe(":"+port, a.router)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
