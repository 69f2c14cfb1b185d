package container

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"timeclock/adapters/csvreport"
	"timeclock/adapters/postgres"
	"timeclock/app"
	"timeclock/domain/report"
	"timeclock/domain/timesheet"
	"timeclock/internal"
	"timeclock/internal/config"
	"timeclock/internal/worker"
	"timeclock/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Repositories (data access layer)
	UserRepo    ports.UserRepository
	EntryRepo   ports.TimeEntryRepository
	ProcessRepo ports.ProcessRepository
	Artifacts   ports.ArtifactStore

	// Report generation
	Formatter  *report.Formatter
	Classifier *timesheet.Classifier
	Registry   *app.BuilderRegistry
	Pipeline   *app.ReportPipeline
	Executor   *worker.Executor

	// Services
	Users     *app.UserService
	Timesheet *app.TimesheetService
	Reports   *app.ReportService
	Stats     *app.StatsService
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	return &Container{
		Config: cfg,
		Logger: internal.NewDefaultLogger(),
	}, nil
}

// InitWithDatabase initializes components that require database access
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	c.DB = db

	if err := db.Ping(); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	c.initRepositories()
	c.initReporting()
	c.initServices()

	c.Logger.Info("container initialized with database connection")
	return nil
}

// Start launches background components
func (c *Container) Start() {
	c.Executor.Start()
}

// Shutdown stops background components and closes the database
func (c *Container) Shutdown(ctx context.Context) error {
	if err := c.Executor.Shutdown(ctx); err != nil {
		return err
	}
	return c.DB.Close()
}

func (c *Container) initRepositories() {
	c.UserRepo = postgres.NewUserRepository(c.DB)
	c.EntryRepo = postgres.NewTimeEntryRepository(c.DB)
	c.ProcessRepo = postgres.NewProcessRepository(c.DB)
	c.Artifacts = postgres.NewArtifactRepository(c.DB)
}

func (c *Container) initReporting() {
	loc := c.Config.Report.Location()
	c.Formatter = report.NewFormatter(c.Config.Report.Locale, loc)
	c.Classifier = timesheet.NewClassifier(loc)

	c.Registry = app.NewBuilderRegistry()
	c.Registry.Register(app.KindCSV, csvreport.New(c.EntryRepo, c.ProcessRepo, c.Formatter, c.Classifier))

	c.Pipeline = app.NewReportPipeline(c.ProcessRepo, c.Artifacts, c.Registry, c.Logger)
	c.Executor = worker.New(c.Pipeline, c.Config.Worker, c.Logger)
}

func (c *Container) initServices() {
	c.Users = app.NewUserService(c.UserRepo)
	c.Timesheet = app.NewTimesheetService(c.EntryRepo, c.UserRepo)
	c.Reports = app.NewReportService(c.UserRepo, c.ProcessRepo, c.Artifacts, c.Executor, c.Logger)
	c.Stats = app.NewStatsService(c.UserRepo, c.EntryRepo, c.Config.Report.Location())
}
