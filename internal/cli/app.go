package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alexanderramin/wbsdesk/internal/db"
	"github.com/alexanderramin/wbsdesk/internal/repository"
	"github.com/alexanderramin/wbsdesk/internal/service"
	"github.com/alexanderramin/wbsdesk/internal/session"
	"github.com/mattn/go-isatty"
)

// Options are the global flags, resolved before any command runs.
type Options struct {
	DBPath string
	User   string
}

// Services holds every service interface used by the commands.
type Services struct {
	Profiles  service.ProfileService
	Companies service.CompanyService
	Members   service.MemberService
	Projects  service.ProjectService
	Shares    service.CostShareService
	Tasks     service.TaskService
	Import    service.ImportService
}

// App is the state shared by the command tree and the TUI.
type App struct {
	Services

	User    string
	Options Options

	// SessionStore backs Sidebar; the TUI builds its own Sidebar over the
	// same store and Hub.
	SessionStore session.Storage
	Hub          *session.Hub
	Sidebar      *session.Sidebar
	Logger       *slog.Logger

	IsInteractive func() bool
	// Confirm asks a yes/no question. Nil means always yes.
	Confirm func(title string) (bool, error)
	Now     func() time.Time

	// Open connects the app using the global flags before a command runs.
	// Tests wire the app directly and leave it nil.
	Open func(ctx context.Context, opts Options) (*App, error)

	closers []func() error
}

// WireOption tunes Wire.
type WireOption func(*wireConfig)

type wireConfig struct {
	logger   *slog.Logger
	observer service.UseCaseObserver
}

func WithLogger(l *slog.Logger) WireOption {
	return func(c *wireConfig) { c.logger = l }
}

func WithObserver(o service.UseCaseObserver) WireOption {
	return func(c *wireConfig) { c.observer = o }
}

// Wire builds an App over an open database, acting as user. Session
// state is stored per user in the kv_store table.
func Wire(ctx context.Context, database *sql.DB, user string, opts ...WireOption) *App {
	cfg := wireConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	identity := service.StaticIdentity(user)
	members := repository.NewSQLiteMemberRepo(database)
	projects := repository.NewSQLiteProjectRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	store := repository.NewSQLiteKVStore(database, sessionScope(user))
	hub := session.NewHub()

	return &App{
		Services: Services{
			Profiles:  service.NewProfileService(repository.NewSQLiteProfileRepo(database)),
			Companies: service.NewCompanyService(repository.NewSQLiteCompanyRepo(database), members, uow, identity, cfg.observer),
			Members:   service.NewMemberService(members, identity, cfg.observer),
			Projects:  service.NewProjectService(projects, repository.NewSQLiteFavoriteRepo(database), members, identity, cfg.observer),
			Shares:    service.NewCostShareService(repository.NewSQLiteCostShareRepo(database), projects, identity, cfg.observer),
			Tasks:     service.NewTaskService(repository.NewSQLiteTaskRepo(database), uow, identity, cfg.observer),
			Import:    service.NewImportService(uow, identity, cfg.observer),
		},
		User:         user,
		Options:      Options{User: user},
		SessionStore: store,
		Hub:          hub,
		Sidebar:      session.New(ctx, store, session.WithHub(hub), session.WithLogger(cfg.logger)),
		Logger:       cfg.logger,
	}
}

// Open opens the database named in opts and wires an App over it. The
// returned App closes the database in Close.
func Open(ctx context.Context, opts Options, wireOpts ...WireOption) (*App, error) {
	database, err := db.OpenDB(opts.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	app := Wire(ctx, database, opts.User, wireOpts...)
	app.Options = opts
	app.closers = append(app.closers, database.Close)
	return app, nil
}

// adopt takes over the connected state of other.
func (a *App) adopt(other *App) {
	a.Services = other.Services
	a.User = other.User
	a.Options = other.Options
	a.SessionStore = other.SessionStore
	a.Hub = other.Hub
	a.Sidebar = other.Sidebar
	a.Logger = other.Logger
	a.closers = append(a.closers, other.closers...)
}

// Close releases everything Open acquired.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

func (a *App) interactive() bool {
	if a.IsInteractive != nil {
		return a.IsInteractive()
	}
	return false
}

// StdinIsTerminal reports whether stdin is an interactive terminal.
func StdinIsTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

func sessionScope(user string) string {
	if user == "" {
		return "anonymous"
	}
	return "profile:" + user
}
