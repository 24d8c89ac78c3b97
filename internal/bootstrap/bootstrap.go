package bootstrap

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	reminderinadapter "medita/internal/modules/reminder/adapter/in"
	reminderoutadapter "medita/internal/modules/reminder/adapter/out"
	reminderdomain "medita/internal/modules/reminder/domain"
	reminderservice "medita/internal/modules/reminder/service"
	reminderusecase "medita/internal/modules/reminder/usecase"
	sessioninadapter "medita/internal/modules/session/adapter/in"
	sessionoutadapter "medita/internal/modules/session/adapter/out"
	sessionout "medita/internal/modules/session/port/out"
	sessionservice "medita/internal/modules/session/service"
	sessionusecase "medita/internal/modules/session/usecase"
	statsinadapter "medita/internal/modules/stats/adapter/in"
	statsoutadapter "medita/internal/modules/stats/adapter/out"
	statsservice "medita/internal/modules/stats/service"
	statsusecase "medita/internal/modules/stats/usecase"
	transferinadapter "medita/internal/modules/transfer/adapter/in"
	transferoutadapter "medita/internal/modules/transfer/adapter/out"
	transferservice "medita/internal/modules/transfer/service"
	transferusecase "medita/internal/modules/transfer/usecase"
	"medita/internal/platform/clock"
	"medita/internal/platform/config"
	"medita/internal/platform/id"
	"medita/internal/platform/logging"
	uiapp "medita/internal/ui/app"
)

type App struct {
	Config      config.Config
	Location    *time.Location
	Logger      zerolog.Logger
	SessionCLI  sessioninadapter.CLIHandler
	StatsCLI    statsinadapter.CLIHandler
	TransferCLI transferinadapter.CLIHandler
	ReminderCLI reminderinadapter.CLIHandler

	closers []io.Closer
}

// Options override what would otherwise come from the environment.
type Options struct {
	LogOutput io.Writer
	LogLevel  string
	Clock     clock.Clock
}

func New(cfg config.Config, opts Options) (*App, error) {
	loc, err := cfg.Settings.Location()
	if err != nil {
		return nil, err
	}
	level := cfg.Settings.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logOut := opts.LogOutput
	if logOut == nil {
		logOut = io.Discard
	}
	logger := logging.New(logOut, level)
	clk := opts.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}

	store, err := sessionoutadapter.NewSQLiteSessionStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new session store: %w", err)
	}
	var journal sessionout.Journal
	if cfg.Settings.Journal.Enabled {
		journal = sessionoutadapter.NewVaultJournalWriter(cfg.DataPath, loc)
	}
	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(clk, id.UUID{}, store, journal, loc, logging.Component(logger, "session")),
		sessionoutadapter.NewFileActiveSessionStore(cfg.StatePath),
		cfg.Settings.DefaultTimerMinutes,
	)

	statsSvc, err := statsservice.NewStatsService(statsoutadapter.NewSessionSource(sessionUC), clk, loc)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	statsUC := statsusecase.NewInteractor(statsSvc, cfg.Settings.DailyGoalMinutes)

	transferUC := transferusecase.NewInteractor(transferservice.NewTransferService(
		transferoutadapter.NewSessionBridge(sessionUC),
		transferoutadapter.NewFileSystem(),
		clk,
		logging.Component(logger, "transfer"),
	))

	schedule, err := reminderdomain.ParseSchedule(cfg.Settings.Reminder.Enabled, cfg.Settings.Reminder.At)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	reminderUC := reminderusecase.NewInteractor(reminderservice.NewReminderService(
		schedule,
		loc,
		clk,
		reminderoutadapter.NewDesktopNotifier(),
		reminderoutadapter.NewSessionProbe(sessionUC),
		reminderoutadapter.NewFileStateStore(cfg.StatePath),
		logging.Component(logger, "reminder"),
	))

	logger.Debug().Str("data", cfg.DataPath).Str("zone", loc.String()).Msg("app wired")
	return &App{
		Config:      cfg,
		Location:    loc,
		Logger:      logger,
		SessionCLI:  sessioninadapter.NewCLIHandler(sessionUC),
		StatsCLI:    statsinadapter.NewCLIHandler(statsUC),
		TransferCLI: transferinadapter.NewCLIHandler(transferUC),
		ReminderCLI: reminderinadapter.NewCLIHandler(reminderUC),
		closers:     []io.Closer{store},
	}, nil
}

func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.SessionCLI, app.StatsCLI, app.TransferCLI, uiapp.Options{
		Location:            app.Location,
		DefaultTimerMinutes: app.Config.Settings.DefaultTimerMinutes,
		DailyGoalMinutes:    app.Config.Settings.DailyGoalMinutes,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
