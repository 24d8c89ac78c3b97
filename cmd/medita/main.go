package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"medita/internal/bootstrap"
	"medita/internal/platform/config"
	apperrors "medita/internal/platform/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	dataPath string
	logLevel string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "medita",
		Short:         "Meditation timer, journal and statistics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dataPath, "data", defaultDataPath(), "data directory")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override log_level: debug|info|warn|error|disabled")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newTimerCmd(flags))
	root.AddCommand(newSessionCmd(flags))
	root.AddCommand(newStatsCmd(flags))
	root.AddCommand(newCalendarCmd(flags))
	root.AddCommand(newExportCmd(flags))
	root.AddCommand(newImportCmd(flags))
	root.AddCommand(newSettingsCmd(flags))
	root.AddCommand(newReminderCmd(flags))
	return root
}

func defaultDataPath() string {
	if env := os.Getenv("MEDITA_DATA"); env != "" {
		return env
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home + string(os.PathSeparator) + "medita"
	}
	return "."
}

func loadApp(flags *rootFlags, logOut io.Writer) (*bootstrap.App, error) {
	cfg, err := config.New(flags.dataPath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, bootstrap.Options{LogOutput: logOut, LogLevel: flags.logLevel})
}

// withApp wires the app for one command and closes it afterwards.
func withApp(flags *rootFlags, cmd *cobra.Command, fn func(app *bootstrap.App) error) error {
	app, err := loadApp(flags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return fn(app)
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(flags, io.Discard)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return bootstrap.RunTUI(app)
		},
	}
}

func newTimerCmd(flags *rootFlags) *cobra.Command {
	timer := &cobra.Command{Use: "timer", Short: "Start, stop and inspect the meditation timer"}

	var minutes int
	var notes string
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start a timed sit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, cmd, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.Start(context.Background(), minutes, notes)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "timer started id=%s planned=%s at=%s\n",
					out.SessionID, time.Duration(out.PlannedSeconds)*time.Second, out.StartedAt.In(app.Location).Format("15:04:05"))
				return nil
			})
		},
	}
	startCmd.Flags().IntVar(&minutes, "minutes", 0, "planned minutes (default from settings)")
	startCmd.Flags().StringVar(&notes, "notes", "", "notes for the session")

	var stopNotes, sessionID string
	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Finish the running timer and record the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, cmd, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.End(context.Background(), sessionID, stopNotes)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded %s id=%s\n", time.Duration(out.DurationSeconds)*time.Second, out.SessionID)
				return nil
			})
		},
	}
	stopCmd.Flags().StringVar(&stopNotes, "notes", "", "notes (replaces the ones given at start)")
	stopCmd.Flags().StringVar(&sessionID, "session-id", "", "only stop if this timer is running")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the running timer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, cmd, func(app *bootstrap.App) error {
				active, err := app.SessionCLI.GetActive(context.Background())
				if errors.Is(err, apperrors.ErrNoActiveSession) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no timer running")
					return nil
				}
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "running id=%s elapsed=%s remaining=%s\n",
					active.SessionID,
					time.Duration(active.ElapsedSeconds)*time.Second,
					time.Duration(active.RemainingSeconds)*time.Second)
				return nil
			})
		},
	}

	timer.AddCommand(startCmd, stopCmd, statusCmd)
	return timer
}

func newSessionCmd(flags *rootFlags) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Manage recorded sessions"}

	var at string
	var duration time.Duration
	var notes string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record a session that was not timed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, cmd, func(app *bootstrap.App) error {
				ts, err := parseMoment(at, app.Location)
				if err != nil {
					return err
				}
				out, err := app.SessionCLI.Add(context.Background(), ts, duration, notes)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s id=%s\n", out.Timestamp.In(app.Location).Format(time.RFC3339), out.ID)
				return nil
			})
		},
	}
	addCmd.Flags().StringVar(&at, "at", "", `start time, "YYYY-MM-DD HH:MM" in the configured zone or RFC 3339`)
	addCmd.Flags().DurationVar(&duration, "duration", 0, "length, e.g. 20m")
	addCmd.Flags().StringVar(&notes, "notes", "", "notes")
	_ = addCmd.MarkFlagRequired("at")
	_ = addCmd.MarkFlagRequired("duration")

	var from, to string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions, oldest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, cmd, func(app *bootstrap.App) error {
				var fromT, toT time.Time
				var err error
				if from != "" {
					if fromT, err = parseDay(from, app.Location); err != nil {
						return err
					}
				}
				if to != "" {
					if toT, err = parseDay(to, app.Location); err != nil {
						return err
					}
					toT = toT.AddDate(0, 0, 1)
				}
				sessions, err := app.SessionCLI.List(context.Background(), fromT, toT)
				if err != nil {
					return err
				}
				if len(sessions) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
					return nil
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				for _, s := range sessions {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Timestamp.In(app.Location).Format("2006-01-02 15:04"), time.Duration(s.DurationSeconds)*time.Second, s.Notes)
				}
				return w.Flush()
			})
		},
	}
	listCmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	listCmd.Flags().StringVar(&to, "to", "", "last day (inclusive), YYYY-MM-DD")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recorded session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, cmd, func(app *bootstrap.App) error {
				if err := app.SessionCLI.Delete(context.Background(), args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}

	session.AddCommand(addCmd, listCmd, deleteCmd)
	return session
}

func newStatsCmd(flags *rootFlags) *cobra.Command {
	var period string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show totals, streaks and time per period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, cmd, func(app *bootstrap.App) error {
				r, err := app.StatsCLI.Report(context.Background(), period)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "sessions:        %d\n", r.Count)
				_, _ = fmt.Fprintf(out, "total time:      %s\n", r.TotalTime)
				_, _ = fmt.Fprintf(out, "average:         %s\n", r.AverageDuration)
				_, _ = fmt.Fprintf(out, "current streak:  %d days\n", r.CurrentStreak)
				_, _ = fmt.Fprintf(out, "longest streak:  %d days\n", r.LongestStreak)
				if r.DailyGoalMinutes > 0 {
					_, _ = fmt.Fprintf(out, "today:           %s of %dm (%.0f%%)\n", time.Duration(r.TodaySeconds)*time.Second, r.DailyGoalMinutes, r.GoalPercent)
				}
				_, _ = fmt.Fprintf(out, "\n%s buckets:\n", r.Period)
				for _, b := range r.Buckets {
					_, _ = fmt.Fprintf(out, "  %s  %s\n", b.Key, time.Duration(b.Seconds)*time.Second)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&period, "period", "daily", "bucket size: daily|weekly|monthly")
	return cmd
}

func newCalendarCmd(flags *rootFlags) *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show minutes per day for one month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, cmd, func(app *bootstrap.App) error {
				var year int
				var m time.Month
				if month != "" {
					parsed, err := time.Parse("2006-01", month)
					if err != nil {
						return fmt.Errorf("%w: month must be YYYY-MM", apperrors.ErrInvalidInput)
					}
					year, m = parsed.Year(), parsed.Month()
				}
				cal, err := app.StatsCLI.Calendar(context.Background(), year, m)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "%s %d  (%d active days, %s)\n", cal.Month, cal.Year, cal.ActiveDays, time.Duration(cal.TotalSeconds)*time.Second)
				for _, d := range cal.Days {
					if d.Sessions == 0 {
						continue
					}
					_, _ = fmt.Fprintf(out, "  %s %s  %d× %s\n", d.Date, d.Weekday.String()[:3], d.Sessions, time.Duration(d.Seconds)*time.Second)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month to show, YYYY-MM (default current)")
	return cmd
}

func newExportCmd(flags *rootFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Write every session to a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, cmd, func(app *bootstrap.App) error {
				out, err := app.TransferCLI.Export(context.Background(), args[0], format)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d sessions to %s (%s)\n", out.Count, out.Path, out.Format)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "json|yaml (default from extension)")
	return cmd
}

func newImportCmd(flags *rootFlags) *cobra.Command {
	var format string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Add sessions from an export file, skipping duplicates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, cmd, func(app *bootstrap.App) error {
				out, err := app.TransferCLI.Import(context.Background(), args[0], format, dryRun)
				if err != nil {
					return err
				}
				verb := "imported"
				if out.DryRun {
					verb = "would import"
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "%s %d of %d (duplicates %d, malformed %d)\n", verb, out.Imported, out.Total, out.Duplicates, out.Malformed)
				for _, p := range out.Problems {
					_, _ = fmt.Fprintf(w, "  %s\n", p)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "json|yaml (default from extension)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be imported without writing")
	return cmd
}

func newSettingsCmd(flags *rootFlags) *cobra.Command {
	settings := &cobra.Command{Use: "settings", Short: "Show or change settings"}

	settings.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.New(flags.dataPath)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, kv := range cfg.Settings.Entries() {
				_, _ = fmt.Fprintf(w, "%s\t%s\n", kv[0], kv[1])
			}
			_, _ = fmt.Fprintf(w, "file\t%s\n", cfg.SettingsPath)
			return w.Flush()
		},
	})

	settings.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New(flags.dataPath)
			if err != nil {
				return err
			}
			value := strings.Join(args[1:], " ")
			if err := cfg.Settings.Set(args[0], value); err != nil {
				return err
			}
			if err := config.Save(cfg.SettingsPath, cfg.Settings); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], value)
			return nil
		},
	})
	return settings
}

func newReminderCmd(flags *rootFlags) *cobra.Command {
	reminder := &cobra.Command{Use: "reminder", Short: "Daily reminder when no session was recorded"}

	reminder.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Send the reminder now if it is due",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, cmd, func(app *bootstrap.App) error {
				out, err := app.ReminderCLI.Check(context.Background())
				if err != nil {
					return err
				}
				status := "not sent: " + out.Reason
				if out.Fired {
					status = "sent"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reminder %s\n", status)
				if !out.NextFire.IsZero() {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "next check at %s\n", out.NextFire.In(app.Location).Format("2006-01-02 15:04"))
				}
				return nil
			})
		},
	})

	reminder.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Keep running and remind at the configured time",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withApp(flags, cmd, func(app *bootstrap.App) error {
				return app.ReminderCLI.Run(ctx)
			})
		},
	})
	return reminder
}

func parseMoment(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return ts, nil
	}
	ts, err := time.ParseInLocation("2006-01-02 15:04", raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time %q must be \"YYYY-MM-DD HH:MM\" or RFC 3339", apperrors.ErrInvalidInput, raw)
	}
	return ts, nil
}

func parseDay(raw string, loc *time.Location) (time.Time, error) {
	ts, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(raw), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day %q must be YYYY-MM-DD", apperrors.ErrInvalidInput, raw)
	}
	return ts, nil
}
