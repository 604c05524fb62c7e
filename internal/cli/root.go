package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"menu-customizer/internal/customize"
	"menu-customizer/internal/dialog"
	"menu-customizer/internal/format"
	"menu-customizer/internal/logging"
	"menu-customizer/internal/metrics"
	"menu-customizer/internal/model"
	"menu-customizer/internal/reconcile"
	"menu-customizer/internal/store"
	"menu-customizer/internal/tui"
	"menu-customizer/internal/watch"
)

type App struct {
	Dir        string
	HostPath   string
	PrettyJSON bool
	Format     string
	LogLevel   string

	cfg    *store.GlobalConfig
	logger *slog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "menucustom",
		Short:        "Reorder, hide, rename and group a host application's menu items",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive editor
  menucustom --host ./index.html

  # Re-apply the saved customizations to the host document
  menucustom apply --host ./index.html

  # Keep the host document customized while the host rewrites it
  menucustom watch --host ./index.html --metrics-addr :9876

  # Scriptable edits
  menucustom items hide --scope secondary ttsExtensionMenuItem
  menucustom categories add --scope secondary "Media"
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive editor.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("MENUCUSTOM_DIR", ""), "Path to the settings dir (default: config dataDir, then ~/.menucustom/data)")
	cmd.PersistentFlags().StringVar(&app.HostPath, "host", envOr("MENUCUSTOM_HOST", ""), "Path to the host menu document (default: config hostDocument)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("MENUCUSTOM_FORMAT", "json"), "Output format (json|edn|yaml)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr(logging.EnvVarLogLevel, ""), "Log level (debug|info|warn|error)")

	cmd.AddCommand(newApplyCmd(app))
	cmd.AddCommand(newDiscoverCmd(app))
	cmd.AddCommand(newWatchCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newCategoriesCmd(app))
	cmd.AddCommand(newResetCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// init resolves flags against .env, the environment and the global config.
// Precedence: flag, environment, config file, built-in default.
func (app *App) init(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	app.cfg = cfg

	if !cmd.Flags().Changed("dir") {
		app.Dir = firstNonEmpty(app.Dir, os.Getenv("MENUCUSTOM_DIR"), cfg.DataDir)
	}
	if !cmd.Flags().Changed("host") {
		app.HostPath = firstNonEmpty(app.HostPath, os.Getenv("MENUCUSTOM_HOST"), cfg.HostDocument)
	}
	if !cmd.Flags().Changed("log-level") {
		app.LogLevel = firstNonEmpty(app.LogLevel, os.Getenv(logging.EnvVarLogLevel), cfg.LogLevel, "warn")
	}
	if app.Dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return err
		}
		app.Dir = d
	}
	app.logger = logging.NewStructuredLogger(cmd.ErrOrStderr(), app.LogLevel)
	return nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	if app.HostPath == "" {
		return writeErr(cmd, errors.New("no host document; pass --host or set hostDocument in the config"))
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	st := store.Store{Dir: app.Dir}
	ui, err := st.LoadUIState()
	if err != nil {
		ui = &store.UIState{Version: 1}
	}

	bridge := tui.NewBridge()
	s, _, err := app.openSession(ctx, sessionOpts{
		prompter:  bridge,
		notifier:  bridge,
		refreshed: bridge.Refreshed,
		writeHost: true,
		// Log lines would paint over the alternate screen.
		logger: logging.Discard(),
	})
	if err != nil {
		return writeErr(cmd, err)
	}
	s.ApplyAll()

	w := watch.New(app.HostPath, s.HostChanged, watch.WithLogger(logging.Discard()))
	s.Host().Saved = w.Seen
	if err := w.Start(); err != nil {
		return closeSession(ctx, s, writeErr(cmd, err))
	}
	defer func() { _ = w.Stop() }()

	err = tui.Run(ctx, s, tui.Options{
		Bridge:       bridge,
		Store:        st,
		UIState:      ui,
		ScrollMargin: app.cfg.ScrollMargin(),
	})
	return closeSession(ctx, s, err)
}

type sessionOpts struct {
	prompter  dialog.Prompter
	notifier  customize.Notifier
	refreshed func()
	logger    *slog.Logger
	writeHost bool
	metrics   *metrics.Metrics
}

// openSession loads the model and the host document and reconciles the discovered menus.
// Callers must Close the session so pending writes are flushed.
func (app *App) openSession(ctx context.Context, opts sessionOpts) (*customize.Session, map[model.Scope]reconcile.Delta, error) {
	logger := opts.logger
	if logger == nil {
		logger = app.logger
	}
	m, err := store.OpenModel(ctx, store.ModelOpts{
		Store:    store.Store{Dir: app.Dir},
		Debounce: app.cfg.SaveDebounce(),
		Logger:   logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open settings: %w", err)
	}

	var host *customize.Host
	if app.HostPath != "" {
		host, err = customize.OpenHost(app.HostPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open host document: %w", err)
		}
	}

	s := customize.New(customize.Options{
		Model:       m,
		Host:        host,
		Prompter:    opts.prompter,
		Notifier:    opts.notifier,
		Logger:      logger,
		Metrics:     opts.metrics,
		SettleDelay: app.cfg.SettleDelay(),
		WriteHost:   opts.writeHost && host != nil,
		Refreshed:   opts.refreshed,
	})
	deltas, err := s.Open()
	if err != nil {
		_ = s.Close(ctx)
		return nil, nil, err
	}
	return s, deltas, nil
}

func closeSession(ctx context.Context, s *customize.Session, err error) error {
	if cerr := s.Close(ctx); cerr != nil && err == nil {
		return fmt.Errorf("save settings: %w", cerr)
	}
	return err
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func parseScope(s string) (model.Scope, error) {
	scope, ok := model.ParseScope(s)
	if !ok {
		return "", errUnknownScope(s)
	}
	return scope, nil
}

func addScopeFlag(cmd *cobra.Command, scope *string) {
	cmd.Flags().StringVar(scope, "scope", string(model.ScopePrimary), "Menu scope (primaryMenu|secondaryMenu)")
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
