package cli

import (
	"context"

	"github.com/spf13/cobra"

	"menu-customizer/internal/customize"
	"menu-customizer/internal/model"
	"menu-customizer/internal/project"
	"menu-customizer/internal/reconcile"
)

func newApplyCmd(app *App) *cobra.Command {
	var scopeFlag string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the saved customizations to the host document",
		Long: `Apply the saved customizations to the host document.

Discovers the extensions menu, reconciles the settings with it, then rewrites the
host document so both menus reflect the settings. Running it again changes nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.HostPath == "" {
				return writeErr(cmd, errNoHost("apply"))
			}
			var scopes []model.Scope
			if scopeFlag == "" {
				scopes = model.AllScopes()
			} else {
				scope, err := parseScope(scopeFlag)
				if err != nil {
					return writeErr(cmd, err)
				}
				scopes = []model.Scope{scope}
			}
			return app.withSession(cmd, sessionOpts{writeHost: !dryRun}, func(ctx context.Context, s *customize.Session) error {
				out := map[model.Scope]project.Result{}
				for _, scope := range scopes {
					out[scope] = s.Apply(scope)
				}
				if dryRun {
					return writeOut(cmd, app, map[string]any{
						"data": out,
						"meta": map[string]any{"dryRun": true, "document": s.Host().Doc().String()},
					})
				}
				return writeOut(cmd, app, map[string]any{"data": out})
			})
		},
	}
	cmd.Flags().StringVar(&scopeFlag, "scope", "", "Only apply one scope (default: both)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the resulting document instead of writing it")
	return cmd
}

func newDiscoverCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Scan the extensions menu and reconcile the settings with it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.HostPath == "" {
				return writeErr(cmd, errNoHost("discover"))
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			s, deltas, err := app.openSession(ctx, sessionOpts{})
			if err != nil {
				return writeErr(cmd, err)
			}
			snap, err := s.Snapshot(model.ScopeSecondary)
			if err == nil {
				err = writeOut(cmd, app, map[string]any{
					"data": map[string]any{
						"delta": deltaView(deltas[model.ScopeSecondary]),
						"scope": newScopeView(model.ScopeSecondary, snap),
					},
				})
			}
			if err := closeSession(ctx, s, err); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the stored settings object",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withSession(cmd, sessionOpts{}, func(ctx context.Context, s *customize.Session) error {
				return writeOut(cmd, app, s.Model().Snapshot())
			})
		},
	}
}

func newResetCmd(app *App) *cobra.Command {
	var scopeFlag string
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop every customization of one menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := parseScope(scopeFlag)
			if err != nil {
				return writeErr(cmd, err)
			}
			return app.withSession(cmd, sessionOpts{prompter: confirmPrompter(yes), writeHost: true}, func(ctx context.Context, s *customize.Session) error {
				ok, err := s.ResetScope(ctx, scope)
				if err != nil {
					return err
				}
				if !ok {
					return errNotConfirmed("reset")
				}
				snap, err := s.Snapshot(scope)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": newScopeView(scope, snap)})
			})
		},
	}
	addScopeFlag(cmd, &scopeFlag)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the reset")
	return cmd
}

// deltaView keeps empty deltas as [] rather than null in the output.
func deltaView(d reconcile.Delta) reconcile.Delta {
	if d.Added == nil {
		d.Added = []string{}
	}
	if d.Removed == nil {
		d.Removed = []string{}
	}
	return d
}
