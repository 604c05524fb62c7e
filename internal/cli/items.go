package cli

import (
	"context"

	"github.com/spf13/cobra"

	"menu-customizer/internal/customize"
	"menu-customizer/internal/dialog"
	"menu-customizer/internal/model"
)

// withSession opens a session for one command, runs fn and flushes on the way out.
// Mutating commands pass writeHost so the host document follows the model.
func (app *App) withSession(cmd *cobra.Command, opts sessionOpts, fn func(ctx context.Context, s *customize.Session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, _, err := app.openSession(ctx, opts)
	if err != nil {
		return writeErr(cmd, err)
	}
	err = closeSession(ctx, s, fn(ctx, s))
	if err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List and edit menu items",
	}
	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsHiddenCmd(app, "hide", true))
	cmd.AddCommand(newItemsHiddenCmd(app, "show", false))
	cmd.AddCommand(newItemsRenameCmd(app))
	cmd.AddCommand(newItemsRestoreCmd(app))
	cmd.AddCommand(newItemsMoveCmd(app))
	return cmd
}

func newItemsListCmd(app *App) *cobra.Command {
	var scopeFlag string
	var hiddenOnly bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a menu's items in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := parseScope(scopeFlag)
			if err != nil {
				return writeErr(cmd, err)
			}
			return app.withSession(cmd, sessionOpts{}, func(ctx context.Context, s *customize.Session) error {
				snap, err := s.Snapshot(scope)
				if err != nil {
					return err
				}
				v := newScopeView(scope, snap)
				if hiddenOnly {
					kept := []itemView{}
					for _, it := range v.Items {
						if it.Hidden {
							kept = append(kept, it)
						}
					}
					v.Items = kept
				}
				return writeOut(cmd, app, map[string]any{"data": v})
			})
		},
	}
	addScopeFlag(cmd, &scopeFlag)
	cmd.Flags().BoolVar(&hiddenOnly, "hidden", false, "Only list hidden items")
	return cmd
}

func newItemsHiddenCmd(app *App, use string, hidden bool) *cobra.Command {
	var scopeFlag string
	short := "Show items in the host menu"
	if hidden {
		short = "Hide items from the host menu"
	}
	cmd := &cobra.Command{
		Use:   use + " <item-id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := parseScope(scopeFlag)
			if err != nil {
				return writeErr(cmd, err)
			}
			return app.withSession(cmd, sessionOpts{writeHost: true}, func(ctx context.Context, s *customize.Session) error {
				for _, id := range args {
					if err := s.ToggleHidden(scope, id, hidden); err != nil {
						return err
					}
				}
				return writeItems(cmd, app, s, scope, args)
			})
		},
	}
	addScopeFlag(cmd, &scopeFlag)
	return cmd
}

func newItemsRenameCmd(app *App) *cobra.Command {
	var scopeFlag string
	cmd := &cobra.Command{
		Use:   "rename <item-id> <name>",
		Short: "Give an item a custom label (the original name restores it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := parseScope(scopeFlag)
			if err != nil {
				return writeErr(cmd, err)
			}
			p := dialog.Fixed{Value: args[1]}
			return app.withSession(cmd, sessionOpts{prompter: p, writeHost: true}, func(ctx context.Context, s *customize.Session) error {
				if _, err := s.EditItemName(ctx, scope, args[0]); err != nil {
					return err
				}
				return writeItems(cmd, app, s, scope, args[:1])
			})
		},
	}
	addScopeFlag(cmd, &scopeFlag)
	return cmd
}

func newItemsRestoreCmd(app *App) *cobra.Command {
	var scopeFlag string
	cmd := &cobra.Command{
		Use:   "restore <item-id>...",
		Short: "Drop custom labels",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := parseScope(scopeFlag)
			if err != nil {
				return writeErr(cmd, err)
			}
			return app.withSession(cmd, sessionOpts{writeHost: true}, func(ctx context.Context, s *customize.Session) error {
				for _, id := range args {
					if _, err := s.RestoreItemName(scope, id); err != nil {
						return err
					}
				}
				return writeItems(cmd, app, s, scope, args)
			})
		},
	}
	addScopeFlag(cmd, &scopeFlag)
	return cmd
}

func newItemsMoveCmd(app *App) *cobra.Command {
	var scopeFlag, categoryRef string
	var position int
	cmd := &cobra.Command{
		Use:   "move <item-id>",
		Short: "Move an item to a position, optionally into a category",
		Long: `Move an item to a position, optionally into a category.

--position counts items within the destination (0 is the top). Past the end, or -1,
appends. Without --category the item goes to the top level.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := parseScope(scopeFlag)
			if err != nil {
				return writeErr(cmd, err)
			}
			return app.withSession(cmd, sessionOpts{writeHost: true}, func(ctx context.Context, s *customize.Session) error {
				categoryID := ""
				if categoryRef != "" {
					snap, err := s.Snapshot(scope)
					if err != nil {
						return err
					}
					c, err := resolveCategory(snap, categoryRef)
					if err != nil {
						return err
					}
					categoryID = c.ID
				}
				if err := s.MoveItem(scope, args[0], categoryID, position); err != nil {
					return err
				}
				return writeItems(cmd, app, s, scope, args)
			})
		},
	}
	addScopeFlag(cmd, &scopeFlag)
	cmd.Flags().StringVar(&categoryRef, "category", "", "Destination category (id or name)")
	cmd.Flags().IntVar(&position, "position", -1, "Position within the destination")
	return cmd
}

func writeItems(cmd *cobra.Command, app *App, s *customize.Session, scope model.Scope, ids []string) error {
	snap, err := s.Snapshot(scope)
	if err != nil {
		return err
	}
	out := []itemView{}
	for _, id := range ids {
		it, ok := snap.FindItem(id)
		if !ok {
			return customize.NotFoundError{Kind: "item", ID: id}
		}
		out = append(out, newItemView(&snap, *it))
	}
	return writeOut(cmd, app, map[string]any{"data": out})
}
