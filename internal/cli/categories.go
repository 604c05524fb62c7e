package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"menu-customizer/internal/customize"
	"menu-customizer/internal/dialog"
	"menu-customizer/internal/model"
)

func newCategoriesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Group items into collapsible categories",
	}
	cmd.AddCommand(newCategoriesListCmd(app))
	cmd.AddCommand(newCategoriesAddCmd(app))
	cmd.AddCommand(newCategoriesRenameCmd(app))
	cmd.AddCommand(newCategoriesDeleteCmd(app))
	cmd.AddCommand(newCategoriesAssignCmd(app))
	cmd.AddCommand(newCategoriesUnassignCmd(app))
	cmd.AddCommand(newCategoriesExpandCmd(app, "expand", true))
	cmd.AddCommand(newCategoriesExpandCmd(app, "collapse", false))
	cmd.AddCommand(newCategoriesToggleCmd(app))
	cmd.AddCommand(newCategoriesMoveCmd(app))
	return cmd
}

// categoryCmd wires the shared shape of commands that act on one named category.
func categoryCmd(app *App, use, short string, nargs cobra.PositionalArgs, writeHost bool, p func(args []string) dialog.Prompter,
	run func(ctx context.Context, cmd *cobra.Command, s *customize.Session, scope model.Scope, c model.Category, args []string) error) *cobra.Command {
	var scopeFlag string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  nargs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := parseScope(scopeFlag)
			if err != nil {
				return writeErr(cmd, err)
			}
			opts := sessionOpts{writeHost: writeHost}
			if p != nil {
				opts.prompter = p(args)
			}
			return app.withSession(cmd, opts, func(ctx context.Context, s *customize.Session) error {
				snap, err := s.Snapshot(scope)
				if err != nil {
					return err
				}
				c, err := resolveCategory(snap, args[0])
				if err != nil {
					return err
				}
				return run(ctx, cmd, s, scope, c, args[1:])
			})
		},
	}
	addScopeFlag(cmd, &scopeFlag)
	return cmd
}

func writeCategory(cmd *cobra.Command, app *App, s *customize.Session, scope model.Scope, categoryID string) error {
	snap, err := s.Snapshot(scope)
	if err != nil {
		return err
	}
	c, ok := snap.FindCategory(categoryID)
	if !ok {
		return customize.NotFoundError{Kind: "category", ID: categoryID}
	}
	return writeOut(cmd, app, map[string]any{"data": newCategoryView(&snap, *c)})
}

func newCategoriesListCmd(app *App) *cobra.Command {
	var scopeFlag string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a menu's categories with their items",
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
				return writeOut(cmd, app, map[string]any{"data": newScopeView(scope, snap).Categories})
			})
		},
	}
	addScopeFlag(cmd, &scopeFlag)
	return cmd
}

func newCategoriesAddCmd(app *App) *cobra.Command {
	var scopeFlag string
	var expanded bool
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category (collapsed unless --expanded)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := parseScope(scopeFlag)
			if err != nil {
				return writeErr(cmd, err)
			}
			p := dialog.Fixed{Value: args[0]}
			return app.withSession(cmd, sessionOpts{prompter: p, writeHost: true}, func(ctx context.Context, s *customize.Session) error {
				c, ok, err := s.AddCategory(ctx, scope)
				if err != nil {
					return err
				}
				if !ok {
					return errors.New("category name is empty")
				}
				if expanded {
					if err := s.SetCategoryExpanded(scope, c.ID, true); err != nil {
						return err
					}
				}
				return writeCategory(cmd, app, s, scope, c.ID)
			})
		},
	}
	addScopeFlag(cmd, &scopeFlag)
	cmd.Flags().BoolVar(&expanded, "expanded", false, "Start expanded")
	return cmd
}

func newCategoriesRenameCmd(app *App) *cobra.Command {
	return categoryCmd(app, "rename <category> <name>", "Rename a category", cobra.ExactArgs(2), true,
		func(args []string) dialog.Prompter { return dialog.Fixed{Value: args[1]} },
		func(ctx context.Context, cmd *cobra.Command, s *customize.Session, scope model.Scope, c model.Category, args []string) error {
			if _, err := s.EditCategoryName(ctx, scope, c.ID); err != nil {
				return err
			}
			return writeCategory(cmd, app, s, scope, c.ID)
		})
}

func newCategoriesDeleteCmd(app *App) *cobra.Command {
	var yes bool
	cmd := categoryCmd(app, "delete <category>", "Delete a category; its items are kept", cobra.ExactArgs(1), true,
		func([]string) dialog.Prompter { return confirmPrompter(yes) },
		func(ctx context.Context, cmd *cobra.Command, s *customize.Session, scope model.Scope, c model.Category, args []string) error {
			ok, err := s.DeleteCategory(ctx, scope, c.ID)
			if err != nil {
				return err
			}
			if !ok {
				return errNotConfirmed("delete")
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": c.ID}})
		})
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the deletion")
	return cmd
}

func newCategoriesAssignCmd(app *App) *cobra.Command {
	return categoryCmd(app, "assign <category> <item-id>...", "Add items to a category", cobra.MinimumNArgs(2), true, nil,
		func(ctx context.Context, cmd *cobra.Command, s *customize.Session, scope model.Scope, c model.Category, args []string) error {
			moved, err := s.AddItemsToCategory(scope, c.ID, args)
			if err != nil {
				return err
			}
			snap, err := s.Snapshot(scope)
			if err != nil {
				return err
			}
			cur, ok := snap.FindCategory(c.ID)
			if !ok {
				return customize.NotFoundError{Kind: "category", ID: c.ID}
			}
			return writeOut(cmd, app, map[string]any{
				"data": newCategoryView(&snap, *cur),
				"meta": map[string]any{"moved": moved},
			})
		})
}

func newCategoriesUnassignCmd(app *App) *cobra.Command {
	var scopeFlag string
	cmd := &cobra.Command{
		Use:   "unassign <item-id>...",
		Short: "Move items out of their category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := parseScope(scopeFlag)
			if err != nil {
				return writeErr(cmd, err)
			}
			return app.withSession(cmd, sessionOpts{writeHost: true}, func(ctx context.Context, s *customize.Session) error {
				for _, id := range args {
					if _, err := s.RemoveFromCategory(scope, id); err != nil {
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

func newCategoriesExpandCmd(app *App, use string, expanded bool) *cobra.Command {
	short := "Collapse a category"
	if expanded {
		short = "Expand a category"
	}
	return categoryCmd(app, use+" <category>", short, cobra.ExactArgs(1), true, nil,
		func(ctx context.Context, cmd *cobra.Command, s *customize.Session, scope model.Scope, c model.Category, args []string) error {
			if err := s.SetCategoryExpanded(scope, c.ID, expanded); err != nil {
				return err
			}
			return writeCategory(cmd, app, s, scope, c.ID)
		})
}

func newCategoriesToggleCmd(app *App) *cobra.Command {
	return categoryCmd(app, "toggle <category>", "Click a category's toggle in the host menu", cobra.ExactArgs(1), true, nil,
		func(ctx context.Context, cmd *cobra.Command, s *customize.Session, scope model.Scope, c model.Category, args []string) error {
			if err := s.ToggleCategory(scope, c.ID); err != nil {
				return err
			}
			return writeCategory(cmd, app, s, scope, c.ID)
		})
}

func newCategoriesMoveCmd(app *App) *cobra.Command {
	var position int
	cmd := categoryCmd(app, "move <category>", "Move a category to a position among the categories", cobra.ExactArgs(1), true, nil,
		func(ctx context.Context, cmd *cobra.Command, s *customize.Session, scope model.Scope, c model.Category, args []string) error {
			if err := s.MoveCategory(scope, c.ID, position); err != nil {
				return err
			}
			return writeCategory(cmd, app, s, scope, c.ID)
		})
	cmd.Flags().IntVar(&position, "position", 0, "Position among the categories (0 is the top)")
	return cmd
}

func confirmPrompter(yes bool) dialog.Prompter {
	if yes {
		return dialog.Fixed{Answer: dialog.Affirmative}
	}
	return dialog.Fixed{Answer: dialog.Negative}
}
