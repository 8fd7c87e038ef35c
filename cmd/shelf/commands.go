package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/shelf/internal/app"
	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/library"
	"github.com/five82/shelf/internal/prefs"
)

// cli carries flag values and the deps loader shared by all commands.
type cli struct {
	configPath   string
	prefsPath    string
	token        string
	callbackAddr string
	refresh      int

	// deps builds an authenticated set of collaborators for a subcommand.
	deps func(ctx context.Context) (*app.Deps, func(), error)
}

func newCLI() *cli {
	c := &cli{}
	c.deps = c.loadDeps
	return c
}

func (c *cli) loadDeps(ctx context.Context) (*app.Deps, func(), error) {
	config.LoadDotEnv(".")
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	closeLog, err := app.SetupLogging(cfg.LogFile)
	if err != nil {
		return nil, nil, err
	}
	d, err := app.NewDeps(cfg)
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	if err := app.Authenticate(ctx, d, app.TokenLocation(nil, c.token)); err != nil {
		closeLog()
		return nil, nil, err
	}
	return d, closeLog, nil
}

// withDeps runs fn with authenticated deps and releases them afterwards.
func (c *cli) withDeps(cmd *cobra.Command, fn func(*app.Deps) error) error {
	d, done, err := c.deps(cmd.Context())
	if err != nil {
		return err
	}
	if done != nil {
		defer done()
	}
	return fn(d)
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "shelf",
		Short:         "Track the books you want, own, have read and have lent out",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath:   c.configPath,
				PrefsPath:    c.prefsPath,
				RefreshEvery: c.refresh,
				Token:        c.token,
				CallbackAddr: c.callbackAddr,
				Out:          cmd.OutOrStdout(),
			})
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "override config path (optional)")
	pf.StringVar(&c.token, "token", "", "session token returned by the login page")
	pf.StringVar(&c.prefsPath, "prefs", "", "override preferences path (optional)")

	f := root.Flags()
	f.IntVar(&c.refresh, "refresh", 0, "background refresh interval in seconds (0 disables)")
	f.StringVar(&c.callbackAddr, "callback", "", "loopback address for the login return (default: random port)")

	root.AddCommand(
		newListCmd(c),
		newSearchCmd(c),
		newAddCmd(c),
		newSetStatusCmd(c),
		newDeleteCmd(c),
	)
	return root
}

func newListCmd(c *cli) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the books in your library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filter library.Status
			if status != "" {
				s, err := library.ParseStatus(status)
				if err != nil {
					return err
				}
				filter = s
			}
			return c.withDeps(cmd, func(d *app.Deps) error {
				books, err := d.Library.List(cmd.Context())
				if err != nil {
					return err
				}
				p, _ := prefs.Load(c.prefsPath)
				books = library.Sort(library.FilterByStatus(books, filter), p.SortOrder())
				newPrinter(cmd.OutOrStdout(), c.prefsPath).books(books)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only show books with this status (want_to_read, bought, read, lent)")
	return cmd
}

func newSearchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if !catalog.ValidQuery(query) {
				return fmt.Errorf("query must be at least %d characters", catalog.MinQueryLength)
			}
			return c.withDeps(cmd, func(d *app.Deps) error {
				volumes, err := d.Catalog.Search(cmd.Context(), query)
				if err != nil {
					return err
				}
				newPrinter(cmd.OutOrStdout(), c.prefsPath).volumes(query, volumes)
				return nil
			})
		},
	}
}

func newAddCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "add <catalog-id>",
		Short: "Add a catalog volume to your library as want to read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDeps(cmd, func(d *app.Deps) error {
				v, err := d.Catalog.Volume(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				book, err := d.Library.Add(cmd.Context(), v.Draft())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %q (id %s)\n", book.Title, book.ID)
				return nil
			})
		},
	}
}

func newSetStatusCmd(c *cli) *cobra.Command {
	var lentTo string
	cmd := &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Change the status of a book",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := library.ParseStatus(args[1])
			if err != nil {
				return err
			}
			change := library.Change{Status: status, LentTo: lentTo}.Normalize()
			return c.withDeps(cmd, func(d *app.Deps) error {
				book, err := d.Library.Update(cmd.Context(), args[0], change)
				if err != nil {
					return err
				}
				msg := fmt.Sprintf("Updated %q: %s", book.Title, book.Status.Label())
				if book.LentTo != "" {
					msg += " to " + book.LentTo
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&lentTo, "lent-to", "", "borrower name (only kept for status lent)")
	return cmd
}

func newDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a book from your library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDeps(cmd, func(d *app.Deps) error {
				if err := d.Library.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
				return nil
			})
		},
	}
}
