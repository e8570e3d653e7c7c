// Package cli implements creatorctl, a terminal front end to the same services the
// dashboard API uses.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"creatorhome/internal/app"
	"creatorhome/internal/config"
	"creatorhome/internal/logging"
	"creatorhome/internal/token"
)

type runner struct {
	opts    app.Options
	token   string
	verbose bool
}

// Execute runs creatorctl against the process environment.
func Execute() error {
	return NewRootCmd(app.Options{}).Execute()
}

// NewRootCmd builds the command tree. opts replaces collaborators in tests.
func NewRootCmd(opts app.Options) *cobra.Command {
	r := &runner{opts: opts}

	root := &cobra.Command{
		Use:   "creatorctl",
		Short: "Publish the creator home page from a terminal",
		Long: `creatorctl loads, previews and publishes the fan app's content.json,
uploads icons and bumps the manifest version, using the same GitHub
repository and token store as the creator dashboard.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&r.token, "token", "", "GitHub token (overrides the stored token)")
	root.PersistentFlags().BoolVarP(&r.verbose, "verbose", "v", false, "print structured logs to stderr")

	root.AddCommand(
		r.loadCmd(),
		r.previewCmd(),
		r.publishCmd(),
		r.tokenCmd(),
		r.iconCmd(),
		r.manifestCmd(),
		r.historyCmd(),
	)
	return root
}

// withApp wires the services for one command and prints the activity it produced,
// whether or not the command succeeded.
func (r *runner) withApp(cmd *cobra.Command, fn func(a *app.App) error) error {
	cfg := config.Load()
	var logOut io.Writer = io.Discard
	if r.verbose {
		logOut = cmd.ErrOrStderr()
	}

	a, err := app.New(cmd.Context(), cfg, logging.New(logOut, cfg.Location()), r.opts)
	if err != nil {
		return err
	}
	defer a.Close()

	err = fn(a)

	entries := a.Activity.Entries(0)
	for i := len(entries) - 1; i >= 0; i-- {
		fmt.Fprintln(cmd.ErrOrStderr(), entries[i].String())
	}
	return err
}

// tokenStore is used by commands that must work before the repository is configured.
func (r *runner) tokenStore() token.Store {
	if r.opts.Tokens != nil {
		return r.opts.Tokens
	}
	return token.NewFileStore(config.Load().TokenFile)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
