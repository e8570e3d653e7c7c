package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"creatorhome/internal/app"
)

func (r *runner) historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded publishes and stored snapshots",
		Long: `list and snapshot read the publish log kept in Postgres (DB_HOST).
snapshots and show read the snapshot bucket directly (MINIO_ENDPOINT).`,
	}

	var limit, offset int
	list := &cobra.Command{
		Use:   "list",
		Short: "List publishes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(a *app.App) error {
				page, err := a.History.List(cmd.Context(), limit, offset)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tWHEN\tSTATUS\tSHA\tSNAPSHOT")
				for _, ev := range page.Items {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n",
						ev.ID, ev.CreatedAt.In(a.Config.Location()).Format("2006-01-02 15:04:05"),
						ev.Status, ev.ContentSHA, ev.SnapshotKey != "")
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d\n", len(page.Items), page.Total)
				return nil
			})
		},
	}
	list.Flags().IntVar(&limit, "limit", 10, "page size (max 100)")
	list.Flags().IntVar(&offset, "offset", 0, "rows to skip")

	snapshot := &cobra.Command{
		Use:   "snapshot <id>",
		Short: "Print a temporary download URL for a publish's snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(a *app.App) error {
				s, err := a.History.SnapshotURL(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), s.URL)
				fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", s.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
				return nil
			})
		},
	}

	var snapLimit int
	snapshots := &cobra.Command{
		Use:   "snapshots",
		Short: "List stored snapshots of the content document, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(a *app.App) error {
				objs, err := a.History.Snapshots(cmd.Context(), snapLimit)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "KEY\tWHEN\tSIZE")
				for _, o := range objs {
					fmt.Fprintf(tw, "%s\t%s\t%d\n",
						o.Key, o.LastModified.In(a.Config.Location()).Format("2006-01-02 15:04:05"), o.Size)
				}
				return tw.Flush()
			})
		},
	}
	snapshots.Flags().IntVar(&snapLimit, "limit", 10, "max snapshots (max 100)")

	show := &cobra.Command{
		Use:   "show <key>",
		Short: "Print the content stored in a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(a *app.App) error {
				doc, err := a.History.SnapshotContent(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), doc)
			})
		},
	}

	cmd.AddCommand(list, snapshot, snapshots, show)
	return cmd
}
