package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"creatorhome/internal/app"
	"creatorhome/internal/content"
	"creatorhome/internal/model"
	"creatorhome/internal/service"
)

func (r *runner) loadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Print the published content.json and its sha",
		Long: `Load reads the public content.json and prints it in canonical form on stdout.
With a token, the repository sha is printed on stderr; pass it to publish --sha
to refuse overwriting a newer document.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(a *app.App) error {
				tok, err := a.Token(r.token)
				if err != nil {
					return err
				}
				res, err := a.Content.Load(cmd.Context(), tok)
				if err != nil {
					return err
				}

				b, err := content.Encode(res.Content)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))

				if res.SHA != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "sha: %s\n", res.SHA)
				}
				if res.LastPublish != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "last publish: %s at %s\n",
						res.LastPublish.ID, res.LastPublish.CreatedAt.Format("2006-01-02 15:04:05"))
				}
				return nil
			})
		},
	}
}

func (r *runner) previewCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Validate a content file and print the JSON that would be published",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readContent(file)
			if err != nil {
				return err
			}
			res, err := service.NewContentService(service.ContentOptions{}).Preview(doc)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.JSON)
			fmt.Fprintln(cmd.ErrOrStderr(), res.Status)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "content JSON file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (r *runner) publishCmd() *cobra.Command {
	var file, sha, message string
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Commit a content file as the new content.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readContent(file)
			if err != nil {
				return err
			}
			return r.withApp(cmd, func(a *app.App) error {
				tok, err := a.Token(r.token)
				if err != nil {
					return err
				}
				res, err := a.Content.Publish(cmd.Context(), tok, service.PublishRequest{
					Content: doc,
					BaseSHA: sha,
					Message: message,
				})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "content JSON file")
	cmd.Flags().StringVar(&sha, "sha", "", "sha printed by load; publishing fails if the file moved since")
	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readContent(file string) (model.Content, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return model.Content{}, fmt.Errorf("read content file: %w", err)
	}
	return content.Decode(raw)
}
