package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"creatorhome/internal/app"
	"creatorhome/internal/service"
)

func (r *runner) iconCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "icon <image>",
		Short: "Render an image at every icon size and commit the PNGs",
		Long: `Icon accepts PNG, JPEG or GIF input. Each size is committed separately and
the manifest icon list is updated when the manifest exists.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			return r.withApp(cmd, func(a *app.App) error {
				tok, err := a.Token(r.token)
				if err != nil {
					return err
				}
				res, err := a.Assets.UploadIcon(cmd.Context(), tok, src)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
}

func (r *runner) manifestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Update the fan app's PWA manifest",
	}

	var req service.BumpRequest
	bump := &cobra.Command{
		Use:   "bump",
		Short: "Increment the manifest version, optionally renaming the app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(a *app.App) error {
				tok, err := a.Token(r.token)
				if err != nil {
					return err
				}
				res, err := a.Assets.BumpManifest(cmd.Context(), tok, req)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	bump.Flags().StringVar(&req.Name, "name", "", "app name; also used for short_name unless --short-name is set")
	bump.Flags().StringVar(&req.ShortName, "short-name", "", "app short name")
	bump.Flags().StringVar(&req.ThemeColor, "theme-color", "", "theme color")

	cmd.AddCommand(bump)
	return cmd
}
