package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func (r *runner) tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the stored GitHub token",
		Long: `The token is kept in a file only the current user can read (TOKEN_FILE).
It needs contents write access to the repository that hosts the fan app.`,
	}

	setCmd := &cobra.Command{
		Use:   "set [token]",
		Short: "Store a token; prompts with masked input when omitted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value string
			if len(args) == 1 {
				value = args[0]
			} else {
				prompt := promptui.Prompt{
					Label: "GitHub token",
					Mask:  '*',
					Validate: func(s string) error {
						if strings.TrimSpace(s) == "" {
							return errors.New("token is required")
						}
						return nil
					},
				}
				v, err := prompt.Run()
				if err != nil {
					return err
				}
				value = v
			}

			if err := r.tokenStore().Set(value); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token saved locally.")
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.tokenStore().Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token cleared.")
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Report whether a token is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := r.tokenStore().Get()
			if err != nil {
				return err
			}
			if tok == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No token stored.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token stored.")
			return nil
		},
	}

	cmd.AddCommand(setCmd, clearCmd, statusCmd)
	return cmd
}
