package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newRoleCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "role",
		Short: "Manage the gateway execution role",
	}
	cmd.AddCommand(newRoleEnsureCmd(a), newRoleDeleteCmd(a))
	return cmd
}

func newRoleEnsureCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "ensure",
		Short: "Create the role if needed and store its ARN",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				name = a.cfg.Gateway.RoleName
			}
			b, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			arn, err := b.IAMService.EnsureGatewayRole(cmd.Context(), name)
			if err != nil {
				return err
			}
			return a.emit(cmd, map[string]string{"role_name": name, "role_arn": arn}, func(w io.Writer) {
				fmt.Fprintf(w, "Role %s ready\n  arn: %s\n", name, arn)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "role name (default from config)")
	return cmd
}

func newRoleDeleteCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the role and its inline policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				name = a.cfg.Gateway.RoleName
			}
			b, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			if err := b.IAMService.DeleteGatewayRole(cmd.Context(), name); err != nil {
				return err
			}
			return a.emit(cmd, map[string]string{"deleted": name}, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted role %s\n", name)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "role name (default from config)")
	return cmd
}
