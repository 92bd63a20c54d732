package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/raywall/terraform-provider-agentcore/pkg/types"
)

func newDeployCmd(a *app) *cobra.Command {
	var (
		f         openAPIFlags
		noTarget  bool
		retention int32
	)
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Provision role, gateway, log group and OpenAPI target",
		Long: `Run the whole provisioning sequence: ensure the execution role, create or
reuse the gateway, create its log group and register the OpenAPI target.
Every step is idempotent, so deploy can be re-run after a partial failure.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := f.withDefaults(a)
			if err != nil {
				return err
			}
			if noTarget {
				target.SpecSource = ""
			}
			if !cmd.Flags().Changed("log-retention") {
				retention = a.cfg.Logs.RetentionDays
			}
			b, err := a.services(cmd.Context())
			if err != nil {
				return err
			}

			state, derr := b.DeployService.Deploy(cmd.Context(), types.DeploymentSpec{
				RoleName: a.cfg.Gateway.RoleName,
				Gateway: types.GatewaySpec{
					Name:        a.cfg.Gateway.Name,
					Description: a.cfg.Gateway.Description,
				},
				Target:           target,
				Backend:          f.backend,
				LogRetentionDays: retention,
			})
			if err := a.emit(cmd, state, func(w io.Writer) { printDeployment(w, target.TargetName, state) }); err != nil {
				return err
			}
			return derr
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&noTarget, "no-target", false, "skip the OpenAPI target")
	cmd.Flags().Int32Var(&retention, "log-retention", 0, "log group retention in days, 0 skips the log group (default from config)")
	return cmd
}

func printDeployment(w io.Writer, targetName string, s *types.DeploymentState) {
	if s.RoleARN != "" {
		fmt.Fprintf(w, "Role %s\n", s.RoleARN)
	}
	switch {
	case s.Gateway.Gateway != nil:
		printGateway(w, s.Gateway.Outcome, s.Gateway.Gateway)
	case s.Gateway.Outcome == types.OutcomeFailed:
		fmt.Fprintf(w, "Gateway failed: %s\n", s.Gateway.Reason)
	}
	if s.LogGroup != "" {
		fmt.Fprintf(w, "Log group %s\n", s.LogGroup)
	}
	if s.Target != nil {
		printTarget(w, targetName, *s.Target)
	}
}

func newDestroyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "destroy [gateway-id]",
		Short: "Delete targets, gateway, log group and the stored gateway id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			report, derr := b.DeployService.Teardown(cmd.Context(), firstArg(args))
			if report.GatewayID == "" {
				return derr
			}
			if err := a.emit(cmd, report, func(w io.Writer) { printTeardown(w, report) }); err != nil {
				return err
			}
			return derr
		},
	}
}
