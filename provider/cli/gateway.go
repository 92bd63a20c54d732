package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/raywall/terraform-provider-agentcore/pkg/types"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/models"
)

func newGatewayCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gateway",
		Short: "Create, inspect and delete the gateway",
	}
	cmd.AddCommand(newGatewayCreateCmd(a), newGatewayGetCmd(a), newGatewayDeleteCmd(a))
	return cmd
}

// gatewayID returns args[0] or, without arguments, the stored gateway ID.
func gatewayID(ctx context.Context, b *models.ConfigurationBundle, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	id, err := b.GatewayService.StoredID(ctx)
	if err != nil {
		return "", fmt.Errorf("no gateway id given and none stored: %w", err)
	}
	return id, nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func newGatewayCreateCmd(a *app) *cobra.Command {
	var spec types.GatewaySpec
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create the gateway or return the existing one",
		Long: `Create an MCP gateway with a custom JWT authorizer. The role ARN, discovery
URL and allowed client are read from the namespace parameters unless given.
If a gateway with the same name exists, the stored gateway is returned.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if spec.Name == "" {
				spec.Name = a.cfg.Gateway.Name
			}
			if spec.Description == "" {
				spec.Description = a.cfg.Gateway.Description
			}
			b, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			full, err := b.DeployService.CompleteGatewaySpec(cmd.Context(), spec)
			if err != nil {
				return err
			}
			result, err := b.GatewayService.CreateOrGet(cmd.Context(), full)
			if err != nil {
				return err
			}
			return a.emit(cmd, result, func(w io.Writer) {
				printGateway(w, result.Outcome, result.Gateway)
			})
		},
	}
	cmd.Flags().StringVar(&spec.Name, "name", "", "gateway name (default from config)")
	cmd.Flags().StringVar(&spec.Description, "description", "", "gateway description")
	cmd.Flags().StringVar(&spec.RoleARN, "role-arn", "", "execution role ARN (default: gateway_iam_role parameter)")
	cmd.Flags().StringVar(&spec.DiscoveryURL, "discovery-url", "", "OIDC discovery URL (default: cognito_discovery_url parameter)")
	cmd.Flags().StringSliceVar(&spec.AllowedClientIDs, "allowed-client", nil, "allowed client ID (repeatable; default: machine_client_id parameter)")
	return cmd
}

func newGatewayGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get [gateway-id]",
		Short: "Show a gateway (default: the stored one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			gw, err := b.GatewayService.Get(cmd.Context(), firstArg(args))
			if err != nil {
				return err
			}
			return a.emit(cmd, gw, func(w io.Writer) {
				printGateway(w, "", gw)
			})
		},
	}
}

func newGatewayDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [gateway-id]",
		Short: "Delete every target of the gateway, then the gateway",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			id, err := gatewayID(cmd.Context(), b, firstArg(args))
			if err != nil {
				return err
			}
			report, derr := b.GatewayService.Delete(cmd.Context(), id)
			if err := a.emit(cmd, report, func(w io.Writer) { printTeardown(w, report) }); err != nil {
				return err
			}
			return derr
		},
	}
}
