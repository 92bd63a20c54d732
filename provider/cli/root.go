// Package cli implements the agentcore-gw command-line interface using Cobra.
// It provisions AgentCore gateways, their targets and the identity
// parameters they read, using the same services as the Terraform provider.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raywall/terraform-provider-agentcore/provider/internal/client"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/config"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/log"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/models"
)

// BundleFactory builds the services once the configuration is known.
type BundleFactory func(ctx context.Context, cfg *config.Config) (*models.ConfigurationBundle, error)

// awsBundle builds services on real AWS clients.
func awsBundle(ctx context.Context, cfg *config.Config) (*models.ConfigurationBundle, error) {
	awsClient, err := client.New(ctx, cfg.Region)
	if err != nil {
		return nil, err
	}
	return models.NewConfigurationBundle(models.BackendsFromClient(awsClient), cfg), nil
}

// app carries global flags and the lazily built bundle.
type app struct {
	configPath string
	region     string
	namespace  string
	verbose    bool
	jsonOut    bool

	cfg       *config.Config
	bundle    *models.ConfigurationBundle
	newBundle BundleFactory
}

// services returns the bundle, building it on first use so commands that
// fail validation never touch AWS.
func (a *app) services(ctx context.Context) (*models.ConfigurationBundle, error) {
	if a.bundle != nil {
		return a.bundle, nil
	}
	b, err := a.newBundle(ctx, a.cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing aws clients: %w", err)
	}
	a.bundle = b
	return b, nil
}

func (a *app) loadConfig() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.region != "" {
		cfg.Region = a.region
	}
	if a.namespace != "" {
		cfg.Namespace = a.namespace
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg
	return nil
}

// NewRootCmd returns the command tree. A nil factory uses real AWS clients.
func NewRootCmd(factory BundleFactory) *cobra.Command {
	if factory == nil {
		factory = awsBundle
	}
	a := &app{newBundle: factory}

	root := &cobra.Command{
		Use:   "agentcore-gw",
		Short: "Provision Amazon Bedrock AgentCore gateways",
		Long: `agentcore-gw provisions an AgentCore MCP gateway secured by a Cognito
client-credentials authorizer, registers OpenAPI and Lambda targets on it and
tears everything down again. Deployment state lives in Parameter Store under
the configured namespace.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.Init(log.Options{
				Verbose:    a.verbose,
				JSONFormat: a.jsonOut,
				Stderr:     cmd.ErrOrStderr(),
			})
			return a.loadConfig()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.agentcore-gw/config.yaml)")
	root.PersistentFlags().StringVar(&a.region, "region", "", "AWS region (env: AWS_REGION)")
	root.PersistentFlags().StringVar(&a.namespace, "namespace", "", "Parameter Store namespace (env: AGENTCORE_NAMESPACE)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "output in JSON format")

	root.AddCommand(
		newParamCmd(a),
		newTokenCmd(a),
		newRoleCmd(a),
		newGatewayCmd(a),
		newTargetCmd(a),
		newDeployCmd(a),
		newDestroyCmd(a),
	)
	return root
}

// Execute runs the root command against AWS.
func Execute() error {
	return NewRootCmd(nil).Execute()
}
