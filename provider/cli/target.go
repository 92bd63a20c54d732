package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/raywall/terraform-provider-agentcore/pkg/types"
)

func newTargetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "target",
		Short: "Register and list gateway targets",
	}
	cmd.AddCommand(newTargetAddOpenAPICmd(a), newTargetAddLambdaCmd(a), newTargetListCmd(a))
	return cmd
}

type openAPIFlags struct {
	gatewayID string
	spec      types.OpenAPITargetSpec
	location  string
	backend   types.BackendRef
}

func (f *openAPIFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.gatewayID, "gateway-id", "", "gateway ID (default: stored gateway_id)")
	cmd.Flags().StringVar(&f.spec.TargetName, "name", "", "target name (default from config)")
	cmd.Flags().StringVar(&f.spec.Description, "description", "", "target description")
	cmd.Flags().StringVar(&f.spec.SpecSource, "spec", "", "OpenAPI file or s3://bucket/key (default from config)")
	cmd.Flags().StringVar(&f.backend.URL, "backend-url", "", "server URL patched into the document")
	cmd.Flags().StringVar(&f.backend.RestAPIID, "rest-api-id", "", "REST API whose stage URL is the backend")
	cmd.Flags().StringVar(&f.backend.Stage, "stage", "", "stage of --rest-api-id")
	cmd.Flags().StringVar(&f.backend.HTTPAPIID, "http-api-id", "", "HTTP API whose endpoint is the backend")
	cmd.Flags().StringVar(&f.spec.CredentialProviderName, "credential-provider", "", "API key credential provider name (default from config)")
	cmd.Flags().StringVar(&f.spec.APIKeyRef, "api-key-ref", "", "ssm://, secretsmanager:// or apigateway:// reference (default: api_key parameter)")
	cmd.Flags().StringVar(&f.location, "location", "", "where the key is sent: QUERY_PARAMETER or HEADER")
	cmd.Flags().StringVar(&f.spec.CredentialParameterName, "parameter-name", "", "query parameter or header name")
	cmd.Flags().StringVar(&f.spec.CredentialPrefix, "prefix", "", "prefix prepended to the key value")
	cmd.MarkFlagsMutuallyExclusive("backend-url", "rest-api-id", "http-api-id")
	cmd.MarkFlagsRequiredTogether("rest-api-id", "stage")
}

// withDefaults fills empty fields from the target section of the config.
func (f *openAPIFlags) withDefaults(a *app) (types.OpenAPITargetSpec, error) {
	spec := f.spec
	t := a.cfg.Target
	if spec.TargetName == "" {
		spec.TargetName = t.Name
	}
	if spec.Description == "" {
		spec.Description = t.Description
	}
	if spec.SpecSource == "" {
		spec.SpecSource = t.SpecPath
	}
	if spec.CredentialProviderName == "" {
		spec.CredentialProviderName = t.CredentialProviderName
	}
	if spec.APIKeyRef == "" {
		spec.APIKeyRef = t.APIKeyRef
	}
	if spec.CredentialParameterName == "" {
		spec.CredentialParameterName = t.CredentialParameterName
	}
	if spec.CredentialPrefix == "" {
		spec.CredentialPrefix = t.CredentialPrefix
	}
	location := f.location
	if location == "" {
		location = t.CredentialLocation
	}
	loc, err := types.ParseCredentialLocation(location)
	if err != nil {
		return spec, err
	}
	spec.CredentialLocation = loc
	return spec, nil
}

func newTargetAddOpenAPICmd(a *app) *cobra.Command {
	f := &openAPIFlags{}
	cmd := &cobra.Command{
		Use:   "add-openapi",
		Short: "Register an OpenAPI target with API key authentication",
		Long: `Register an OpenAPI backend as a gateway target. The first document of the
specification array gets its first server URL replaced by the backend URL,
which is taken from --backend-url, a REST API stage, an HTTP API or the
apigateway_url parameter. The API key credential provider is created when
missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := f.withDefaults(a)
			if err != nil {
				return err
			}
			b, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			if spec.GatewayID, err = gatewayID(cmd.Context(), b, f.gatewayID); err != nil {
				return err
			}
			if spec.BackendURL, err = b.DeployService.EndpointService.Resolve(cmd.Context(), f.backend); err != nil {
				return err
			}
			result, err := b.TargetService.RegisterOpenAPI(cmd.Context(), spec)
			if err != nil {
				return err
			}
			return a.emit(cmd, result, func(w io.Writer) {
				printTarget(w, spec.TargetName, result)
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newTargetAddLambdaCmd(a *app) *cobra.Command {
	var (
		gwID string
		spec types.LambdaTargetSpec
	)
	cmd := &cobra.Command{
		Use:   "add-lambda",
		Short: "Expose a Lambda function as MCP tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if spec.TargetName == "" {
				spec.TargetName = spec.FunctionName + "-tools"
			}
			b, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			if spec.GatewayID, err = gatewayID(cmd.Context(), b, gwID); err != nil {
				return err
			}
			result, err := b.TargetService.RegisterLambda(cmd.Context(), spec)
			if err != nil {
				return err
			}
			return a.emit(cmd, result, func(w io.Writer) {
				printTarget(w, spec.TargetName, result)
			})
		},
	}
	cmd.Flags().StringVar(&gwID, "gateway-id", "", "gateway ID (default: stored gateway_id)")
	cmd.Flags().StringVar(&spec.FunctionName, "function", "", "Lambda function name or ARN")
	cmd.Flags().StringVar(&spec.ToolSchemaPath, "tools", "", "JSON array of tool definitions (file or s3:// URI)")
	cmd.Flags().StringVar(&spec.TargetName, "name", "", "target name (default: <function>-tools)")
	cmd.Flags().StringVar(&spec.Description, "description", "", "target description")
	_ = cmd.MarkFlagRequired("function")
	_ = cmd.MarkFlagRequired("tools")
	return cmd
}

func newTargetListCmd(a *app) *cobra.Command {
	var gwID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the targets of a gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			id, err := gatewayID(cmd.Context(), b, gwID)
			if err != nil {
				return err
			}
			targets, err := b.TargetService.List(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.emit(cmd, targets, func(out io.Writer) {
				if len(targets) == 0 {
					fmt.Fprintln(out, "No targets found")
					return
				}
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TARGET ID\tNAME\tSTATUS")
				for _, t := range targets {
					fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, t.Name, t.Status)
				}
				_ = w.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&gwID, "gateway-id", "", "gateway ID (default: stored gateway_id)")
	return cmd
}
