package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/terraform-plugin-sdk/v2/diag"
	"github.com/hashicorp/terraform-plugin-sdk/v2/helper/schema"

	"github.com/raywall/terraform-provider-agentcore/provider/internal/client"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/config"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/models"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/resource"
)

// Provider returns the schema and resources map.
func Provider() *schema.Provider {
	return &schema.Provider{
		Schema: map[string]*schema.Schema{
			"region": {
				Type:        schema.TypeString,
				Optional:    true,
				DefaultFunc: schema.EnvDefaultFunc("AWS_REGION", "us-east-1"),
				Description: "AWS region to use for resources",
			},
			"namespace": {
				Type:        schema.TypeString,
				Optional:    true,
				DefaultFunc: schema.EnvDefaultFunc("AGENTCORE_NAMESPACE", config.DefaultNamespace),
				Description: "Parameter Store path prefix holding the deployment parameters.",
			},
			"token_timeout": {
				Type:        schema.TypeInt,
				Optional:    true,
				Default:     30,
				Description: "Timeout in seconds for the client-credentials token request.",
			},
		},
		ResourcesMap: map[string]*schema.Resource{
			"agentcore_gateway":        resource.ResourceGateway(),
			"agentcore_gateway_target": resource.ResourceGatewayTarget(),
		},
		ConfigureContextFunc: providerConfigure,
	}
}

// configFromResourceData maps the provider block onto the shared config.
func configFromResourceData(d *schema.ResourceData) (*config.Config, error) {
	cfg := config.Default()
	cfg.Region = d.Get("region").(string)
	cfg.Namespace = d.Get("namespace").(string)
	if v, ok := d.Get("token_timeout").(int); ok && v > 0 {
		cfg.Token.Timeout = time.Duration(v) * time.Second
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func providerConfigure(ctx context.Context, d *schema.ResourceData) (interface{}, diag.Diagnostics) {
	cfg, err := configFromResourceData(d)
	if err != nil {
		return nil, diag.FromErr(fmt.Errorf("invalid provider configuration: %w", err))
	}

	awsClient, err := client.New(ctx, cfg.Region)
	if err != nil {
		return nil, diag.FromErr(fmt.Errorf("failed to create aws client: %w", err))
	}

	return models.NewConfigurationBundle(models.BackendsFromClient(awsClient), cfg), nil
}
