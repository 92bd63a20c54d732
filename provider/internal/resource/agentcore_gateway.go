package resource

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/terraform-plugin-sdk/v2/diag"
	"github.com/hashicorp/terraform-plugin-sdk/v2/helper/schema"

	"github.com/raywall/terraform-provider-agentcore/pkg/types"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/repository"
)

// ResourceGateway defines agentcore_gateway. Every argument forces a new
// gateway; the service has no update path.
func ResourceGateway() *schema.Resource {
	return &schema.Resource{
		Description:   "AgentCore MCP gateway with a custom JWT authorizer.",
		CreateContext: resourceGatewayCreate,
		ReadContext:   resourceGatewayRead,
		DeleteContext: resourceGatewayDelete,
		Importer: &schema.ResourceImporter{
			StateContext: schema.ImportStatePassthroughContext,
		},
		Schema: map[string]*schema.Schema{
			"name": {
				Type:     schema.TypeString,
				Required: true,
				ForceNew: true,
			},
			"description": {
				Type:     schema.TypeString,
				Optional: true,
				ForceNew: true,
			},
			"role_arn": {
				Type:        schema.TypeString,
				Optional:    true,
				Computed:    true,
				ForceNew:    true,
				Description: "Execution role. Defaults to the gateway_iam_role parameter.",
			},
			"discovery_url": {
				Type:        schema.TypeString,
				Optional:    true,
				Computed:    true,
				ForceNew:    true,
				Description: "OIDC discovery URL. Defaults to the cognito_discovery_url parameter.",
			},
			"allowed_clients": {
				Type:        schema.TypeList,
				Optional:    true,
				Computed:    true,
				ForceNew:    true,
				Description: "Client IDs accepted by the authorizer. Defaults to the machine_client_id parameter.",
				Elem:        &schema.Schema{Type: schema.TypeString},
			},
			"gateway_id":  {Type: schema.TypeString, Computed: true},
			"gateway_url": {Type: schema.TypeString, Computed: true},
			"gateway_arn": {Type: schema.TypeString, Computed: true},
			"outcome":     {Type: schema.TypeString, Computed: true},
		},
	}
}

func resourceGatewayCreate(ctx context.Context, d *schema.ResourceData, m interface{}) diag.Diagnostics {
	bundle, err := bundleFrom(m)
	if err != nil {
		return diag.FromErr(err)
	}

	spec, err := bundle.DeployService.CompleteGatewaySpec(ctx, types.GatewaySpec{
		Name:             d.Get("name").(string),
		Description:      d.Get("description").(string),
		RoleARN:          d.Get("role_arn").(string),
		DiscoveryURL:     d.Get("discovery_url").(string),
		AllowedClientIDs: expandStrings(d.Get("allowed_clients").([]interface{})),
	})
	if err != nil {
		return diag.FromErr(err)
	}

	result, err := bundle.GatewayService.CreateOrGet(ctx, spec)
	if result.Gateway != nil {
		d.SetId(result.Gateway.ID)
		_ = d.Set("outcome", string(result.Outcome))
		_ = d.Set("role_arn", spec.RoleARN)
		setGateway(d, result.Gateway)
	}
	if err != nil {
		return diag.FromErr(fmt.Errorf("gateway setup failed: %w", err))
	}
	return nil
}

func resourceGatewayRead(ctx context.Context, d *schema.ResourceData, m interface{}) diag.Diagnostics {
	bundle, err := bundleFrom(m)
	if err != nil {
		return diag.FromErr(err)
	}

	gw, err := bundle.GatewayService.Get(ctx, d.Id())
	if repository.IsNotFound(err) {
		d.SetId("")
		return nil
	}
	if err != nil {
		return diag.FromErr(fmt.Errorf("failed reading gateway %s: %w", d.Id(), err))
	}
	_ = d.Set("name", gw.Name)
	setGateway(d, gw)
	return nil
}

func resourceGatewayDelete(ctx context.Context, d *schema.ResourceData, m interface{}) diag.Diagnostics {
	bundle, err := bundleFrom(m)
	if err != nil {
		return diag.FromErr(err)
	}

	report, err := bundle.DeployService.Teardown(ctx, d.Id())
	if err != nil {
		if len(report.FailedTargets) > 0 {
			err = fmt.Errorf("targets %s: %w", strings.Join(report.FailedTargets, ", "), err)
		}
		return diag.FromErr(fmt.Errorf("gateway teardown failed: %w", err))
	}
	d.SetId("")
	return nil
}

func setGateway(d *schema.ResourceData, gw *types.Gateway) {
	_ = d.Set("gateway_id", gw.ID)
	_ = d.Set("gateway_url", gw.URL)
	_ = d.Set("gateway_arn", gw.ARN)
	if gw.Authorizer.DiscoveryURL != "" {
		_ = d.Set("discovery_url", gw.Authorizer.DiscoveryURL)
	}
	if len(gw.Authorizer.AllowedClients) > 0 {
		_ = d.Set("allowed_clients", gw.Authorizer.AllowedClients)
	}
}
