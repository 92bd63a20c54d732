package resource

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/terraform-plugin-sdk/v2/diag"
	"github.com/hashicorp/terraform-plugin-sdk/v2/helper/schema"
	"github.com/hashicorp/terraform-plugin-sdk/v2/helper/validation"

	"github.com/raywall/terraform-provider-agentcore/pkg/types"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/repository"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/service"
)

// ResourceGatewayTarget defines agentcore_gateway_target, an OpenAPI target
// authenticated with an API key credential provider. The resource ID is
// "<gateway_id>/<target_id>".
func ResourceGatewayTarget() *schema.Resource {
	return &schema.Resource{
		Description:   "OpenAPI target of an AgentCore gateway.",
		CreateContext: resourceGatewayTargetCreate,
		ReadContext:   resourceGatewayTargetRead,
		DeleteContext: resourceGatewayTargetDelete,
		Importer: &schema.ResourceImporter{
			StateContext: resourceGatewayTargetImport,
		},
		Schema: map[string]*schema.Schema{
			"gateway_id": {Type: schema.TypeString, Required: true, ForceNew: true},
			"name":       {Type: schema.TypeString, Required: true, ForceNew: true},
			"description": {
				Type:     schema.TypeString,
				Optional: true,
				ForceNew: true,
			},
			"spec_path": {
				Type:        schema.TypeString,
				Required:    true,
				ForceNew:    true,
				Description: "OpenAPI document: a local path or an s3://bucket/key URI.",
			},
			"backend_url": {
				Type:          schema.TypeString,
				Optional:      true,
				Computed:      true,
				ForceNew:      true,
				ConflictsWith: []string{"rest_api_id", "http_api_id"},
				Description:   "Server URL patched into the document. Resolved from rest_api_id, http_api_id or the apigateway_url parameter when empty.",
			},
			"rest_api_id": {
				Type:          schema.TypeString,
				Optional:      true,
				ForceNew:      true,
				ConflictsWith: []string{"http_api_id"},
				RequiredWith:  []string{"stage_name"},
			},
			"stage_name": {
				Type:     schema.TypeString,
				Optional: true,
				ForceNew: true,
			},
			"http_api_id": {
				Type:     schema.TypeString,
				Optional: true,
				ForceNew: true,
			},
			"credential_provider_name": {Type: schema.TypeString, Required: true, ForceNew: true},
			"api_key_ref": {
				Type:        schema.TypeString,
				Optional:    true,
				ForceNew:    true,
				Description: "ssm://, secretsmanager:// or apigateway:// reference. Defaults to the api_key parameter.",
			},
			"credential_location": {
				Type:         schema.TypeString,
				Optional:     true,
				ForceNew:     true,
				Default:      string(types.LocationQueryParameter),
				ValidateFunc: validation.StringInSlice([]string{string(types.LocationQueryParameter), string(types.LocationHeader)}, false),
			},
			"credential_parameter_name": {
				Type:     schema.TypeString,
				Optional: true,
				ForceNew: true,
				Default:  service.DefaultCredentialParameterName,
			},
			"credential_prefix": {
				Type:     schema.TypeString,
				Optional: true,
				ForceNew: true,
			},
			"target_id":               {Type: schema.TypeString, Computed: true},
			"credential_provider_arn": {Type: schema.TypeString, Computed: true},
			"outcome":                 {Type: schema.TypeString, Computed: true},
		},
	}
}

func resourceGatewayTargetCreate(ctx context.Context, d *schema.ResourceData, m interface{}) diag.Diagnostics {
	bundle, err := bundleFrom(m)
	if err != nil {
		return diag.FromErr(err)
	}

	backendURL, err := bundle.DeployService.EndpointService.Resolve(ctx, types.BackendRef{
		URL:       d.Get("backend_url").(string),
		RestAPIID: d.Get("rest_api_id").(string),
		Stage:     d.Get("stage_name").(string),
		HTTPAPIID: d.Get("http_api_id").(string),
	})
	if err != nil {
		return diag.FromErr(err)
	}

	gatewayID := d.Get("gateway_id").(string)
	result, err := bundle.TargetService.RegisterOpenAPI(ctx, types.OpenAPITargetSpec{
		GatewayID:               gatewayID,
		TargetName:              d.Get("name").(string),
		Description:             d.Get("description").(string),
		SpecSource:              d.Get("spec_path").(string),
		BackendURL:              backendURL,
		CredentialProviderName:  d.Get("credential_provider_name").(string),
		CredentialLocation:      types.CredentialLocation(d.Get("credential_location").(string)),
		CredentialParameterName: d.Get("credential_parameter_name").(string),
		CredentialPrefix:        d.Get("credential_prefix").(string),
		APIKeyRef:               d.Get("api_key_ref").(string),
	})
	if err != nil {
		return diag.FromErr(fmt.Errorf("target setup failed: %w", err))
	}
	if result.TargetID == "" {
		return diag.Errorf("target %s reported %s without a target id", d.Get("name").(string), result.Outcome)
	}

	d.SetId(targetID(gatewayID, result.TargetID))
	_ = d.Set("target_id", result.TargetID)
	_ = d.Set("backend_url", backendURL)
	_ = d.Set("credential_provider_arn", result.CredentialProviderARN)
	_ = d.Set("outcome", string(result.Outcome))
	return nil
}

func resourceGatewayTargetRead(ctx context.Context, d *schema.ResourceData, m interface{}) diag.Diagnostics {
	bundle, err := bundleFrom(m)
	if err != nil {
		return diag.FromErr(err)
	}
	gatewayID, tid, err := parseTargetID(d.Id())
	if err != nil {
		return diag.FromErr(err)
	}

	target, err := bundle.TargetService.Get(ctx, gatewayID, tid)
	if repository.IsNotFound(err) {
		d.SetId("")
		return nil
	}
	if err != nil {
		return diag.FromErr(fmt.Errorf("failed reading target %s: %w", d.Id(), err))
	}
	_ = d.Set("gateway_id", gatewayID)
	_ = d.Set("target_id", target.ID)
	_ = d.Set("name", target.Name)
	_ = d.Set("description", target.Description)
	return nil
}

func resourceGatewayTargetDelete(ctx context.Context, d *schema.ResourceData, m interface{}) diag.Diagnostics {
	bundle, err := bundleFrom(m)
	if err != nil {
		return diag.FromErr(err)
	}
	gatewayID, tid, err := parseTargetID(d.Id())
	if err != nil {
		return diag.FromErr(err)
	}
	if err := bundle.TargetService.Delete(ctx, gatewayID, tid); err != nil {
		return diag.FromErr(fmt.Errorf("deleting target %s: %w", d.Id(), err))
	}
	d.SetId("")
	return nil
}

func resourceGatewayTargetImport(ctx context.Context, d *schema.ResourceData, m interface{}) ([]*schema.ResourceData, error) {
	gatewayID, tid, err := parseTargetID(d.Id())
	if err != nil {
		return nil, err
	}
	_ = d.Set("gateway_id", gatewayID)
	_ = d.Set("target_id", tid)
	return []*schema.ResourceData{d}, nil
}

func targetID(gatewayID, tid string) string {
	return gatewayID + "/" + tid
}

func parseTargetID(id string) (gatewayID, tid string, err error) {
	parts := strings.SplitN(id, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("unexpected target id %q, want <gateway_id>/<target_id>", id)
	}
	return parts[0], parts[1], nil
}
