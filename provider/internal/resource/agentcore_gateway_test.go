package resource

import (
	"context"
	"testing"

	"github.com/hashicorp/terraform-plugin-sdk/v2/helper/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raywall/terraform-provider-agentcore/provider/internal/awsfake"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/models/modelstest"
)

func gatewayData(t *testing.T, raw map[string]interface{}) *schema.ResourceData {
	t.Helper()
	return schema.TestResourceDataRaw(t, ResourceGateway().Schema, raw)
}

func TestResourceGateway_Schema(t *testing.T) {
	r := ResourceGateway()
	require.NoError(t, r.InternalValidate(nil, true))
	assert.True(t, r.Schema["name"].ForceNew)
	assert.True(t, r.Schema["gateway_url"].Computed)
}

func TestResourceGatewayCreate_FillsFromParameters(t *testing.T) {
	bundle, fakes := modelstest.NewBundle()
	fakes.SeedIdentity()
	ctx := context.Background()

	d := gatewayData(t, map[string]interface{}{"name": "orders-gw"})
	diags := resourceGatewayCreate(ctx, d, bundle)
	require.False(t, diags.HasError(), "%v", diags)

	require.NotEmpty(t, d.Id())
	assert.Equal(t, d.Id(), d.Get("gateway_id"))
	assert.Equal(t, "created", d.Get("outcome"))
	assert.Equal(t, "arn:aws:iam::123456789012:role/GwRole", d.Get("role_arn"))
	assert.Equal(t, []interface{}{modelstest.ClientID}, d.Get("allowed_clients"))
	assert.Contains(t, d.Get("gateway_url").(string), d.Id())
	assert.Equal(t, d.Id(), fakes.SSM.Values[modelstest.Namespace+"/gateway_id"])
}

func TestResourceGatewayCreate_ExistingGatewayIsAdopted(t *testing.T) {
	bundle, fakes := modelstest.NewBundle()
	fakes.SeedIdentity()
	ctx := context.Background()

	first := gatewayData(t, map[string]interface{}{"name": "orders-gw"})
	require.False(t, resourceGatewayCreate(ctx, first, bundle).HasError())

	second := gatewayData(t, map[string]interface{}{"name": "orders-gw"})
	diags := resourceGatewayCreate(ctx, second, bundle)
	require.False(t, diags.HasError(), "%v", diags)
	assert.Equal(t, first.Id(), second.Id())
	assert.Equal(t, "already_exists", second.Get("outcome"))
}

func TestResourceGatewayCreate_MissingRole(t *testing.T) {
	bundle, _ := modelstest.NewBundle()

	d := gatewayData(t, map[string]interface{}{"name": "orders-gw"})
	diags := resourceGatewayCreate(context.Background(), d, bundle)
	assert.True(t, diags.HasError())
	assert.Empty(t, d.Id())
}

func TestResourceGatewayRead_ClearsIDWhenGone(t *testing.T) {
	bundle, _ := modelstest.NewBundle()

	d := gatewayData(t, map[string]interface{}{"name": "orders-gw"})
	d.SetId("gw-missing")
	diags := resourceGatewayRead(context.Background(), d, bundle)
	require.False(t, diags.HasError())
	assert.Empty(t, d.Id())
}

func TestResourceGatewayRead(t *testing.T) {
	bundle, fakes := modelstest.NewBundle()
	fakes.AgentCore.AddGateway(&awsfake.Gateway{
		ID:             "gw-1",
		Name:           "orders-gw",
		URL:            "https://gw-1.gateway.bedrock-agentcore.us-east-1.amazonaws.com/mcp",
		DiscoveryURL:   "https://issuer/.well-known/openid-configuration",
		AllowedClients: []string{"c1"},
	})

	d := gatewayData(t, map[string]interface{}{"name": "orders-gw"})
	d.SetId("gw-1")
	diags := resourceGatewayRead(context.Background(), d, bundle)
	require.False(t, diags.HasError())
	assert.Equal(t, "gw-1", d.Id())
	assert.Equal(t, "https://issuer/.well-known/openid-configuration", d.Get("discovery_url"))
	assert.Equal(t, []interface{}{"c1"}, d.Get("allowed_clients"))
}

func TestResourceGatewayDelete_RemovesTargetsFirst(t *testing.T) {
	bundle, fakes := modelstest.NewBundle()
	fakes.AgentCore.AddGateway(&awsfake.Gateway{ID: "gw-1", Name: "orders-gw"})
	fakes.AgentCore.AddTarget("gw-1", &awsfake.Target{ID: "t1", Name: "a"})
	fakes.AgentCore.AddTarget("gw-1", &awsfake.Target{ID: "t2", Name: "b"})
	fakes.SSM.Values[modelstest.Namespace+"/gateway_id"] = "gw-1"

	d := gatewayData(t, map[string]interface{}{"name": "orders-gw"})
	d.SetId("gw-1")
	diags := resourceGatewayDelete(context.Background(), d, bundle)
	require.False(t, diags.HasError(), "%v", diags)

	assert.Empty(t, d.Id())
	assert.Empty(t, fakes.AgentCore.Gateways)
	assert.Len(t, fakes.AgentCore.CallsWithPrefix("DeleteGatewayTarget"), 2)
	assert.NotContains(t, fakes.SSM.Values, modelstest.Namespace+"/gateway_id")
}

func TestResourceGatewayDelete_ReportsFailedTargets(t *testing.T) {
	bundle, fakes := modelstest.NewBundle()
	fakes.AgentCore.AddGateway(&awsfake.Gateway{ID: "gw-1", Name: "orders-gw"})
	fakes.AgentCore.AddTarget("gw-1", &awsfake.Target{ID: "t1", Name: "a"})
	fakes.AgentCore.FailTargets["t1"] = true

	d := gatewayData(t, map[string]interface{}{"name": "orders-gw"})
	d.SetId("gw-1")
	diags := resourceGatewayDelete(context.Background(), d, bundle)
	require.True(t, diags.HasError())
	assert.Contains(t, diags[0].Summary, "t1")
	assert.Equal(t, "gw-1", d.Id())
}

func TestBundleFrom_Unconfigured(t *testing.T) {
	_, err := bundleFrom(nil)
	assert.Error(t, err)
}
