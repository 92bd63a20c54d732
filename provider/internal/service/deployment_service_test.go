package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raywall/terraform-provider-agentcore/pkg/types"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/awsfake"
)

func deploymentSpec() types.DeploymentSpec {
	return types.DeploymentSpec{
		RoleName: "GwRole",
		Gateway:  types.GatewaySpec{Name: "agentcore-gw-test", Description: "test"},
		Target: types.OpenAPITargetSpec{
			TargetName:             "AgentCoreGwyAPIGatewayTarget",
			SpecSource:             "../openapi/testdata/openapi_simple.json",
			CredentialProviderName: "AgentCoreAPIGatewayAPIKey",
		},
		Backend:          types.BackendRef{RestAPIID: "abc123", Stage: "prod"},
		LogRetentionDays: 14,
	}
}

func TestDeploy(t *testing.T) {
	h := newHarness(t)
	h.seedIdentity()
	delete(h.ssm.Values, testNamespace+"/gateway_iam_role")
	ctx := context.Background()

	state, err := h.deployments.Deploy(ctx, deploymentSpec())
	require.NoError(t, err)
	assert.Equal(t, "arn:aws:iam::123456789012:role/GwRole", state.RoleARN)
	assert.Equal(t, types.OutcomeCreated, state.Gateway.Outcome)
	assert.Equal(t, "/aws/vendedlogs/bedrock-agentcore/gateway/"+state.Gateway.Gateway.ID, state.LogGroup)
	require.NotNil(t, state.Target)
	assert.Equal(t, types.OutcomeCreated, state.Target.Outcome)

	gw := h.agentcore.Gateways[state.Gateway.Gateway.ID]
	assert.Equal(t, []string{"client-1"}, gw.AllowedClients)
	assert.Contains(t, gw.DiscoveryURL, "us-east-1_pool")

	doc := inlinePayload(t, h.agentcore.Targets[gw.ID][0])
	assert.Equal(t, "https://abc123.execute-api.us-east-1.amazonaws.com/prod", doc["servers"].([]any)[0].(map[string]any)["url"])

	// Deploying again takes the lookup path for the gateway.
	again, err := h.deployments.Deploy(ctx, types.DeploymentSpec{Gateway: deploymentSpec().Gateway})
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeAlreadyExists, again.Gateway.Outcome)
	assert.Equal(t, state.Gateway.Gateway.ID, again.Gateway.Gateway.ID)
	assert.Nil(t, again.Target)
}

func TestCompleteGatewaySpec_DiscoveryFromUserPool(t *testing.T) {
	h := newHarness(t)
	h.ssm.Values[testNamespace+"/gateway_iam_role"] = "arn:aws:iam::123456789012:role/GwRole"
	h.ssm.Values[testNamespace+"/machine_client_id"] = "client-1"
	h.ssm.Values[testNamespace+"/userpool_id"] = "us-east-1_pool"

	spec, err := h.deployments.CompleteGatewaySpec(context.Background(), types.GatewaySpec{Name: "gw"})
	require.NoError(t, err)
	assert.Equal(t, "https://cognito-idp.us-east-1.amazonaws.com/us-east-1_pool/.well-known/openid-configuration", spec.DiscoveryURL)
}

func TestDeploy_MissingIdentity(t *testing.T) {
	h := newHarness(t)

	state, err := h.deployments.Deploy(context.Background(), types.DeploymentSpec{Gateway: types.GatewaySpec{Name: "gw"}})
	require.Error(t, err)
	assert.Equal(t, types.OutcomeFailed, state.Gateway.Outcome)
	assert.Empty(t, h.agentcore.Calls)
}

func TestTeardown(t *testing.T) {
	h := newHarness(t)
	h.seedIdentity()
	ctx := context.Background()

	state, err := h.deployments.Deploy(ctx, deploymentSpec())
	require.NoError(t, err)
	id := state.Gateway.Gateway.ID

	exists, err := h.deployments.Exists(ctx, id)
	require.NoError(t, err)
	assert.True(t, exists)

	report, err := h.deployments.Teardown(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, id, report.GatewayID)
	assert.Len(t, report.DeletedTargets, 1)
	assert.True(t, report.GatewayDeleted)
	assert.Empty(t, h.agentcore.Gateways)
	assert.Empty(t, h.logs.Groups)
	assert.NotContains(t, h.ssm.Values, testNamespace+"/gateway_id")

	exists, err = h.deployments.Exists(ctx, id)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestTeardown_KeepsStateWhenGatewayRemains(t *testing.T) {
	h := newHarness(t)
	h.agentcore.AddGateway(&awsfake.Gateway{ID: "G", Name: "gw"})
	h.agentcore.AddTarget("G", &awsfake.Target{ID: "t1", Name: "t1"})
	h.agentcore.FailTargets["t1"] = true
	h.ssm.Values[testNamespace+"/gateway_id"] = "G"
	_, err := h.cwlogs.EnsureGatewayLogGroup(context.Background(), "G", 1)
	require.NoError(t, err)

	report, err := h.deployments.Teardown(context.Background(), "G")
	require.Error(t, err)
	assert.False(t, report.GatewayDeleted)
	assert.Equal(t, "G", h.ssm.Values[testNamespace+"/gateway_id"])
	assert.NotEmpty(t, h.logs.Groups)
}
