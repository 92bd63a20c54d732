package models_test

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raywall/terraform-provider-agentcore/provider/internal/models/modelstest"
	"github.com/raywall/terraform-provider-agentcore/pkg/types"
)

func TestNewConfigurationBundle_Wiring(t *testing.T) {
	bundle, _ := modelstest.NewBundle()

	assert.Equal(t, modelstest.Namespace, bundle.DeployService.Namespace)
	assert.Same(t, bundle.GatewayService, bundle.DeployService.GatewayService)
	assert.Same(t, bundle.TargetService, bundle.DeployService.TargetService)
	assert.Same(t, bundle.TokenService, bundle.DeployService.TokenService)
	assert.Equal(t, modelstest.Region, bundle.IAMService.Region)

	schemes := bundle.Secrets.Schemes()
	sort.Strings(schemes)
	assert.Equal(t, []string{"apigateway", "ssm"}, schemes)
	assert.Nil(t, bundle.TargetService.Loader.Objects)
}

func TestNewConfigurationBundle_Deploy(t *testing.T) {
	bundle, fakes := modelstest.NewBundle()
	fakes.SeedIdentity()

	state, err := bundle.DeployService.Deploy(context.Background(), types.DeploymentSpec{
		Gateway: types.GatewaySpec{Name: "gw-bundle"},
	})
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeCreated, state.Gateway.Outcome)

	stored, err := bundle.Params.Get(context.Background(), modelstest.Namespace+"/gateway_id", true)
	require.NoError(t, err)
	assert.Equal(t, state.Gateway.Gateway.ID, stored)
}
