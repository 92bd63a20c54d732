package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raywall/terraform-provider-agentcore/pkg/types"
)

func TestEndpointResolve(t *testing.T) {
	h := newHarness(t)
	h.apigw.HTTPAPIs["h1"] = "https://h1.execute-api.us-east-1.amazonaws.com"
	h.ssm.Values[testNamespace+"/apigateway_url"] = "https://stored.example.com/dev"
	ctx := context.Background()

	tests := []struct {
		name string
		ref  types.BackendRef
		want string
	}{
		{name: "explicit url wins", ref: types.BackendRef{URL: "https://api.example.com", RestAPIID: "abc123", Stage: "prod"}, want: "https://api.example.com"},
		{name: "rest stage", ref: types.BackendRef{RestAPIID: "abc123", Stage: "prod"}, want: "https://abc123.execute-api.us-east-1.amazonaws.com/prod"},
		{name: "http api", ref: types.BackendRef{HTTPAPIID: "h1"}, want: "https://h1.execute-api.us-east-1.amazonaws.com"},
		{name: "stored parameter", ref: types.BackendRef{}, want: "https://stored.example.com/dev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.endpoints.Resolve(ctx, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEndpointResolve_Errors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.endpoints.Resolve(ctx, types.BackendRef{RestAPIID: "abc123"})
	assert.ErrorContains(t, err, "stage is required")

	_, err = h.endpoints.Resolve(ctx, types.BackendRef{RestAPIID: "abc123", Stage: "dev"})
	assert.Error(t, err)

	_, err = h.endpoints.Resolve(ctx, types.BackendRef{URL: "http://plain.example.com"})
	assert.ErrorContains(t, err, "https")

	_, err = h.endpoints.Resolve(ctx, types.BackendRef{})
	assert.Error(t, err)
}
