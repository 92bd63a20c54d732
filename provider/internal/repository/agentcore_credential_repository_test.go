package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raywall/terraform-provider-agentcore/provider/internal/awsfake"
)

func TestGetAPIKeyProvider(t *testing.T) {
	fake := awsfake.NewAgentCore()
	fake.Providers["asana"] = "arn:provider/asana"
	repo := &CredentialProviderRepository{API: fake}

	p, err := repo.GetAPIKeyProvider(context.Background(), "asana")
	require.NoError(t, err)
	assert.Equal(t, "arn:provider/asana", p.ARN)
	assert.Equal(t, "API_KEY", p.Type)

	_, err = repo.GetAPIKeyProvider(context.Background(), "other")
	assert.True(t, IsNotFound(err))
}

func TestCreateAPIKeyProvider(t *testing.T) {
	fake := awsfake.NewAgentCore()
	repo := &CredentialProviderRepository{API: fake}

	p, err := repo.CreateAPIKeyProvider(context.Background(), "asana", "k-123")
	require.NoError(t, err)
	assert.Contains(t, p.ARN, "asana")

	_, err = repo.CreateAPIKeyProvider(context.Background(), "asana", "k-123")
	assert.True(t, IsConflict(err))
}

func TestDeleteAPIKeyProvider_MissingIsOK(t *testing.T) {
	fake := awsfake.NewAgentCore()
	repo := &CredentialProviderRepository{API: fake}

	require.NoError(t, repo.DeleteAPIKeyProvider(context.Background(), "missing"))

	fake.Errors["DeleteApiKeyCredentialProvider"] = awsfake.APIError("AccessDeniedException", "nope")
	err := repo.DeleteAPIKeyProvider(context.Background(), "missing")
	assert.True(t, IsAccessDenied(err))
}
