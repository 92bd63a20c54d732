package repository

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	acc "github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol"

	"github.com/raywall/terraform-provider-agentcore/pkg/types"
)

// CredentialProviderAPI is the AgentCore Identity subset for API key providers.
type CredentialProviderAPI interface {
	GetApiKeyCredentialProvider(ctx context.Context, params *acc.GetApiKeyCredentialProviderInput, optFns ...func(*acc.Options)) (*acc.GetApiKeyCredentialProviderOutput, error)
	CreateApiKeyCredentialProvider(ctx context.Context, params *acc.CreateApiKeyCredentialProviderInput, optFns ...func(*acc.Options)) (*acc.CreateApiKeyCredentialProviderOutput, error)
	DeleteApiKeyCredentialProvider(ctx context.Context, params *acc.DeleteApiKeyCredentialProviderInput, optFns ...func(*acc.Options)) (*acc.DeleteApiKeyCredentialProviderOutput, error)
}

// CredentialProviderRepository manages API key credential providers.
type CredentialProviderRepository struct {
	API CredentialProviderAPI
}

// GetAPIKeyProvider looks a provider up by name. A missing provider yields
// *NotFoundError, as does a response without an ARN.
func (r *CredentialProviderRepository) GetAPIKeyProvider(ctx context.Context, name string) (*types.CredentialProvider, error) {
	out, err := r.API.GetApiKeyCredentialProvider(ctx, &acc.GetApiKeyCredentialProviderInput{Name: aws.String(name)})
	if err != nil {
		return nil, classify(err, "GetApiKeyCredentialProvider", "credential provider", name)
	}
	arn := aws.ToString(out.CredentialProviderArn)
	if arn == "" {
		return nil, &NotFoundError{Kind: "credential provider", Name: name}
	}
	return &types.CredentialProvider{Name: name, Type: "API_KEY", ARN: arn}, nil
}

// CreateAPIKeyProvider stores apiKey in a new provider and returns its ARN.
func (r *CredentialProviderRepository) CreateAPIKeyProvider(ctx context.Context, name, apiKey string) (*types.CredentialProvider, error) {
	out, err := r.API.CreateApiKeyCredentialProvider(ctx, &acc.CreateApiKeyCredentialProviderInput{
		Name:   aws.String(name),
		ApiKey: aws.String(apiKey),
	})
	if err != nil {
		return nil, classify(err, "CreateApiKeyCredentialProvider", "credential provider", name)
	}
	return &types.CredentialProvider{Name: name, Type: "API_KEY", ARN: aws.ToString(out.CredentialProviderArn)}, nil
}

// DeleteAPIKeyProvider removes a provider; a missing one is not an error.
func (r *CredentialProviderRepository) DeleteAPIKeyProvider(ctx context.Context, name string) error {
	_, err := r.API.DeleteApiKeyCredentialProvider(ctx, &acc.DeleteApiKeyCredentialProviderInput{Name: aws.String(name)})
	if err != nil && !isNotFound(err) {
		return classify(err, "DeleteApiKeyCredentialProvider", "credential provider", name)
	}
	return nil
}
