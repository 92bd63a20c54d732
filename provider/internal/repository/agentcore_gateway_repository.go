package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	acc "github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol"
	acctypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol/types"

	"github.com/raywall/terraform-provider-agentcore/pkg/types"
)

// GatewayAPI is the AgentCore control-plane subset for gateways and targets.
type GatewayAPI interface {
	CreateGateway(ctx context.Context, params *acc.CreateGatewayInput, optFns ...func(*acc.Options)) (*acc.CreateGatewayOutput, error)
	GetGateway(ctx context.Context, params *acc.GetGatewayInput, optFns ...func(*acc.Options)) (*acc.GetGatewayOutput, error)
	DeleteGateway(ctx context.Context, params *acc.DeleteGatewayInput, optFns ...func(*acc.Options)) (*acc.DeleteGatewayOutput, error)
	CreateGatewayTarget(ctx context.Context, params *acc.CreateGatewayTargetInput, optFns ...func(*acc.Options)) (*acc.CreateGatewayTargetOutput, error)
	GetGatewayTarget(ctx context.Context, params *acc.GetGatewayTargetInput, optFns ...func(*acc.Options)) (*acc.GetGatewayTargetOutput, error)
	ListGatewayTargets(ctx context.Context, params *acc.ListGatewayTargetsInput, optFns ...func(*acc.Options)) (*acc.ListGatewayTargetsOutput, error)
	DeleteGatewayTarget(ctx context.Context, params *acc.DeleteGatewayTargetInput, optFns ...func(*acc.Options)) (*acc.DeleteGatewayTargetOutput, error)
}

// GatewayRepository wraps the gateway and gateway target CRUD calls.
type GatewayRepository struct {
	API GatewayAPI
}

// MaxListTargets is the single page size used when listing targets.
const MaxListTargets int32 = 100

// CreateGateway creates an MCP gateway authorized by a custom JWT authorizer.
// A name clash surfaces as *ConflictError; nothing else is treated as one.
func (r *GatewayRepository) CreateGateway(ctx context.Context, spec types.GatewaySpec, clientToken string) (*types.Gateway, error) {
	input := &acc.CreateGatewayInput{
		Name:           aws.String(spec.Name),
		RoleArn:        aws.String(spec.RoleARN),
		ProtocolType:   "MCP",
		AuthorizerType: "CUSTOM_JWT",
		AuthorizerConfiguration: &acctypes.AuthorizerConfigurationMemberCustomJWTAuthorizer{
			Value: acctypes.CustomJWTAuthorizerConfiguration{
				DiscoveryUrl:   aws.String(spec.DiscoveryURL),
				AllowedClients: spec.AllowedClientIDs,
			},
		},
	}
	if spec.Description != "" {
		input.Description = aws.String(spec.Description)
	}
	if clientToken != "" {
		input.ClientToken = aws.String(clientToken)
	}

	out, err := r.API.CreateGateway(ctx, input)
	if err != nil {
		return nil, classify(err, "CreateGateway", "gateway", spec.Name)
	}
	return &types.Gateway{
		ID:     aws.ToString(out.GatewayId),
		Name:   spec.Name,
		URL:    aws.ToString(out.GatewayUrl),
		ARN:    aws.ToString(out.GatewayArn),
		Status: string(out.Status),
		Authorizer: types.GatewayAuthorizer{
			DiscoveryURL:   spec.DiscoveryURL,
			AllowedClients: spec.AllowedClientIDs,
		},
	}, nil
}

// GetGateway fetches the current details of a gateway.
func (r *GatewayRepository) GetGateway(ctx context.Context, gatewayID string) (*types.Gateway, error) {
	out, err := r.API.GetGateway(ctx, &acc.GetGatewayInput{GatewayIdentifier: aws.String(gatewayID)})
	if err != nil {
		return nil, classify(err, "GetGateway", "gateway", gatewayID)
	}
	gw := &types.Gateway{
		ID:     aws.ToString(out.GatewayId),
		Name:   aws.ToString(out.Name),
		URL:    aws.ToString(out.GatewayUrl),
		ARN:    aws.ToString(out.GatewayArn),
		Status: string(out.Status),
	}
	if gw.ID == "" {
		gw.ID = gatewayID
	}
	if jwt, ok := out.AuthorizerConfiguration.(*acctypes.AuthorizerConfigurationMemberCustomJWTAuthorizer); ok {
		gw.Authorizer = types.GatewayAuthorizer{
			DiscoveryURL:   aws.ToString(jwt.Value.DiscoveryUrl),
			AllowedClients: jwt.Value.AllowedClients,
		}
	}
	return gw, nil
}

// DeleteGateway deletes a gateway. Its targets must be gone already.
func (r *GatewayRepository) DeleteGateway(ctx context.Context, gatewayID string) error {
	_, err := r.API.DeleteGateway(ctx, &acc.DeleteGatewayInput{GatewayIdentifier: aws.String(gatewayID)})
	return classify(err, "DeleteGateway", "gateway", gatewayID)
}

// ListTargets returns the first page (up to MaxListTargets) of targets.
func (r *GatewayRepository) ListTargets(ctx context.Context, gatewayID string) ([]types.GatewayTarget, error) {
	out, err := r.API.ListGatewayTargets(ctx, &acc.ListGatewayTargetsInput{
		GatewayIdentifier: aws.String(gatewayID),
		MaxResults:        aws.Int32(MaxListTargets),
	})
	if err != nil {
		return nil, classify(err, "ListGatewayTargets", "gateway", gatewayID)
	}
	targets := make([]types.GatewayTarget, 0, len(out.Items))
	for _, item := range out.Items {
		targets = append(targets, types.GatewayTarget{
			ID:          aws.ToString(item.TargetId),
			Name:        aws.ToString(item.Name),
			Description: aws.ToString(item.Description),
			Status:      string(item.Status),
		})
	}
	return targets, nil
}

// GetTarget fetches one target of a gateway.
func (r *GatewayRepository) GetTarget(ctx context.Context, gatewayID, targetID string) (*types.GatewayTarget, error) {
	out, err := r.API.GetGatewayTarget(ctx, &acc.GetGatewayTargetInput{
		GatewayIdentifier: aws.String(gatewayID),
		TargetId:          aws.String(targetID),
	})
	if err != nil {
		return nil, classify(err, "GetGatewayTarget", "gateway target", targetID)
	}
	return &types.GatewayTarget{
		ID:          aws.ToString(out.TargetId),
		Name:        aws.ToString(out.Name),
		Description: aws.ToString(out.Description),
		Status:      string(out.Status),
	}, nil
}

// APIKeyCredential is the outbound API key injection of an OpenAPI target.
type APIKeyCredential struct {
	ProviderARN   string
	ParameterName string
	Location      types.CredentialLocation
	Prefix        string
}

// CreateOpenAPITarget registers an OpenAPI target with the schema passed
// inline and an API key credential provider.
func (r *GatewayRepository) CreateOpenAPITarget(ctx context.Context, gatewayID, name, description, inlineSpec string, cred APIKeyCredential, clientToken string) (string, error) {
	provider := acctypes.GatewayApiKeyCredentialProvider{
		ProviderArn:             aws.String(cred.ProviderARN),
		CredentialParameterName: aws.String(cred.ParameterName),
		CredentialLocation:      acctypes.ApiKeyCredentialLocation(cred.Location),
	}
	if cred.Prefix != "" {
		provider.CredentialPrefix = aws.String(cred.Prefix)
	}

	input := &acc.CreateGatewayTargetInput{
		GatewayIdentifier: aws.String(gatewayID),
		Name:              aws.String(name),
		TargetConfiguration: &acctypes.TargetConfigurationMemberMcp{
			Value: &acctypes.McpTargetConfigurationMemberOpenApiSchema{
				Value: &acctypes.ApiSchemaConfigurationMemberInlinePayload{Value: inlineSpec},
			},
		},
		CredentialProviderConfigurations: []acctypes.CredentialProviderConfiguration{
			{
				CredentialProviderType: "API_KEY",
				CredentialProvider:     &acctypes.CredentialProviderMemberApiKeyCredentialProvider{Value: provider},
			},
		},
	}
	return r.createTarget(ctx, input, description, clientToken)
}

// ToolDefinition is an inline tool schema entry of a Lambda target.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema acctypes.SchemaDefinition
}

// CreateLambdaTarget registers a Lambda function as an MCP target invoked with
// the gateway execution role.
func (r *GatewayRepository) CreateLambdaTarget(ctx context.Context, gatewayID, name, description, lambdaARN string, tools []ToolDefinition, clientToken string) (string, error) {
	defs := make([]acctypes.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		schema := t.InputSchema
		defs = append(defs, acctypes.ToolDefinition{
			Name:        aws.String(t.Name),
			Description: aws.String(t.Description),
			InputSchema: &schema,
		})
	}

	input := &acc.CreateGatewayTargetInput{
		GatewayIdentifier: aws.String(gatewayID),
		Name:              aws.String(name),
		TargetConfiguration: &acctypes.TargetConfigurationMemberMcp{
			Value: &acctypes.McpTargetConfigurationMemberLambda{
				Value: acctypes.McpLambdaTargetConfiguration{
					LambdaArn:  aws.String(lambdaARN),
					ToolSchema: &acctypes.ToolSchemaMemberInlinePayload{Value: defs},
				},
			},
		},
		CredentialProviderConfigurations: []acctypes.CredentialProviderConfiguration{
			{CredentialProviderType: "GATEWAY_IAM_ROLE"},
		},
	}
	return r.createTarget(ctx, input, description, clientToken)
}

func (r *GatewayRepository) createTarget(ctx context.Context, input *acc.CreateGatewayTargetInput, description, clientToken string) (string, error) {
	if description != "" {
		input.Description = aws.String(description)
	}
	if clientToken != "" {
		input.ClientToken = aws.String(clientToken)
	}
	out, err := r.API.CreateGatewayTarget(ctx, input)
	if err != nil {
		return "", classify(err, "CreateGatewayTarget", "gateway target", aws.ToString(input.Name))
	}
	id := aws.ToString(out.TargetId)
	if id == "" {
		return "", fmt.Errorf("gateway target %s created but no target ID returned", aws.ToString(input.Name))
	}
	return id, nil
}

// DeleteTarget deletes one target of a gateway.
func (r *GatewayRepository) DeleteTarget(ctx context.Context, gatewayID, targetID string) error {
	_, err := r.API.DeleteGatewayTarget(ctx, &acc.DeleteGatewayTargetInput{
		GatewayIdentifier: aws.String(gatewayID),
		TargetId:          aws.String(targetID),
	})
	return classify(err, "DeleteGatewayTarget", "gateway target", targetID)
}
