package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	acctypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol/types"
	"github.com/google/uuid"

	"github.com/raywall/terraform-provider-agentcore/pkg/types"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/config"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/log"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/openapi"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/repository"
)

// DefaultCredentialParameterName is the query parameter carrying the API key.
const DefaultCredentialParameterName = "api_key"

// SecretResolver turns a reference such as ssm:///path into its value.
type SecretResolver interface {
	Resolve(ctx context.Context, reference string) (string, error)
}

// TargetService registers backends on a gateway.
type TargetService struct {
	GatewayRepo    *repository.GatewayRepository
	CredentialRepo *repository.CredentialProviderRepository
	LambdaRepo     *repository.LambdaRepository
	Loader         *openapi.Loader
	Secrets        SecretResolver
	Namespace      string

	NewClientToken func() string
}

func (s *TargetService) clientToken() string {
	if s.NewClientToken != nil {
		return s.NewClientToken()
	}
	return uuid.NewString()
}

// RegisterOpenAPI registers an OpenAPI backend with outbound API key auth.
// The specification is loaded and patched before any gateway call, so a
// malformed file fails with *openapi.FormatError and no side effects.
func (s *TargetService) RegisterOpenAPI(ctx context.Context, spec types.OpenAPITargetSpec) (types.TargetResult, error) {
	if err := validateTarget(spec.GatewayID, spec.TargetName); err != nil {
		return failedTarget(err), err
	}
	if spec.CredentialProviderName == "" {
		err := fmt.Errorf("credential provider name is required")
		return failedTarget(err), err
	}
	if spec.BackendURL == "" {
		err := fmt.Errorf("backend url is required")
		return failedTarget(err), err
	}

	doc, err := s.loadPatched(ctx, spec.SpecSource, spec.BackendURL)
	if err != nil {
		return failedTarget(err), err
	}
	payload, err := doc.InlinePayload()
	if err != nil {
		return failedTarget(err), err
	}
	log.Info("loaded api specification", "source", spec.SpecSource, "title", doc.Title(), "server", doc.ServerURL())

	provider, err := s.EnsureCredentialProvider(ctx, spec.CredentialProviderName, spec.APIKeyRef)
	if err != nil {
		return failedTarget(err), err
	}

	location := spec.CredentialLocation
	if location == "" {
		location = types.LocationQueryParameter
	}
	paramName := spec.CredentialParameterName
	if paramName == "" {
		paramName = DefaultCredentialParameterName
	}

	log.Info("creating gateway target", "gateway_id", spec.GatewayID, "name", spec.TargetName)
	id, err := s.GatewayRepo.CreateOpenAPITarget(ctx, spec.GatewayID, spec.TargetName, spec.Description, payload, repository.APIKeyCredential{
		ProviderARN:   provider.ARN,
		ParameterName: paramName,
		Location:      location,
		Prefix:        spec.CredentialPrefix,
	}, s.clientToken())
	return s.targetResult(ctx, spec.GatewayID, spec.TargetName, id, provider.ARN, err)
}

func (s *TargetService) loadPatched(ctx context.Context, source, backendURL string) (openapi.Document, error) {
	if source == "" {
		return nil, &openapi.FormatError{Reason: "no specification source given"}
	}
	parsed, err := s.Loader.Load(ctx, source)
	if err != nil {
		return nil, err
	}
	return parsed.PatchServerURL(backendURL)
}

// EnsureCredentialProvider returns the named API key provider, creating it
// from apiKeyRef when it does not exist. An empty apiKeyRef reads the
// namespace api_key parameter.
func (s *TargetService) EnsureCredentialProvider(ctx context.Context, name, apiKeyRef string) (*types.CredentialProvider, error) {
	p, err := s.CredentialRepo.GetAPIKeyProvider(ctx, name)
	if err == nil {
		log.Info("using existing credential provider", "name", name, "arn", p.ARN)
		return p, nil
	}
	if !repository.IsNotFound(err) {
		return nil, err
	}

	if apiKeyRef == "" {
		apiKeyRef = "ssm://" + config.ParamName(s.Namespace, config.ParamAPIKey)
	}
	apiKey, err := s.Secrets.Resolve(ctx, apiKeyRef)
	if err != nil {
		return nil, fmt.Errorf("resolving api key for credential provider %s: %w", name, err)
	}

	log.Info("creating credential provider", "name", name)
	p, err = s.CredentialRepo.CreateAPIKeyProvider(ctx, name, apiKey)
	if repository.IsConflict(err) {
		// Created concurrently; read it back.
		return s.CredentialRepo.GetAPIKeyProvider(ctx, name)
	}
	return p, err
}

// RegisterLambda exposes a Lambda function as MCP tools. The gateway role
// invokes the function.
func (s *TargetService) RegisterLambda(ctx context.Context, spec types.LambdaTargetSpec) (types.TargetResult, error) {
	if err := validateTarget(spec.GatewayID, spec.TargetName); err != nil {
		return failedTarget(err), err
	}
	if spec.FunctionName == "" || spec.ToolSchemaPath == "" {
		err := fmt.Errorf("function name and tool schema path are required")
		return failedTarget(err), err
	}

	tools, err := s.Loader.LoadTools(ctx, spec.ToolSchemaPath)
	if err != nil {
		return failedTarget(err), err
	}
	arn, err := s.LambdaRepo.FunctionARN(ctx, spec.FunctionName)
	if err != nil {
		return failedTarget(err), err
	}

	defs := make([]repository.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, repository.ToolDefinition{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: schemaDefinition(t.InputSchema),
		})
	}

	log.Info("creating lambda gateway target", "gateway_id", spec.GatewayID, "function", arn, "tools", len(defs))
	id, err := s.GatewayRepo.CreateLambdaTarget(ctx, spec.GatewayID, spec.TargetName, spec.Description, arn, defs, s.clientToken())
	return s.targetResult(ctx, spec.GatewayID, spec.TargetName, id, "", err)
}

// targetResult maps a create outcome. A name conflict reports the existing
// target only when it can be found on the first page; otherwise the conflict
// is returned as a failure.
func (s *TargetService) targetResult(ctx context.Context, gatewayID, name, id, providerARN string, err error) (types.TargetResult, error) {
	if err == nil {
		log.Info("gateway target created", "target_id", id)
		return types.TargetResult{Outcome: types.OutcomeCreated, TargetID: id, CredentialProviderARN: providerARN}, nil
	}
	if !repository.IsConflict(err) {
		log.Error("gateway target creation failed", "name", name, "error", err)
		return failedTarget(err), err
	}

	targets, lerr := s.GatewayRepo.ListTargets(ctx, gatewayID)
	if lerr != nil {
		lerr = fmt.Errorf("target %s already exists but looking it up failed: %w", name, lerr)
		log.Error("gateway target lookup failed", "name", name, "error", lerr)
		return failedTarget(lerr), lerr
	}
	for _, t := range targets {
		if t.Name == name {
			return types.TargetResult{Outcome: types.OutcomeAlreadyExists, TargetID: t.ID, CredentialProviderARN: providerARN}, nil
		}
	}
	nerr := fmt.Errorf("target %s already exists but is not among the first %d targets of gateway %s: %w",
		name, repository.MaxListTargets, gatewayID, err)
	return failedTarget(nerr), nerr
}

// List returns the first page of targets.
func (s *TargetService) List(ctx context.Context, gatewayID string) ([]types.GatewayTarget, error) {
	return s.GatewayRepo.ListTargets(ctx, gatewayID)
}

// Get returns one target.
func (s *TargetService) Get(ctx context.Context, gatewayID, targetID string) (*types.GatewayTarget, error) {
	return s.GatewayRepo.GetTarget(ctx, gatewayID, targetID)
}

// Delete removes one target; a missing target is not an error.
func (s *TargetService) Delete(ctx context.Context, gatewayID, targetID string) error {
	err := s.GatewayRepo.DeleteTarget(ctx, gatewayID, targetID)
	if repository.IsNotFound(err) {
		return nil
	}
	return err
}

func validateTarget(gatewayID, name string) error {
	switch {
	case strings.TrimSpace(gatewayID) == "":
		return fmt.Errorf("gateway id is required")
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("target name is required")
	}
	return nil
}

func failedTarget(err error) types.TargetResult {
	return types.TargetResult{Outcome: types.OutcomeFailed, Reason: err.Error()}
}

func schemaDefinition(s *openapi.Schema) acctypes.SchemaDefinition {
	if s == nil {
		return acctypes.SchemaDefinition{Type: "object"}
	}
	def := acctypes.SchemaDefinition{
		Type:     acctypes.SchemaType(s.Type),
		Required: s.Required,
	}
	if s.Description != "" {
		def.Description = aws.String(s.Description)
	}
	if s.Items != nil {
		items := schemaDefinition(s.Items)
		def.Items = &items
	}
	if len(s.Properties) > 0 {
		def.Properties = make(map[string]acctypes.SchemaDefinition, len(s.Properties))
		for k, v := range s.Properties {
			def.Properties[k] = schemaDefinition(v)
		}
	}
	return def
}
