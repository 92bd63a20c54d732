package models

import (
	"github.com/raywall/terraform-provider-agentcore/provider/internal/client"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/config"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/openapi"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/repository"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/secrets"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/service"
)

// AgentCoreAPI is the control-plane subset used for gateways, targets and
// credential providers.
type AgentCoreAPI interface {
	repository.GatewayAPI
	repository.CredentialProviderAPI
}

// Backends are the AWS APIs the bundle is built on. Optional members
// (SecretsManager, S3, HTTP) may be nil; the features that need them are then
// unavailable.
type Backends struct {
	AgentCore      AgentCoreAPI
	SSM            repository.SSMAPI
	Cognito        repository.CognitoAPI
	IAM            repository.IAMAPI
	CWLogs         repository.CWLogsAPI
	REST           repository.APIGWAPI
	HTTP           repository.APIGWv2API
	Lambda         repository.LambdaAPI
	S3             repository.S3API
	SecretsManager secrets.SecretsManagerAPI
	Account        service.AccountResolver
	Region         string
}

// BackendsFromClient exposes the AWS SDK clients as Backends.
func BackendsFromClient(c *client.AWSClient) Backends {
	return Backends{
		AgentCore:      c.AgentCore,
		SSM:            c.SSM,
		Cognito:        c.Cognito,
		IAM:            c.IAM,
		CWLogs:         c.CWLogs,
		REST:           c.APIGW,
		HTTP:           c.APIGWv2,
		Lambda:         c.Lambda,
		S3:             c.S3,
		SecretsManager: c.SecretsManager,
		Account:        c,
		Region:         c.Region,
	}
}

// ConfigurationBundle holds the services handed to the Terraform resources
// and the CLI commands.
type ConfigurationBundle struct {
	Config *config.Config

	Params         *repository.ParameterRepository
	Secrets        *secrets.Registry
	TokenService   *service.TokenService
	IAMService     *service.IAMService
	GatewayService *service.GatewayService
	TargetService  *service.TargetService
	DeployService  *service.DeploymentService
}

// NewConfigurationBundle wires repositories and services on top of b.
func NewConfigurationBundle(b Backends, cfg *config.Config) *ConfigurationBundle {
	ns := cfg.Namespace

	// Repositories
	params := &repository.ParameterRepository{API: b.SSM}
	identity := &repository.IdentityRepository{API: b.Cognito, Region: b.Region}
	gatewayRepo := &repository.GatewayRepository{API: b.AgentCore}
	credentialRepo := &repository.CredentialProviderRepository{API: b.AgentCore}
	iamRepo := &repository.IAMRepository{API: b.IAM}
	cwLogsRepo := &repository.CWLogsRepository{API: b.CWLogs}
	apigwRepo := &repository.APIGWRepository{REST: b.REST, HTTP: b.HTTP, Region: b.Region}
	lambdaRepo := &repository.LambdaRepository{API: b.Lambda}

	resolvers := []secrets.Resolver{
		&secrets.SSMResolver{Params: params},
		&secrets.APIGatewayResolver{Keys: apigwRepo},
	}
	if b.SecretsManager != nil {
		resolvers = append(resolvers, &secrets.SecretsManagerResolver{API: b.SecretsManager})
	}
	registry := secrets.NewRegistry(resolvers...)

	loader := &openapi.Loader{}
	if b.S3 != nil {
		loader.Objects = &repository.ObjectRepository{API: b.S3}
	}

	// Services
	tokenService := &service.TokenService{
		Params:    params,
		Identity:  identity,
		Namespace: ns,
		Timeout:   cfg.Token.Timeout,
		Scopes:    cfg.Token.Scopes,
	}
	iamService := &service.IAMService{
		IAMRepo:          iamRepo,
		Params:           params,
		Account:          b.Account,
		Region:           b.Region,
		Namespace:        ns,
		PropagationDelay: service.DefaultRolePropagationDelay,
	}
	gatewayService := &service.GatewayService{GatewayRepo: gatewayRepo, Params: params, Namespace: ns}
	targetService := &service.TargetService{
		GatewayRepo:    gatewayRepo,
		CredentialRepo: credentialRepo,
		LambdaRepo:     lambdaRepo,
		Loader:         loader,
		Secrets:        registry,
		Namespace:      ns,
	}

	// Facade
	deployService := &service.DeploymentService{
		IAMService:      iamService,
		GatewayService:  gatewayService,
		TargetService:   targetService,
		EndpointService: &service.EndpointService{APIGWRepo: apigwRepo, Params: params, Namespace: ns},
		CWLogsService:   &service.CWLogsService{CWLogsRepo: cwLogsRepo},
		TokenService:    tokenService,
		Params:          params,
		Identity:        identity,
		Namespace:       ns,
	}

	return &ConfigurationBundle{
		Config:         cfg,
		Params:         params,
		Secrets:        registry,
		TokenService:   tokenService,
		IAMService:     iamService,
		GatewayService: gatewayService,
		TargetService:  targetService,
		DeployService:  deployService,
	}
}
