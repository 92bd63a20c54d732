package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/raywall/terraform-provider-agentcore/provider/internal/awsfake"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/openapi"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/repository"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/secrets"
)

const testNamespace = "/app/test/agentcoregwy"

// harness wires every service onto in-memory fakes.
type harness struct {
	agentcore *awsfake.AgentCore
	ssm       *awsfake.SSM
	iam       *awsfake.IAM
	logs      *awsfake.Logs
	apigw     *awsfake.APIGateway

	params      *repository.ParameterRepository
	gateways    *GatewayService
	targets     *TargetService
	roles       *IAMService
	endpoints   *EndpointService
	cwlogs      *CWLogsService
	deployments *DeploymentService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		agentcore: awsfake.NewAgentCore(),
		ssm:       awsfake.NewSSM(nil),
		iam:       awsfake.NewIAM(),
		logs:      awsfake.NewLogs(),
		apigw: &awsfake.APIGateway{
			RestAPIs: map[string][]string{"abc123": {"prod"}},
			APIKeys:  map[string]string{"k1": "apigw-key"},
			HTTPAPIs: map[string]string{},
		},
	}

	seq := 0
	token := func() string {
		seq++
		return fmt.Sprintf("client-token-%d", seq)
	}

	h.params = &repository.ParameterRepository{API: h.ssm}
	gatewayRepo := &repository.GatewayRepository{API: h.agentcore}
	apigwRepo := &repository.APIGWRepository{REST: h.apigw, HTTP: h.apigw, Region: "us-east-1"}
	identity := &repository.IdentityRepository{
		API:    &awsfake.Cognito{PoolID: "us-east-1_pool", Domain: "demo", Secrets: map[string]string{"client-1": "s3cr3t"}},
		Region: "us-east-1",
	}

	h.gateways = &GatewayService{GatewayRepo: gatewayRepo, Params: h.params, Namespace: testNamespace, NewClientToken: token}
	h.targets = &TargetService{
		GatewayRepo:    gatewayRepo,
		CredentialRepo: &repository.CredentialProviderRepository{API: h.agentcore},
		LambdaRepo:     &repository.LambdaRepository{API: awsfake.Lambda{"orders": "arn:aws:lambda:us-east-1:123456789012:function:orders"}},
		Loader:         &openapi.Loader{},
		Secrets: secrets.NewRegistry(
			&secrets.SSMResolver{Params: h.params},
			&secrets.APIGatewayResolver{Keys: apigwRepo},
		),
		Namespace:      testNamespace,
		NewClientToken: token,
	}
	h.roles = &IAMService{
		IAMRepo:   &repository.IAMRepository{API: h.iam},
		Params:    h.params,
		Account:   awsfake.Account("123456789012"),
		Region:    "us-east-1",
		Namespace: testNamespace,
	}
	h.endpoints = &EndpointService{APIGWRepo: apigwRepo, Params: h.params, Namespace: testNamespace}
	h.cwlogs = &CWLogsService{CWLogsRepo: &repository.CWLogsRepository{API: h.logs, RetryDelay: time.Millisecond}}
	h.deployments = &DeploymentService{
		IAMService:      h.roles,
		GatewayService:  h.gateways,
		TargetService:   h.targets,
		EndpointService: h.endpoints,
		CWLogsService:   h.cwlogs,
		Params:          h.params,
		Identity:        identity,
		Namespace:       testNamespace,
	}
	return h
}

func (h *harness) seedIdentity() {
	h.ssm.Values[testNamespace+"/gateway_iam_role"] = "arn:aws:iam::123456789012:role/GwRole"
	h.ssm.Values[testNamespace+"/cognito_discovery_url"] = "https://cognito-idp.us-east-1.amazonaws.com/us-east-1_pool/.well-known/openid-configuration"
	h.ssm.Values[testNamespace+"/machine_client_id"] = "client-1"
	h.ssm.Values[testNamespace+"/api_key"] = "ssm-key"
}
