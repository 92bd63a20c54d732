// Package modelstest builds a ConfigurationBundle on in-memory AWS fakes.
package modelstest

import (
	"time"

	"github.com/raywall/terraform-provider-agentcore/provider/internal/awsfake"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/config"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/models"
)

const (
	Namespace = "/app/test/agentcoregwy"
	Region    = "us-east-1"
	AccountID = "123456789012"
	PoolID    = "us-east-1_pool"
	ClientID  = "client-1"
)

// Fakes groups the fakes behind a bundle so tests can seed and inspect them.
type Fakes struct {
	AgentCore  *awsfake.AgentCore
	SSM        *awsfake.SSM
	Cognito    *awsfake.Cognito
	IAM        *awsfake.IAM
	Logs       *awsfake.Logs
	APIGateway *awsfake.APIGateway
	Lambda     awsfake.Lambda
}

// NewBundle returns a bundle under Namespace backed by fresh fakes. IAM
// propagation waits are disabled.
func NewBundle() (*models.ConfigurationBundle, *Fakes) {
	f := &Fakes{
		AgentCore: awsfake.NewAgentCore(),
		SSM:       awsfake.NewSSM(nil),
		Cognito: &awsfake.Cognito{
			PoolID:  PoolID,
			Domain:  "demo",
			Secrets: map[string]string{ClientID: "s3cr3t"},
		},
		IAM:  awsfake.NewIAM(),
		Logs: awsfake.NewLogs(),
		APIGateway: &awsfake.APIGateway{
			RestAPIs: map[string][]string{"abc123": {"prod"}},
			APIKeys:  map[string]string{"k1": "apigw-key"},
			HTTPAPIs: map[string]string{"h1": "https://h1.execute-api.us-east-1.amazonaws.com"},
		},
		Lambda: awsfake.Lambda{"orders": "arn:aws:lambda:us-east-1:123456789012:function:orders"},
	}

	cfg := config.Default()
	cfg.Region = Region
	cfg.Namespace = Namespace
	cfg.Token.Timeout = 5 * time.Second

	bundle := models.NewConfigurationBundle(models.Backends{
		AgentCore: f.AgentCore,
		SSM:       f.SSM,
		Cognito:   f.Cognito,
		IAM:       f.IAM,
		CWLogs:    f.Logs,
		REST:      f.APIGateway,
		HTTP:      f.APIGateway,
		Lambda:    f.Lambda,
		Account:   awsfake.Account(AccountID),
		Region:    Region,
	}, cfg)
	bundle.IAMService.PropagationDelay = 0
	return bundle, f
}

// SeedIdentity stores the role, discovery URL, client ID and API key
// parameters a deployment reads.
func (f *Fakes) SeedIdentity() {
	f.SSM.Values[Namespace+"/gateway_iam_role"] = "arn:aws:iam::" + AccountID + ":role/GwRole"
	f.SSM.Values[Namespace+"/cognito_discovery_url"] = "https://cognito-idp.us-east-1.amazonaws.com/" + PoolID + "/.well-known/openid-configuration"
	f.SSM.Values[Namespace+"/machine_client_id"] = ClientID
	f.SSM.Values[Namespace+"/userpool_id"] = PoolID
	f.SSM.Values[Namespace+"/api_key"] = "ssm-key"
}
