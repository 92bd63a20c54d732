// Package config loads settings for the CLI and the Terraform provider.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/raywall/terraform-provider-agentcore/pkg/types"
)

// DefaultNamespace is the Parameter Store path prefix used by the Asana demo.
const DefaultNamespace = "/app/asana/demo/agentcoregwy"

// Config holds every tunable setting. Zero values are filled from Default.
type Config struct {
	Region    string `yaml:"region"`
	Namespace string `yaml:"namespace"`

	Gateway GatewayConfig `yaml:"gateway"`
	Target  TargetConfig  `yaml:"target"`
	Token   TokenConfig   `yaml:"token"`
	Logs    LogsConfig    `yaml:"logs"`
}

// GatewayConfig configures the gateway and its execution role.
type GatewayConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	RoleName    string `yaml:"role_name"`
}

// TargetConfig configures the OpenAPI target and its API key credential provider.
type TargetConfig struct {
	Name                    string `yaml:"name"`
	Description             string `yaml:"description"`
	SpecPath                string `yaml:"spec_path"`
	CredentialProviderName  string `yaml:"credential_provider_name"`
	CredentialLocation      string `yaml:"credential_location"`
	CredentialParameterName string `yaml:"credential_parameter_name"`
	CredentialPrefix        string `yaml:"credential_prefix"`
	// APIKeyRef is a secret reference (ssm://, secretsmanager://, apigateway://).
	// Empty means the api_key parameter under the namespace.
	APIKeyRef string `yaml:"api_key_ref"`
}

// TokenConfig configures the client-credentials exchange.
type TokenConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	Scopes  []string      `yaml:"scopes"`
}

// LogsConfig configures the gateway log group.
type LogsConfig struct {
	RetentionDays int32 `yaml:"retention_days"`
}

// Default returns the configuration used by the original demo.
func Default() *Config {
	return &Config{
		Namespace: DefaultNamespace,
		Gateway: GatewayConfig{
			Name:        "agentcore-gw-asana-integration",
			Description: "Asana Integration Demo AgentCore Gateway",
			RoleName:    "AgentCoreGwyAsanaIntegrationRole",
		},
		Target: TargetConfig{
			Name:                    "AgentCoreGwyAPIGatewayTarget",
			Description:             "APIGateway Target for Asana and other 3P APIs",
			SpecPath:                "openapi-spec/openapi_simple.json",
			CredentialProviderName:  "AgentCoreAPIGatewayAPIKey",
			CredentialLocation:      string(types.LocationQueryParameter),
			CredentialParameterName: "api_key",
		},
		Token: TokenConfig{
			Timeout: 30 * time.Second,
		},
		Logs: LogsConfig{
			RetentionDays: 14,
		},
	}
}

// Dir returns ~/.agentcore-gw.
func Dir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".agentcore-gw")
	}
	return filepath.Join(homeDir, ".agentcore-gw")
}

// Load reads the config file at path (or ~/.agentcore-gw/config.yaml when path
// is empty) and applies environment overrides. A missing default file is not an
// error; a missing explicit file is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(Dir(), "config.yaml")
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("AWS_REGION"); v != "" && cfg.Region == "" {
		cfg.Region = v
	}
	if v := os.Getenv("AGENTCORE_NAMESPACE"); v != "" {
		cfg.Namespace = v
	}
	if v := os.Getenv("AGENTCORE_GATEWAY_NAME"); v != "" {
		cfg.Gateway.Name = v
	}
	if v := os.Getenv("AGENTCORE_SPEC_PATH"); v != "" {
		cfg.Target.SpecPath = v
	}
	if v := os.Getenv("AGENTCORE_TOKEN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Token.Timeout = d
		} else if secs, err := strconv.Atoi(v); err == nil {
			cfg.Token.Timeout = time.Duration(secs) * time.Second
		}
	}
}

// Validate rejects settings that would fail later against AWS.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Namespace, "/") {
		return fmt.Errorf("namespace %q must start with /", c.Namespace)
	}
	if strings.TrimSpace(c.Gateway.Name) == "" {
		return fmt.Errorf("gateway name is required")
	}
	if strings.TrimSpace(c.Target.CredentialProviderName) == "" {
		return fmt.Errorf("credential provider name is required")
	}
	if _, err := types.ParseCredentialLocation(c.Target.CredentialLocation); err != nil {
		return err
	}
	if c.Token.Timeout <= 0 {
		return fmt.Errorf("token timeout must be positive")
	}
	return nil
}

// Param returns the full Parameter Store name of key under the namespace.
func (c *Config) Param(key string) string {
	return ParamName(c.Namespace, key)
}

// ParamName joins a namespace and a key into a parameter name.
func ParamName(namespace, key string) string {
	return strings.TrimRight(namespace, "/") + "/" + strings.TrimLeft(key, "/")
}

// Parameter keys stored under the namespace.
const (
	ParamMachineClientID = "machine_client_id"
	ParamDiscoveryURL    = "cognito_discovery_url"
	ParamGatewayRole     = "gateway_iam_role"
	ParamGatewayID       = "gateway_id"
	ParamAPIGatewayURL   = "apigateway_url"
	ParamAPIKey          = "api_key"
	ParamUserPoolID      = "userpool_id"
	ParamTokenURL        = "cognito_token_url"
)
