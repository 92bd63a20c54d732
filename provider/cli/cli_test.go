package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raywall/terraform-provider-agentcore/pkg/types"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/awsfake"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/config"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/models"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/models/modelstest"
)

const (
	sampleSpec  = "../internal/openapi/testdata/openapi_simple.json"
	sampleTools = "../internal/openapi/testdata/tools.json"
)

// execute runs the command tree against bundle and returns stdout.
func execute(t *testing.T, bundle *models.ConfigurationBundle, args ...string) (string, error) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("region: us-east-1\n"), 0o600))

	cmd := NewRootCmd(func(ctx context.Context, cfg *config.Config) (*models.ConfigurationBundle, error) {
		return bundle, nil
	})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", cfgPath, "--namespace", modelstest.Namespace}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func TestParamRoundTrip(t *testing.T) {
	bundle, fakes := modelstest.NewBundle()

	out, err := execute(t, bundle, "param", "put", "api_key", "k-123", "--type", "secure")
	require.NoError(t, err)
	assert.Contains(t, out, modelstest.Namespace+"/api_key")
	assert.Equal(t, "k-123", fakes.SSM.Values[modelstest.Namespace+"/api_key"])

	out, err = execute(t, bundle, "param", "get", "api_key")
	require.NoError(t, err)
	assert.Equal(t, "k-123\n", out)

	_, err = execute(t, bundle, "param", "delete", modelstest.Namespace+"/api_key")
	require.NoError(t, err)
	assert.NotContains(t, fakes.SSM.Values, modelstest.Namespace+"/api_key")
}

func TestParamPut_InvalidType(t *testing.T) {
	bundle, _ := modelstest.NewBundle()
	_, err := execute(t, bundle, "param", "put", "x", "y", "--type", "blob")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown parameter type")
}

func TestInvalidNamespace(t *testing.T) {
	bundle, _ := modelstest.NewBundle()
	_, err := execute(t, bundle, "--namespace", "relative", "param", "get", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestGatewayCreateTwice(t *testing.T) {
	bundle, fakes := modelstest.NewBundle()
	fakes.SeedIdentity()

	out, err := execute(t, bundle, "gateway", "create", "--name", "orders-gw")
	require.NoError(t, err)
	assert.Contains(t, out, "created")

	out, err = execute(t, bundle, "gateway", "create", "--name", "orders-gw")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
	assert.Len(t, fakes.AgentCore.Gateways, 1)

	out, err = execute(t, bundle, "--json", "gateway", "get")
	require.NoError(t, err)
	var gw types.Gateway
	require.NoError(t, json.Unmarshal([]byte(out), &gw))
	assert.Equal(t, fakes.SSM.Values[modelstest.Namespace+"/gateway_id"], gw.ID)
	assert.Equal(t, []string{modelstest.ClientID}, gw.Authorizer.AllowedClients)
}

func TestGatewayDelete_NoStoredID(t *testing.T) {
	bundle, _ := modelstest.NewBundle()
	_, err := execute(t, bundle, "gateway", "delete")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no gateway id given")
}

func TestTargetCommands(t *testing.T) {
	bundle, fakes := modelstest.NewBundle()
	fakes.SeedIdentity()
	fakes.AgentCore.AddGateway(&awsfake.Gateway{ID: "gw-1", Name: "orders-gw"})
	fakes.SSM.Values[modelstest.Namespace+"/gateway_id"] = "gw-1"

	out, err := execute(t, bundle, "target", "add-openapi",
		"--spec", sampleSpec,
		"--backend-url", "https://api.example.com/v1",
		"--name", "OrdersAPI",
		"--credential-provider", "OrdersKey")
	require.NoError(t, err)
	assert.Contains(t, out, "Target OrdersAPI created")
	assert.Contains(t, fakes.AgentCore.Providers, "OrdersKey")

	out, err = execute(t, bundle, "target", "add-lambda", "--function", "orders", "--tools", sampleTools)
	require.NoError(t, err)
	assert.Contains(t, out, "Target orders-tools created")

	out, err = execute(t, bundle, "target", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "OrdersAPI")
	assert.Contains(t, out, "orders-tools")
}

func TestTargetAddOpenAPI_ConflictingBackends(t *testing.T) {
	bundle, _ := modelstest.NewBundle()
	_, err := execute(t, bundle, "target", "add-openapi",
		"--gateway-id", "gw-1",
		"--backend-url", "https://api.example.com",
		"--http-api-id", "h1")
	require.Error(t, err)
}

func TestTargetAddOpenAPI_BadLocation(t *testing.T) {
	bundle, _ := modelstest.NewBundle()
	_, err := execute(t, bundle, "target", "add-openapi", "--gateway-id", "gw-1", "--location", "COOKIE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credential location")
}

func TestRoleEnsureAndDelete(t *testing.T) {
	bundle, fakes := modelstest.NewBundle()

	out, err := execute(t, bundle, "role", "ensure", "--name", "GwRole")
	require.NoError(t, err)
	assert.Contains(t, out, "Role GwRole ready")
	assert.Contains(t, fakes.IAM.Roles, "GwRole")
	assert.NotEmpty(t, fakes.SSM.Values[modelstest.Namespace+"/gateway_iam_role"])

	_, err = execute(t, bundle, "role", "delete", "--name", "GwRole")
	require.NoError(t, err)
	assert.NotContains(t, fakes.IAM.Roles, "GwRole")
}

func TestDeployAndDestroy(t *testing.T) {
	bundle, fakes := modelstest.NewBundle()
	fakes.SeedIdentity()
	delete(fakes.SSM.Values, modelstest.Namespace+"/gateway_iam_role")

	out, err := execute(t, bundle, "--json", "deploy",
		"--spec", sampleSpec,
		"--rest-api-id", "abc123",
		"--stage", "prod",
		"--log-retention", "7")
	require.NoError(t, err)

	var state types.DeploymentState
	require.NoError(t, json.Unmarshal([]byte(out), &state))
	assert.Equal(t, types.OutcomeCreated, state.Gateway.Outcome)
	require.NotNil(t, state.Target)
	assert.Equal(t, types.OutcomeCreated, state.Target.Outcome)
	assert.Contains(t, state.RoleARN, ":role/")
	assert.Equal(t, int32(7), fakes.Logs.Groups[state.LogGroup])

	gatewayID := state.Gateway.Gateway.ID
	out, err = execute(t, bundle, "destroy")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted gateway "+gatewayID)
	assert.Empty(t, fakes.AgentCore.Gateways)
	assert.NotContains(t, fakes.Logs.Groups, state.LogGroup)
	assert.NotContains(t, fakes.SSM.Values, modelstest.Namespace+"/gateway_id")
}

func TestDeploy_NoTarget(t *testing.T) {
	bundle, fakes := modelstest.NewBundle()
	fakes.SeedIdentity()

	out, err := execute(t, bundle, "deploy", "--no-target", "--log-retention", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "created")
	assert.Empty(t, fakes.AgentCore.Targets)
	assert.Empty(t, fakes.Logs.Groups)
}

func TestToken(t *testing.T) {
	bundle, fakes := modelstest.NewBundle()
	fakes.SeedIdentity()

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"client_id": modelstest.ClientID,
		"exp":       time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "s3cr3t", r.PostForm.Get("client_secret"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": access, "token_type": "Bearer", "expires_in": 3600})
	}))
	defer srv.Close()

	out, err := execute(t, bundle, "token", "--token-url", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, access+"\n", out)
}
