// Package awsfake provides in-memory stand-ins for the AWS APIs used by the
// repositories. They record every call so tests can assert ordering.
package awsfake

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	acc "github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol"
	acctypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol/types"
	"github.com/aws/smithy-go"
)

// APIError builds a smithy API error with the given code.
func APIError(code, msg string) error {
	return &smithy.GenericAPIError{Code: code, Message: msg}
}

// Gateway is a stored fake gateway.
type Gateway struct {
	ID, Name, URL, ARN, RoleARN string
	DiscoveryURL                string
	AllowedClients              []string
}

// Target is a stored fake gateway target.
type Target struct {
	ID, Name, Description string
	Input                 *acc.CreateGatewayTargetInput
}

// AgentCore is an in-memory AgentCore control plane.
type AgentCore struct {
	mu sync.Mutex

	Gateways  map[string]*Gateway
	Targets   map[string][]*Target
	Providers map[string]string // name -> ARN

	// Calls records operation names in order, e.g. "DeleteGatewayTarget:t-1".
	Calls []string

	// Errors injected per operation name; consumed on use when Once is set.
	Errors map[string]error
	Once   bool

	// FailTargets makes DeleteGatewayTarget fail for these target IDs.
	FailTargets map[string]bool

	seq int
}

// NewAgentCore returns an empty fake.
func NewAgentCore() *AgentCore {
	return &AgentCore{
		Gateways:    map[string]*Gateway{},
		Targets:     map[string][]*Target{},
		Providers:   map[string]string{},
		Errors:      map[string]error{},
		FailTargets: map[string]bool{},
	}
}

func (f *AgentCore) record(call string) error {
	f.Calls = append(f.Calls, call)
	op := call
	for i := range call {
		if call[i] == ':' {
			op = call[:i]
			break
		}
	}
	if err, ok := f.Errors[op]; ok {
		if f.Once {
			delete(f.Errors, op)
		}
		return err
	}
	return nil
}

func (f *AgentCore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%04d", prefix, f.seq)
}

// AddGateway seeds a gateway directly.
func (f *AgentCore) AddGateway(gw *Gateway) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Gateways[gw.ID] = gw
}

// AddTarget seeds a target directly.
func (f *AgentCore) AddTarget(gatewayID string, t *Target) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Targets[gatewayID] = append(f.Targets[gatewayID], t)
}

func (f *AgentCore) CreateGateway(ctx context.Context, in *acc.CreateGatewayInput, _ ...func(*acc.Options)) (*acc.CreateGatewayOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := aws.ToString(in.Name)
	if err := f.record("CreateGateway:" + name); err != nil {
		return nil, err
	}
	for _, gw := range f.Gateways {
		if gw.Name == name {
			return nil, APIError("ConflictException", fmt.Sprintf("Gateway with name %s already exists", name))
		}
	}
	id := f.nextID(name)
	gw := &Gateway{
		ID:      id,
		Name:    name,
		URL:     fmt.Sprintf("https://%s.gateway.bedrock-agentcore.us-east-1.amazonaws.com/mcp", id),
		ARN:     "arn:aws:bedrock-agentcore:us-east-1:123456789012:gateway/" + id,
		RoleARN: aws.ToString(in.RoleArn),
	}
	if jwt, ok := in.AuthorizerConfiguration.(*acctypes.AuthorizerConfigurationMemberCustomJWTAuthorizer); ok {
		gw.DiscoveryURL = aws.ToString(jwt.Value.DiscoveryUrl)
		gw.AllowedClients = jwt.Value.AllowedClients
	}
	f.Gateways[id] = gw
	return &acc.CreateGatewayOutput{
		GatewayId:  aws.String(gw.ID),
		GatewayUrl: aws.String(gw.URL),
		GatewayArn: aws.String(gw.ARN),
		Name:       aws.String(gw.Name),
		Status:     "CREATING",
	}, nil
}

func (f *AgentCore) GetGateway(ctx context.Context, in *acc.GetGatewayInput, _ ...func(*acc.Options)) (*acc.GetGatewayOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := aws.ToString(in.GatewayIdentifier)
	if err := f.record("GetGateway:" + id); err != nil {
		return nil, err
	}
	gw, ok := f.Gateways[id]
	if !ok {
		return nil, APIError("ResourceNotFoundException", "gateway not found")
	}
	return &acc.GetGatewayOutput{
		GatewayId:  aws.String(gw.ID),
		GatewayUrl: aws.String(gw.URL),
		GatewayArn: aws.String(gw.ARN),
		Name:       aws.String(gw.Name),
		Status:     "READY",
		AuthorizerConfiguration: &acctypes.AuthorizerConfigurationMemberCustomJWTAuthorizer{
			Value: acctypes.CustomJWTAuthorizerConfiguration{
				DiscoveryUrl:   aws.String(gw.DiscoveryURL),
				AllowedClients: gw.AllowedClients,
			},
		},
	}, nil
}

func (f *AgentCore) DeleteGateway(ctx context.Context, in *acc.DeleteGatewayInput, _ ...func(*acc.Options)) (*acc.DeleteGatewayOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := aws.ToString(in.GatewayIdentifier)
	if err := f.record("DeleteGateway:" + id); err != nil {
		return nil, err
	}
	if _, ok := f.Gateways[id]; !ok {
		return nil, APIError("ResourceNotFoundException", "gateway not found")
	}
	if len(f.Targets[id]) > 0 {
		return nil, APIError("ConflictException", "gateway still has targets")
	}
	delete(f.Gateways, id)
	return &acc.DeleteGatewayOutput{GatewayId: aws.String(id)}, nil
}

func (f *AgentCore) CreateGatewayTarget(ctx context.Context, in *acc.CreateGatewayTargetInput, _ ...func(*acc.Options)) (*acc.CreateGatewayTargetOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	gwID := aws.ToString(in.GatewayIdentifier)
	name := aws.ToString(in.Name)
	if err := f.record("CreateGatewayTarget:" + name); err != nil {
		return nil, err
	}
	if _, ok := f.Gateways[gwID]; !ok {
		return nil, APIError("ResourceNotFoundException", "gateway not found")
	}
	for _, t := range f.Targets[gwID] {
		if t.Name == name {
			return nil, APIError("ConflictException", "target already exists")
		}
	}
	t := &Target{ID: f.nextID("target"), Name: name, Description: aws.ToString(in.Description), Input: in}
	f.Targets[gwID] = append(f.Targets[gwID], t)
	return &acc.CreateGatewayTargetOutput{TargetId: aws.String(t.ID), Name: aws.String(name), Status: "CREATING"}, nil
}

func (f *AgentCore) GetGatewayTarget(ctx context.Context, in *acc.GetGatewayTargetInput, _ ...func(*acc.Options)) (*acc.GetGatewayTargetOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := aws.ToString(in.TargetId)
	if err := f.record("GetGatewayTarget:" + id); err != nil {
		return nil, err
	}
	for _, t := range f.Targets[aws.ToString(in.GatewayIdentifier)] {
		if t.ID == id {
			return &acc.GetGatewayTargetOutput{TargetId: aws.String(t.ID), Name: aws.String(t.Name), Description: aws.String(t.Description), Status: "READY"}, nil
		}
	}
	return nil, APIError("ResourceNotFoundException", "target not found")
}

func (f *AgentCore) ListGatewayTargets(ctx context.Context, in *acc.ListGatewayTargetsInput, _ ...func(*acc.Options)) (*acc.ListGatewayTargetsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	gwID := aws.ToString(in.GatewayIdentifier)
	if err := f.record("ListGatewayTargets:" + gwID); err != nil {
		return nil, err
	}
	max := int(aws.ToInt32(in.MaxResults))
	out := &acc.ListGatewayTargetsOutput{}
	for i, t := range f.Targets[gwID] {
		if max > 0 && i >= max {
			out.NextToken = aws.String("more")
			break
		}
		out.Items = append(out.Items, acctypes.TargetSummary{
			TargetId: aws.String(t.ID),
			Name:     aws.String(t.Name),
			Status:   "READY",
		})
	}
	return out, nil
}

func (f *AgentCore) DeleteGatewayTarget(ctx context.Context, in *acc.DeleteGatewayTargetInput, _ ...func(*acc.Options)) (*acc.DeleteGatewayTargetOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	gwID := aws.ToString(in.GatewayIdentifier)
	id := aws.ToString(in.TargetId)
	if err := f.record("DeleteGatewayTarget:" + id); err != nil {
		return nil, err
	}
	if f.FailTargets[id] {
		return nil, APIError("InternalServerException", "target deletion failed")
	}
	targets := f.Targets[gwID]
	for i, t := range targets {
		if t.ID == id {
			f.Targets[gwID] = append(targets[:i:i], targets[i+1:]...)
			if len(f.Targets[gwID]) == 0 {
				delete(f.Targets, gwID)
			}
			return &acc.DeleteGatewayTargetOutput{TargetId: aws.String(id)}, nil
		}
	}
	return nil, APIError("ResourceNotFoundException", "target not found")
}

func (f *AgentCore) GetApiKeyCredentialProvider(ctx context.Context, in *acc.GetApiKeyCredentialProviderInput, _ ...func(*acc.Options)) (*acc.GetApiKeyCredentialProviderOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := aws.ToString(in.Name)
	if err := f.record("GetApiKeyCredentialProvider:" + name); err != nil {
		return nil, err
	}
	arn, ok := f.Providers[name]
	if !ok {
		return nil, APIError("ResourceNotFoundException", "credential provider not found")
	}
	return &acc.GetApiKeyCredentialProviderOutput{Name: aws.String(name), CredentialProviderArn: aws.String(arn)}, nil
}

func (f *AgentCore) CreateApiKeyCredentialProvider(ctx context.Context, in *acc.CreateApiKeyCredentialProviderInput, _ ...func(*acc.Options)) (*acc.CreateApiKeyCredentialProviderOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := aws.ToString(in.Name)
	if err := f.record("CreateApiKeyCredentialProvider:" + name); err != nil {
		return nil, err
	}
	if _, ok := f.Providers[name]; ok {
		return nil, APIError("ConflictException", "credential provider already exists")
	}
	arn := "arn:aws:bedrock-agentcore:us-east-1:123456789012:token-vault/default/apikeycredentialprovider/" + name
	f.Providers[name] = arn
	return &acc.CreateApiKeyCredentialProviderOutput{Name: aws.String(name), CredentialProviderArn: aws.String(arn)}, nil
}

func (f *AgentCore) DeleteApiKeyCredentialProvider(ctx context.Context, in *acc.DeleteApiKeyCredentialProviderInput, _ ...func(*acc.Options)) (*acc.DeleteApiKeyCredentialProviderOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := aws.ToString(in.Name)
	if err := f.record("DeleteApiKeyCredentialProvider:" + name); err != nil {
		return nil, err
	}
	if _, ok := f.Providers[name]; !ok {
		return nil, APIError("ResourceNotFoundException", "credential provider not found")
	}
	delete(f.Providers, name)
	return &acc.DeleteApiKeyCredentialProviderOutput{}, nil
}

// CallsWithPrefix filters Calls by operation name.
func (f *AgentCore) CallsWithPrefix(op string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.Calls {
		if len(c) >= len(op) && c[:len(op)] == op {
			out = append(out, c)
		}
	}
	return out
}
