package types

// GatewayAuthorizer is the custom JWT authorizer attached to a gateway.
type GatewayAuthorizer struct {
	DiscoveryURL   string   `json:"discovery_url"`
	AllowedClients []string `json:"allowed_clients"`
}

// Gateway is a managed AgentCore gateway.
type Gateway struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	URL        string            `json:"gateway_url"`
	ARN        string            `json:"gateway_arn"`
	Status     string            `json:"status,omitempty"`
	Authorizer GatewayAuthorizer `json:"authorizer"`
}

// GatewaySpec holds the inputs of a create-or-get call.
type GatewaySpec struct {
	Name             string
	Description      string
	RoleARN          string
	DiscoveryURL     string
	AllowedClientIDs []string
}

// GatewayResult is the tagged result of provisioning a gateway.
type GatewayResult struct {
	Outcome Outcome  `json:"outcome"`
	Gateway *Gateway `json:"gateway,omitempty"`
	Reason  string   `json:"reason,omitempty"`
}
