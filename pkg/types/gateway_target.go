package types

// GatewayTarget is a backend registered on a gateway.
type GatewayTarget struct {
	ID          string `json:"target_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

// OpenAPITargetSpec describes an OpenAPI target with API key injection.
type OpenAPITargetSpec struct {
	GatewayID   string
	TargetName  string
	Description string
	// SpecSource is a local path or an s3://bucket/key URI.
	SpecSource string
	BackendURL string

	CredentialProviderName  string
	CredentialLocation      CredentialLocation
	CredentialParameterName string
	CredentialPrefix        string
	// APIKeyRef is resolved only when the credential provider must be created.
	APIKeyRef string
}

// LambdaTargetSpec describes a Lambda function exposed through inline tool definitions.
type LambdaTargetSpec struct {
	GatewayID      string
	TargetName     string
	Description    string
	FunctionName   string
	ToolSchemaPath string
}

// TargetResult is the tagged result of registering a target.
type TargetResult struct {
	Outcome               Outcome `json:"outcome"`
	TargetID              string  `json:"target_id,omitempty"`
	CredentialProviderARN string  `json:"credential_provider_arn,omitempty"`
	Reason                string  `json:"reason,omitempty"`
}
