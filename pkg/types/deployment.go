package types

// BackendRef points at the HTTP backend a target routes to. URL wins over the
// API Gateway identifiers.
type BackendRef struct {
	URL       string
	RestAPIID string
	Stage     string
	HTTPAPIID string
}

// DeploymentSpec drives a full role -> gateway -> log group -> target run.
type DeploymentSpec struct {
	RoleName         string
	Gateway          GatewaySpec
	Target           OpenAPITargetSpec
	Backend          BackendRef
	LogRetentionDays int32
}

// DeploymentState is what a deployment leaves behind.
type DeploymentState struct {
	RoleARN  string        `json:"role_arn,omitempty"`
	Gateway  GatewayResult `json:"gateway"`
	LogGroup string        `json:"log_group,omitempty"`
	Target   *TargetResult `json:"target,omitempty"`
}

// TeardownReport lists what a teardown deleted.
type TeardownReport struct {
	GatewayID      string   `json:"gateway_id"`
	DeletedTargets []string `json:"deleted_targets"`
	FailedTargets  []string `json:"failed_targets,omitempty"`
	GatewayDeleted bool     `json:"gateway_deleted"`
}
