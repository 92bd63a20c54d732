package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	iam "github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
)

// IAMAPI is the IAM subset used for the gateway execution role.
type IAMAPI interface {
	GetRole(ctx context.Context, params *iam.GetRoleInput, optFns ...func(*iam.Options)) (*iam.GetRoleOutput, error)
	CreateRole(ctx context.Context, params *iam.CreateRoleInput, optFns ...func(*iam.Options)) (*iam.CreateRoleOutput, error)
	PutRolePolicy(ctx context.Context, params *iam.PutRolePolicyInput, optFns ...func(*iam.Options)) (*iam.PutRolePolicyOutput, error)
	DeleteRolePolicy(ctx context.Context, params *iam.DeleteRolePolicyInput, optFns ...func(*iam.Options)) (*iam.DeleteRolePolicyOutput, error)
	DeleteRole(ctx context.Context, params *iam.DeleteRoleInput, optFns ...func(*iam.Options)) (*iam.DeleteRoleOutput, error)
}

// IAMRepository wraps the low level IAM role calls.
type IAMRepository struct {
	API IAMAPI
}

// GatewayServicePrincipal is the principal that assumes gateway roles.
const GatewayServicePrincipal = "bedrock-agentcore.amazonaws.com"

// PolicyDocument is an IAM policy or trust document.
type PolicyDocument struct {
	Version   string            `json:"Version"`
	Statement []PolicyStatement `json:"Statement"`
}

// PolicyStatement is one statement of a PolicyDocument.
type PolicyStatement struct {
	Sid       string            `json:"Sid,omitempty"`
	Effect    string            `json:"Effect"`
	Principal map[string]string `json:"Principal,omitempty"`
	Action    any               `json:"Action"`
	Resource  any               `json:"Resource,omitempty"`
	Condition map[string]any    `json:"Condition,omitempty"`
}

// GatewayTrustPolicy lets the AgentCore service assume the role on behalf of
// gateways in accountID and region only.
func GatewayTrustPolicy(accountID, region string) PolicyDocument {
	return PolicyDocument{
		Version: "2012-10-17",
		Statement: []PolicyStatement{{
			Sid:       "AssumeRolePolicy",
			Effect:    "Allow",
			Principal: map[string]string{"Service": GatewayServicePrincipal},
			Action:    "sts:AssumeRole",
			Condition: map[string]any{
				"StringEquals": map[string]string{"aws:SourceAccount": accountID},
				"ArnLike": map[string]string{
					"aws:SourceArn": fmt.Sprintf("arn:aws:bedrock-agentcore:%s:%s:*", region, accountID),
				},
			},
		}},
	}
}

// GetRole returns the role or *NotFoundError.
func (r *IAMRepository) GetRole(ctx context.Context, roleName string) (*iamtypes.Role, error) {
	out, err := r.API.GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String(roleName)})
	if err != nil {
		return nil, classify(err, "GetRole", "role", roleName)
	}
	return out.Role, nil
}

// CreateRole creates the role with the given trust policy. An existing role
// is returned as is.
func (r *IAMRepository) CreateRole(ctx context.Context, roleName, description string, trust PolicyDocument) (string, error) {
	doc, err := json.Marshal(trust)
	if err != nil {
		return "", fmt.Errorf("encoding trust policy: %w", err)
	}
	input := &iam.CreateRoleInput{
		RoleName:                 aws.String(roleName),
		AssumeRolePolicyDocument: aws.String(string(doc)),
	}
	if description != "" {
		input.Description = aws.String(description)
	}

	out, err := r.API.CreateRole(ctx, input)
	if err != nil {
		if isConflict(err) {
			existing, gerr := r.GetRole(ctx, roleName)
			if gerr != nil {
				return "", gerr
			}
			return aws.ToString(existing.Arn), nil
		}
		return "", classify(err, "CreateRole", "role", roleName)
	}
	return aws.ToString(out.Role.Arn), nil
}

// PutInlinePolicy creates or replaces an inline policy of the role.
func (r *IAMRepository) PutInlinePolicy(ctx context.Context, roleName, policyName string, policy PolicyDocument) error {
	doc, err := json.Marshal(policy)
	if err != nil {
		return fmt.Errorf("encoding policy %s: %w", policyName, err)
	}
	_, err = r.API.PutRolePolicy(ctx, &iam.PutRolePolicyInput{
		RoleName:       aws.String(roleName),
		PolicyName:     aws.String(policyName),
		PolicyDocument: aws.String(string(doc)),
	})
	return classify(err, "PutRolePolicy", "role", roleName)
}

// DeleteInlinePolicy removes an inline policy; a missing one is ignored.
func (r *IAMRepository) DeleteInlinePolicy(ctx context.Context, roleName, policyName string) error {
	_, err := r.API.DeleteRolePolicy(ctx, &iam.DeleteRolePolicyInput{
		RoleName:   aws.String(roleName),
		PolicyName: aws.String(policyName),
	})
	if err != nil && !isNotFound(err) {
		return classify(err, "DeleteRolePolicy", "role", roleName)
	}
	return nil
}

// DeleteRole deletes the role; a missing one is ignored.
func (r *IAMRepository) DeleteRole(ctx context.Context, roleName string) error {
	_, err := r.API.DeleteRole(ctx, &iam.DeleteRoleInput{RoleName: aws.String(roleName)})
	if err != nil && !isNotFound(err) {
		return classify(err, "DeleteRole", "role", roleName)
	}
	return nil
}
