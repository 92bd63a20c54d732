package service

import (
	"context"
	"fmt"
	"time"

	"github.com/raywall/terraform-provider-agentcore/provider/internal/config"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/log"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/repository"
)

const (
	// GatewayPolicyName is the inline policy attached to gateway roles.
	GatewayPolicyName = "AgentCoreGatewayPolicy"

	// DefaultRolePropagationDelay covers IAM eventual consistency.
	DefaultRolePropagationDelay = 10 * time.Second
)

// AccountResolver returns the caller account ID.
type AccountResolver interface {
	AccountID(ctx context.Context) (string, error)
}

// IAMService manages the execution role assumed by gateways.
type IAMService struct {
	IAMRepo   *repository.IAMRepository
	Params    *repository.ParameterRepository
	Account   AccountResolver
	Region    string
	Namespace string

	// PropagationDelay is waited after the role is written so the gateway
	// service can assume it.
	PropagationDelay time.Duration
}

// GatewayRolePolicy grants the gateway access to AgentCore and lets it invoke
// Lambda targets.
func GatewayRolePolicy() repository.PolicyDocument {
	return repository.PolicyDocument{
		Version: "2012-10-17",
		Statement: []repository.PolicyStatement{
			{
				Sid:      "AgentCoreAccess",
				Effect:   "Allow",
				Action:   []string{"bedrock-agentcore:*"},
				Resource: "*",
			},
			{
				Sid:      "InvokeLambdaTargets",
				Effect:   "Allow",
				Action:   []string{"lambda:InvokeFunction"},
				Resource: "*",
			},
		},
	}
}

// CheckRoleExists reports whether the role is present.
func (s *IAMService) CheckRoleExists(ctx context.Context, roleName string) (bool, error) {
	_, err := s.IAMRepo.GetRole(ctx, roleName)
	if repository.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

// EnsureGatewayRole creates or reuses the role, refreshes its inline policy
// and records its ARN under the namespace.
func (s *IAMService) EnsureGatewayRole(ctx context.Context, roleName string) (string, error) {
	if roleName == "" {
		return "", fmt.Errorf("role name is required")
	}
	account, err := s.Account.AccountID(ctx)
	if err != nil {
		return "", err
	}

	log.Info("ensuring gateway role", "role", roleName)
	arn, err := s.IAMRepo.CreateRole(ctx, roleName, "Execution role for AgentCore gateways",
		repository.GatewayTrustPolicy(account, s.Region))
	if err != nil {
		return "", fmt.Errorf("creating role %s: %w", roleName, err)
	}
	if err := s.IAMRepo.PutInlinePolicy(ctx, roleName, GatewayPolicyName, GatewayRolePolicy()); err != nil {
		return "", fmt.Errorf("attaching policy to %s: %w", roleName, err)
	}
	if err := s.Params.PutString(ctx, config.ParamName(s.Namespace, config.ParamGatewayRole), arn); err != nil {
		return "", fmt.Errorf("storing role arn: %w", err)
	}

	if s.PropagationDelay > 0 {
		log.Debug("waiting for IAM propagation", "role", roleName, "delay", s.PropagationDelay)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.PropagationDelay):
		}
	}
	return arn, nil
}

// StoredRoleARN returns the role ARN recorded under the namespace.
func (s *IAMService) StoredRoleARN(ctx context.Context) (string, error) {
	return s.Params.Get(ctx, config.ParamName(s.Namespace, config.ParamGatewayRole), true)
}

// DeleteGatewayRole removes the inline policy, the role and its parameter.
func (s *IAMService) DeleteGatewayRole(ctx context.Context, roleName string) error {
	if err := s.IAMRepo.DeleteInlinePolicy(ctx, roleName, GatewayPolicyName); err != nil {
		return err
	}
	if err := s.IAMRepo.DeleteRole(ctx, roleName); err != nil {
		return err
	}
	return s.Params.Delete(ctx, config.ParamName(s.Namespace, config.ParamGatewayRole))
}
