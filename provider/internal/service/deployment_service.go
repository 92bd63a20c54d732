package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/raywall/terraform-provider-agentcore/pkg/types"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/config"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/log"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/repository"
)

// DeploymentService orchestrates role, gateway, log group and target for the
// CLI and the Terraform resources.
type DeploymentService struct {
	IAMService      *IAMService
	GatewayService  *GatewayService
	TargetService   *TargetService
	EndpointService *EndpointService
	CWLogsService   *CWLogsService
	TokenService    *TokenService
	Params          *repository.ParameterRepository
	Identity        *repository.IdentityRepository
	Namespace       string
}

func (s *DeploymentService) param(ctx context.Context, key string) (string, error) {
	return s.Params.Get(ctx, config.ParamName(s.Namespace, key), true)
}

// CompleteGatewaySpec fills an empty role ARN, discovery URL or client list
// from the namespace parameters, as written by the identity setup.
func (s *DeploymentService) CompleteGatewaySpec(ctx context.Context, spec types.GatewaySpec) (types.GatewaySpec, error) {
	var err error
	if spec.RoleARN == "" {
		if spec.RoleARN, err = s.param(ctx, config.ParamGatewayRole); err != nil {
			return spec, fmt.Errorf("reading gateway role: %w", err)
		}
	}
	if spec.DiscoveryURL == "" {
		spec.DiscoveryURL, err = s.param(ctx, config.ParamDiscoveryURL)
		if repository.IsNotFound(err) {
			pool, perr := s.param(ctx, config.ParamUserPoolID)
			if perr != nil {
				return spec, fmt.Errorf("reading discovery url: %w", errors.Join(err, perr))
			}
			spec.DiscoveryURL, err = s.Identity.DiscoveryURL(pool), nil
		}
		if err != nil {
			return spec, fmt.Errorf("reading discovery url: %w", err)
		}
	}
	if len(spec.AllowedClientIDs) == 0 {
		id, err := s.param(ctx, config.ParamMachineClientID)
		if err != nil {
			return spec, fmt.Errorf("reading machine client id: %w", err)
		}
		spec.AllowedClientIDs = []string{id}
	}
	return spec, nil
}

// Deploy runs role (when RoleName is set and no ARN given), gateway, log
// group (when a retention is set) and OpenAPI target (when a spec source is
// set). It stops at the first failing step and returns what was done.
func (s *DeploymentService) Deploy(ctx context.Context, spec types.DeploymentSpec) (*types.DeploymentState, error) {
	state := &types.DeploymentState{}

	if spec.Gateway.RoleARN == "" && spec.RoleName != "" {
		arn, err := s.IAMService.EnsureGatewayRole(ctx, spec.RoleName)
		if err != nil {
			return state, fmt.Errorf("IAM role setup failed: %w", err)
		}
		spec.Gateway.RoleARN = arn
	}
	state.RoleARN = spec.Gateway.RoleARN

	gwSpec, err := s.CompleteGatewaySpec(ctx, spec.Gateway)
	if err != nil {
		state.Gateway = failedGateway(err)
		return state, err
	}
	state.RoleARN = gwSpec.RoleARN

	state.Gateway, err = s.GatewayService.CreateOrGet(ctx, gwSpec)
	if err != nil {
		return state, fmt.Errorf("gateway setup failed: %w", err)
	}
	gatewayID := state.Gateway.Gateway.ID

	if spec.LogRetentionDays > 0 {
		if state.LogGroup, err = s.CWLogsService.EnsureGatewayLogGroup(ctx, gatewayID, spec.LogRetentionDays); err != nil {
			return state, fmt.Errorf("log group setup failed: %w", err)
		}
	}

	if spec.Target.SpecSource == "" {
		return state, nil
	}

	target := spec.Target
	target.GatewayID = gatewayID
	if target.BackendURL == "" {
		if target.BackendURL, err = s.EndpointService.Resolve(ctx, spec.Backend); err != nil {
			state.Target = &types.TargetResult{Outcome: types.OutcomeFailed, Reason: err.Error()}
			return state, err
		}
	}
	result, err := s.TargetService.RegisterOpenAPI(ctx, target)
	state.Target = &result
	if err != nil {
		return state, fmt.Errorf("target setup failed: %w", err)
	}
	return state, nil
}

// Teardown deletes targets and the gateway, then the log group and the stored
// gateway id. An empty gatewayID means the stored one.
func (s *DeploymentService) Teardown(ctx context.Context, gatewayID string) (types.TeardownReport, error) {
	if gatewayID == "" {
		id, err := s.GatewayService.StoredID(ctx)
		if err != nil {
			return types.TeardownReport{}, fmt.Errorf("reading stored gateway id: %w", err)
		}
		gatewayID = id
	}

	report, err := s.GatewayService.Delete(ctx, gatewayID)
	if !report.GatewayDeleted {
		return report, err
	}

	if lerr := s.CWLogsService.DeleteGatewayLogGroup(ctx, gatewayID); lerr != nil {
		log.Warn("log group cleanup failed", "gateway_id", gatewayID, "error", lerr)
	}
	if perr := s.GatewayService.ForgetID(ctx, gatewayID); perr != nil {
		log.Warn("gateway id cleanup failed", "gateway_id", gatewayID, "error", perr)
	}
	return report, err
}

// Exists reports whether the gateway is still present.
func (s *DeploymentService) Exists(ctx context.Context, gatewayID string) (bool, error) {
	if strings.TrimSpace(gatewayID) == "" {
		return false, nil
	}
	_, err := s.GatewayService.Get(ctx, gatewayID)
	if repository.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}
