package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/raywall/terraform-provider-agentcore/pkg/types"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/config"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/log"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/repository"
)

// GatewayService provisions and tears down AgentCore gateways. The gateway ID
// of a namespace lives in the <namespace>/gateway_id parameter.
type GatewayService struct {
	GatewayRepo *repository.GatewayRepository
	Params      *repository.ParameterRepository
	Namespace   string

	// NewClientToken generates idempotency tokens; uuid.NewString when nil.
	NewClientToken func() string
}

func (s *GatewayService) clientToken() string {
	if s.NewClientToken != nil {
		return s.NewClientToken()
	}
	return uuid.NewString()
}

func (s *GatewayService) idParam() string {
	return config.ParamName(s.Namespace, config.ParamGatewayID)
}

// ValidateGatewaySpec checks the fields CreateGateway needs.
func ValidateGatewaySpec(spec types.GatewaySpec) error {
	var problems []string
	if strings.TrimSpace(spec.Name) == "" {
		problems = append(problems, "name is required")
	}
	if !strings.HasPrefix(spec.RoleARN, "arn:") {
		problems = append(problems, "role ARN is required")
	}
	if !strings.HasPrefix(spec.DiscoveryURL, "https://") {
		problems = append(problems, "discovery URL must be an https URL")
	}
	if len(spec.AllowedClientIDs) == 0 {
		problems = append(problems, "at least one allowed client ID is required")
	}
	for _, c := range spec.AllowedClientIDs {
		if strings.TrimSpace(c) == "" {
			problems = append(problems, "allowed client IDs must not be empty")
			break
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid gateway spec: %s", strings.Join(problems, "; "))
	}
	return nil
}

// CreateOrGet creates the gateway or, when one with the same name already
// exists, returns the one recorded under the namespace. Only a conflict takes
// the lookup path; any other create error is reported as OutcomeFailed.
func (s *GatewayService) CreateOrGet(ctx context.Context, spec types.GatewaySpec) (types.GatewayResult, error) {
	if err := ValidateGatewaySpec(spec); err != nil {
		return failedGateway(err), err
	}

	log.Info("creating gateway", "name", spec.Name)
	gw, err := s.GatewayRepo.CreateGateway(ctx, spec, s.clientToken())
	if err == nil {
		result := types.GatewayResult{Outcome: types.OutcomeCreated, Gateway: gw}
		if perr := s.Params.PutString(ctx, s.idParam(), gw.ID); perr != nil {
			// The gateway exists; only the bookkeeping failed.
			return result, fmt.Errorf("gateway %s created but storing its id failed: %w", gw.ID, perr)
		}
		log.Info("gateway created", "gateway_id", gw.ID, "url", gw.URL)
		return result, nil
	}

	if !repository.IsConflict(err) {
		log.Error("gateway creation failed", "name", spec.Name, "error", err)
		return failedGateway(err), err
	}

	log.Info("gateway already exists, looking up stored id", "name", spec.Name)
	id, gerr := s.Params.Get(ctx, s.idParam(), true)
	if gerr != nil {
		if repository.IsNotFound(gerr) {
			gerr = fmt.Errorf("gateway %s already exists but no id is stored at %s", spec.Name, s.idParam())
		}
		return failedGateway(gerr), gerr
	}

	existing, gerr := s.GatewayRepo.GetGateway(ctx, id)
	if gerr != nil {
		return failedGateway(gerr), gerr
	}
	if existing.Name != spec.Name {
		err := fmt.Errorf("stored gateway id %s belongs to gateway %q, not %q", id, existing.Name, spec.Name)
		log.Error("stored gateway id does not match", "gateway_id", id, "name", spec.Name)
		return failedGateway(err), err
	}
	return types.GatewayResult{Outcome: types.OutcomeAlreadyExists, Gateway: existing}, nil
}

func failedGateway(err error) types.GatewayResult {
	return types.GatewayResult{Outcome: types.OutcomeFailed, Reason: err.Error()}
}

// StoredID returns the gateway ID recorded under the namespace.
func (s *GatewayService) StoredID(ctx context.Context) (string, error) {
	return s.Params.Get(ctx, s.idParam(), true)
}

// ForgetID removes the recorded gateway ID when it matches gatewayID.
func (s *GatewayService) ForgetID(ctx context.Context, gatewayID string) error {
	stored, err := s.StoredID(ctx)
	if repository.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if stored != gatewayID {
		return nil
	}
	return s.Params.Delete(ctx, s.idParam())
}

// Get returns the gateway; an empty gatewayID means the stored one.
func (s *GatewayService) Get(ctx context.Context, gatewayID string) (*types.Gateway, error) {
	if gatewayID == "" {
		id, err := s.StoredID(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading stored gateway id: %w", err)
		}
		gatewayID = id
	}
	return s.GatewayRepo.GetGateway(ctx, gatewayID)
}

// Delete removes every listed target of the gateway and then the gateway.
// A failed target deletion does not stop the others; all failures are
// joined into the returned error. Only one page of targets is listed.
func (s *GatewayService) Delete(ctx context.Context, gatewayID string) (types.TeardownReport, error) {
	report := types.TeardownReport{GatewayID: gatewayID}

	targets, err := s.GatewayRepo.ListTargets(ctx, gatewayID)
	if err != nil {
		if repository.IsNotFound(err) {
			log.Info("gateway already gone", "gateway_id", gatewayID)
			report.GatewayDeleted = true
			return report, nil
		}
		return report, fmt.Errorf("listing targets of %s: %w", gatewayID, err)
	}

	var errs []error
	for _, t := range targets {
		log.Info("deleting gateway target", "gateway_id", gatewayID, "target_id", t.ID)
		if err := s.GatewayRepo.DeleteTarget(ctx, gatewayID, t.ID); err != nil && !repository.IsNotFound(err) {
			log.Warn("target deletion failed", "target_id", t.ID, "error", err)
			report.FailedTargets = append(report.FailedTargets, t.ID)
			errs = append(errs, fmt.Errorf("deleting target %s: %w", t.ID, err))
			continue
		}
		report.DeletedTargets = append(report.DeletedTargets, t.ID)
	}

	log.Info("deleting gateway", "gateway_id", gatewayID)
	if err := s.GatewayRepo.DeleteGateway(ctx, gatewayID); err != nil && !repository.IsNotFound(err) {
		errs = append(errs, fmt.Errorf("deleting gateway %s: %w", gatewayID, err))
	} else {
		report.GatewayDeleted = true
	}
	return report, errors.Join(errs...)
}
