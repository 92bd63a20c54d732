package service

import (
	"context"

	"github.com/raywall/terraform-provider-agentcore/provider/internal/log"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/repository"
)

// CWLogsService manages the vended log group of a gateway.
type CWLogsService struct {
	CWLogsRepo *repository.CWLogsRepository
}

// GatewayLogGroupName is the log group AgentCore delivers gateway logs to.
func GatewayLogGroupName(gatewayID string) string {
	return "/aws/vendedlogs/bedrock-agentcore/gateway/" + gatewayID
}

// EnsureGatewayLogGroup creates the gateway log group with a retention.
func (s *CWLogsService) EnsureGatewayLogGroup(ctx context.Context, gatewayID string, retentionDays int32) (string, error) {
	name := GatewayLogGroupName(gatewayID)
	log.Info("ensuring log group", "log_group", name, "retention_days", retentionDays)
	if err := s.CWLogsRepo.CreateLogGroupIfNotExists(ctx, name, retentionDays); err != nil {
		return "", err
	}
	return name, nil
}

// DeleteGatewayLogGroup removes the gateway log group if present.
func (s *CWLogsService) DeleteGatewayLogGroup(ctx context.Context, gatewayID string) error {
	return s.CWLogsRepo.DeleteLogGroup(ctx, GatewayLogGroupName(gatewayID))
}
