package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/raywall/terraform-provider-agentcore/pkg/types"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/config"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/repository"
)

// EndpointService turns a BackendRef into the URL written into the OpenAPI
// servers list.
type EndpointService struct {
	APIGWRepo *repository.APIGWRepository
	Params    *repository.ParameterRepository
	Namespace string
}

// Resolve returns the backend URL. An explicit URL wins, then a REST API
// stage, then an HTTP API. An empty ref falls back to the namespace
// apigateway_url parameter.
func (s *EndpointService) Resolve(ctx context.Context, ref types.BackendRef) (string, error) {
	var (
		u   string
		err error
	)
	switch {
	case ref.URL != "":
		u = ref.URL
	case ref.RestAPIID != "":
		if ref.Stage == "" {
			return "", fmt.Errorf("a stage is required with rest api %s", ref.RestAPIID)
		}
		u, err = s.APIGWRepo.RestStageURL(ctx, ref.RestAPIID, ref.Stage)
	case ref.HTTPAPIID != "":
		u, err = s.APIGWRepo.HTTPAPIEndpoint(ctx, ref.HTTPAPIID)
	default:
		u, err = s.Params.Get(ctx, config.ParamName(s.Namespace, config.ParamAPIGatewayURL), true)
	}
	if err != nil {
		return "", fmt.Errorf("resolving backend url: %w", err)
	}
	if err := ValidateBackendURL(u); err != nil {
		return "", err
	}
	return u, nil
}

// ValidateBackendURL requires an absolute https URL.
func ValidateBackendURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid backend url %q: %w", raw, err)
	}
	if u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("backend url %q must be an absolute https url", raw)
	}
	return nil
}
