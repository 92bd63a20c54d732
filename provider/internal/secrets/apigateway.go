package secrets

import (
	"context"
	"strings"

	"github.com/raywall/terraform-provider-agentcore/provider/internal/repository"
)

// APIKeyGetter reads the value of an API Gateway API key.
type APIKeyGetter interface {
	APIKeyValue(ctx context.Context, keyID string) (string, error)
}

// APIGatewayResolver resolves apigateway://<apiKeyId> to the key value.
type APIGatewayResolver struct {
	Keys APIKeyGetter
}

// Scheme returns "apigateway".
func (r *APIGatewayResolver) Scheme() string { return "apigateway" }

// Resolve fetches the API key value.
func (r *APIGatewayResolver) Resolve(ctx context.Context, reference string) (string, error) {
	id := strings.Trim(strings.TrimPrefix(reference, "apigateway://"), "/")
	if id == "" || strings.Contains(id, "/") {
		return "", &InvalidReferenceError{Reference: reference, Reason: "expected apigateway://<apiKeyId>"}
	}

	v, err := r.Keys.APIKeyValue(ctx, id)
	switch {
	case err == nil:
		return v, nil
	case repository.IsNotFound(err):
		return "", &NotFoundError{Reference: reference, Backend: "API Gateway"}
	default:
		return "", &BackendError{
			Backend:   "API Gateway",
			Reference: reference,
			Reason:    err.Error(),
			Fix:       "Check IAM permissions for apigateway:GET on /apikeys/" + id,
			Err:       err,
		}
	}
}
