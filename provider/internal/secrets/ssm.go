package secrets

import (
	"context"
	"net/url"

	"github.com/raywall/terraform-provider-agentcore/provider/internal/repository"
)

// ParameterGetter reads a Parameter Store value.
type ParameterGetter interface {
	Get(ctx context.Context, name string, decrypt bool) (string, error)
}

// SSMResolver resolves ssm:///path references from Parameter Store,
// always decrypting SecureString values.
type SSMResolver struct {
	Params ParameterGetter
}

// Scheme returns "ssm".
func (r *SSMResolver) Scheme() string { return "ssm" }

// Resolve fetches the parameter named by the reference path.
func (r *SSMResolver) Resolve(ctx context.Context, reference string) (string, error) {
	path, err := parseSSMReference(reference)
	if err != nil {
		return "", err
	}

	v, err := r.Params.Get(ctx, path, true)
	switch {
	case err == nil:
		return v, nil
	case repository.IsNotFound(err):
		return "", &NotFoundError{Reference: reference, Backend: "AWS SSM"}
	case repository.IsAccessDenied(err):
		return "", &BackendError{
			Backend:   "AWS SSM",
			Reference: reference,
			Reason:    "access denied",
			Fix:       "Check IAM permissions for ssm:GetParameter on " + path,
			Err:       err,
		}
	default:
		return "", &BackendError{Backend: "AWS SSM", Reference: reference, Reason: err.Error(), Err: err}
	}
}

// parseSSMReference extracts the parameter path from ssm:///path/to/param.
func parseSSMReference(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", &InvalidReferenceError{Reference: ref, Reason: "invalid URI"}
	}
	if u.Scheme != "ssm" {
		return "", &InvalidReferenceError{Reference: ref, Reason: "expected ssm:// scheme"}
	}
	if u.Host != "" {
		return "", &InvalidReferenceError{Reference: ref, Reason: "use ssm:///path; the region comes from the client"}
	}
	if u.Path == "" || u.Path == "/" {
		return "", &InvalidReferenceError{Reference: ref, Reason: "parameter path must start with /"}
	}
	return u.Path, nil
}
