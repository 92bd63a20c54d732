package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	sm "github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	smtypes "github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/smithy-go"
)

// SecretsManagerAPI is the Secrets Manager subset used here.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *sm.GetSecretValueInput, optFns ...func(*sm.Options)) (*sm.GetSecretValueOutput, error)
}

// SecretsManagerResolver resolves secretsmanager://name and
// secretsmanager://name#field, the latter picking a key of a JSON secret.
type SecretsManagerResolver struct {
	API SecretsManagerAPI
}

// Scheme returns "secretsmanager".
func (r *SecretsManagerResolver) Scheme() string { return "secretsmanager" }

// Resolve fetches the current version of the secret.
func (r *SecretsManagerResolver) Resolve(ctx context.Context, reference string) (string, error) {
	id, field, err := parseSecretsManagerReference(reference)
	if err != nil {
		return "", err
	}

	out, err := r.API.GetSecretValue(ctx, &sm.GetSecretValueInput{SecretId: aws.String(id)})
	if err != nil {
		var nf *smtypes.ResourceNotFoundException
		if errors.As(err, &nf) {
			return "", &NotFoundError{Reference: reference, Backend: "AWS Secrets Manager"}
		}
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "AccessDeniedException" {
			return "", &BackendError{
				Backend:   "AWS Secrets Manager",
				Reference: reference,
				Reason:    "access denied",
				Fix:       "Check IAM permissions for secretsmanager:GetSecretValue on " + id,
				Err:       err,
			}
		}
		return "", &BackendError{Backend: "AWS Secrets Manager", Reference: reference, Reason: err.Error(), Err: err}
	}

	value := aws.ToString(out.SecretString)
	if value == "" && len(out.SecretBinary) > 0 {
		value = string(out.SecretBinary)
	}
	if field == "" {
		return value, nil
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(value), &fields); err != nil {
		return "", &InvalidReferenceError{Reference: reference, Reason: "secret is not a JSON object"}
	}
	v, ok := fields[field]
	if !ok {
		return "", &NotFoundError{Reference: reference, Backend: "AWS Secrets Manager"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &InvalidReferenceError{Reference: reference, Reason: "field " + field + " is not a string"}
	}
	return s, nil
}

func parseSecretsManagerReference(ref string) (id, field string, err error) {
	rest, ok := strings.CutPrefix(ref, "secretsmanager://")
	if !ok {
		return "", "", &InvalidReferenceError{Reference: ref, Reason: "expected secretsmanager:// scheme"}
	}
	id, field, _ = strings.Cut(rest, "#")
	if id == "" {
		return "", "", &InvalidReferenceError{Reference: ref, Reason: "missing secret name"}
	}
	return id, field, nil
}
