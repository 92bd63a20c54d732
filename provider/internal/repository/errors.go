package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
)

// NotFoundError reports a missing remote resource (parameter, provider, gateway).
type NotFoundError struct {
	Kind string
	Name string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Name)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// AccessDeniedError reports insufficient IAM permissions for an operation.
type AccessDeniedError struct {
	Operation string
	Name      string
	Err       error
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied: %s on %s", e.Operation, e.Name)
}

func (e *AccessDeniedError) Unwrap() error { return e.Err }

// ConflictError reports that a resource with the same identity already exists.
type ConflictError struct {
	Kind string
	Name string
	Err  error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Kind, e.Name)
}

func (e *ConflictError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// IsAccessDenied reports whether err is (or wraps) an AccessDeniedError.
func IsAccessDenied(err error) bool {
	var ad *AccessDeniedError
	return errors.As(err, &ad)
}

// isAPIErrorCode checks the smithy APIError code of err against any of codes.
func isAPIErrorCode(err error, codes ...string) bool {
	if err == nil {
		return false
	}
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range codes {
		if apiErr.ErrorCode() == code {
			return true
		}
	}
	return false
}

// isConflict matches the conflict codes used across the control-plane services.
// Some AgentCore validation errors carry the conflict only in their message.
func isConflict(err error) bool {
	if isAPIErrorCode(err, "ConflictException", "ResourceConflictException", "EntityAlreadyExists", "ResourceAlreadyExistsException", "ResourceExistsException") {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ValidationException" {
		return strings.Contains(strings.ToLower(apiErr.ErrorMessage()), "already exists")
	}
	return false
}

func isNotFound(err error) bool {
	return isAPIErrorCode(err, "ResourceNotFoundException", "ParameterNotFound", "NotFoundException", "NoSuchEntity", "NoSuchKey")
}

func isAccessDenied(err error) bool {
	return isAPIErrorCode(err, "AccessDeniedException", "AccessDenied", "UnauthorizedOperation")
}

// classify maps SDK errors onto the typed errors above and wraps everything
// else with the operation name.
func classify(err error, op, kind, name string) error {
	switch {
	case err == nil:
		return nil
	case isNotFound(err):
		return &NotFoundError{Kind: kind, Name: name, Err: err}
	case isConflict(err):
		return &ConflictError{Kind: kind, Name: name, Err: err}
	case isAccessDenied(err):
		return &AccessDeniedError{Operation: op, Name: name, Err: err}
	default:
		return fmt.Errorf("%s failed: %w", op, err)
	}
}
