package types

import (
	"fmt"
	"strings"
)

// ParameterType mirrors the three Parameter Store value kinds.
type ParameterType string

const (
	ParameterPlain  ParameterType = "String"
	ParameterList   ParameterType = "StringList"
	ParameterSecure ParameterType = "SecureString"
)

// Parameter is a named value in the remote configuration store.
type Parameter struct {
	Name  string        `json:"name"`
	Value string        `json:"value"`
	Type  ParameterType `json:"type"`
}

// ParseParameterType accepts the short CLI names (string, list, secure) as well
// as the Parameter Store names.
func ParseParameterType(s string) (ParameterType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "string", "plain":
		return ParameterPlain, nil
	case "list", "stringlist":
		return ParameterList, nil
	case "secure", "securestring":
		return ParameterSecure, nil
	default:
		return "", fmt.Errorf("unknown parameter type %q (want string, list or secure)", s)
	}
}
