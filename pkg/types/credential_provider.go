package types

import (
	"fmt"
	"strings"
)

// CredentialLocation says where the gateway injects an API key.
type CredentialLocation string

const (
	LocationQueryParameter CredentialLocation = "QUERY_PARAMETER"
	LocationHeader         CredentialLocation = "HEADER"
)

// ParseCredentialLocation normalizes user input; empty means query parameter.
func ParseCredentialLocation(s string) (CredentialLocation, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")) {
	case "", "QUERY_PARAMETER", "QUERY":
		return LocationQueryParameter, nil
	case "HEADER":
		return LocationHeader, nil
	default:
		return "", fmt.Errorf("invalid credential location %q (want QUERY_PARAMETER or HEADER)", s)
	}
}

// CredentialProvider is an API key credential provider referenced by ARN.
type CredentialProvider struct {
	Name string `json:"name"`
	Type string `json:"type"`
	ARN  string `json:"credential_provider_arn"`
}
