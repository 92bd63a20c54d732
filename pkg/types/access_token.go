package types

import "time"

// AccessToken is the result of a client-credentials exchange.
type AccessToken struct {
	Value     string    `json:"access_token"`
	TokenType string    `json:"token_type"`
	Expiry    time.Time `json:"expiry,omitempty"`
	// Claims below are decoded without signature verification.
	ClientID string   `json:"client_id,omitempty"`
	Scopes   []string `json:"scopes,omitempty"`
	Issuer   string   `json:"issuer,omitempty"`
}
