package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/raywall/terraform-provider-agentcore/pkg/types"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/config"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/log"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/repository"
)

// DefaultTokenTimeout bounds the token endpoint round trip.
const DefaultTokenTimeout = 30 * time.Second

// TokenService obtains machine-to-machine access tokens from the Cognito
// token endpoint with the client-credentials grant.
type TokenService struct {
	Params    *repository.ParameterRepository
	Identity  *repository.IdentityRepository
	Namespace string
	Timeout   time.Duration
	Scopes    []string

	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// TokenRequest overrides the values otherwise read from the parameter store.
type TokenRequest struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
}

// Fetch exchanges the client credentials for an access token. The credentials
// travel in the form body, not in a basic auth header.
func (s *TokenService) Fetch(ctx context.Context, clientID, clientSecret, tokenURL string) (*types.AccessToken, error) {
	if clientID == "" || clientSecret == "" || tokenURL == "" {
		return nil, fmt.Errorf("client id, client secret and token url are required")
	}

	cc := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		Scopes:       s.Scopes,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient())

	log.Debug("requesting access token", "endpoint", tokenURL, "client_id", clientID)
	tok, err := cc.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching access token: %w", err)
	}

	at := &types.AccessToken{
		Value:     tok.AccessToken,
		TokenType: tok.TokenType,
		Expiry:    tok.Expiry,
		ClientID:  clientID,
	}
	decodeClaims(at)
	return at, nil
}

// FetchFromStore fills missing request fields from the namespace parameters
// and Cognito, then fetches a token.
func (s *TokenService) FetchFromStore(ctx context.Context, req TokenRequest) (*types.AccessToken, error) {
	var err error
	if req.ClientID == "" {
		if req.ClientID, err = s.Params.Get(ctx, config.ParamName(s.Namespace, config.ParamMachineClientID), true); err != nil {
			return nil, fmt.Errorf("reading client id: %w", err)
		}
	}

	var poolID string
	pool := func() (string, error) {
		if poolID != "" {
			return poolID, nil
		}
		id, err := s.Params.Get(ctx, config.ParamName(s.Namespace, config.ParamUserPoolID), true)
		if err != nil {
			return "", fmt.Errorf("reading user pool id: %w", err)
		}
		poolID = id
		return id, nil
	}

	if req.ClientSecret == "" {
		p, err := pool()
		if err != nil {
			return nil, err
		}
		if req.ClientSecret, err = s.Identity.ClientSecret(ctx, p, req.ClientID); err != nil {
			return nil, err
		}
	}

	if req.TokenURL == "" {
		req.TokenURL, err = s.Params.Get(ctx, config.ParamName(s.Namespace, config.ParamTokenURL), true)
		if repository.IsNotFound(err) {
			p, perr := pool()
			if perr != nil {
				return nil, perr
			}
			req.TokenURL, err = s.Identity.TokenURL(ctx, p)
		}
		if err != nil {
			return nil, fmt.Errorf("resolving token url: %w", err)
		}
	}

	return s.Fetch(ctx, req.ClientID, req.ClientSecret, req.TokenURL)
}

func (s *TokenService) httpClient() *http.Client {
	if s.HTTPClient != nil {
		return s.HTTPClient
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTokenTimeout
	}
	return &http.Client{Timeout: timeout}
}

// decodeClaims copies display claims from a JWT access token. Tokens that are
// not JWTs are left as they are.
func decodeClaims(at *types.AccessToken) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(at.Value, claims); err != nil {
		log.Debug("access token is not a JWT", "error", err)
		return
	}
	if v, ok := claims["client_id"].(string); ok && v != "" {
		at.ClientID = v
	}
	if v, ok := claims["scope"].(string); ok && v != "" {
		at.Scopes = strings.Fields(v)
	}
	if iss, err := claims.GetIssuer(); err == nil {
		at.Issuer = iss
	}
	if at.Expiry.IsZero() {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			at.Expiry = exp.Time
		}
	}
}
