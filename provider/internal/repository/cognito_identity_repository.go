package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
)

// CognitoAPI is the Cognito user pool subset used by IdentityRepository.
type CognitoAPI interface {
	DescribeUserPoolClient(ctx context.Context, params *cognito.DescribeUserPoolClientInput, optFns ...func(*cognito.Options)) (*cognito.DescribeUserPoolClientOutput, error)
	DescribeUserPool(ctx context.Context, params *cognito.DescribeUserPoolInput, optFns ...func(*cognito.Options)) (*cognito.DescribeUserPoolOutput, error)
}

// IdentityRepository reads OAuth application settings from a Cognito user pool.
type IdentityRepository struct {
	API    CognitoAPI
	Region string
}

// ClientSecret returns the secret of an app client. A client created without a
// secret is reported as *NotFoundError.
func (r *IdentityRepository) ClientSecret(ctx context.Context, userPoolID, clientID string) (string, error) {
	out, err := r.API.DescribeUserPoolClient(ctx, &cognito.DescribeUserPoolClientInput{
		UserPoolId: aws.String(userPoolID),
		ClientId:   aws.String(clientID),
	})
	if err != nil {
		return "", classify(err, "cognito-idp:DescribeUserPoolClient", "user pool client", clientID)
	}
	if out.UserPoolClient == nil || aws.ToString(out.UserPoolClient.ClientSecret) == "" {
		return "", &NotFoundError{Kind: "client secret", Name: clientID}
	}
	return aws.ToString(out.UserPoolClient.ClientSecret), nil
}

// DiscoveryURL returns the OpenID discovery document URL of a user pool.
func (r *IdentityRepository) DiscoveryURL(userPoolID string) string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s/.well-known/openid-configuration", r.Region, userPoolID)
}

// TokenURL resolves the hosted domain of a user pool and returns its OAuth2
// token endpoint. Custom domains take precedence over the Cognito prefix domain.
func (r *IdentityRepository) TokenURL(ctx context.Context, userPoolID string) (string, error) {
	out, err := r.API.DescribeUserPool(ctx, &cognito.DescribeUserPoolInput{UserPoolId: aws.String(userPoolID)})
	if err != nil {
		return "", classify(err, "cognito-idp:DescribeUserPool", "user pool", userPoolID)
	}
	if out.UserPool == nil {
		return "", &NotFoundError{Kind: "user pool", Name: userPoolID}
	}
	if d := aws.ToString(out.UserPool.CustomDomain); d != "" {
		return fmt.Sprintf("https://%s/oauth2/token", d), nil
	}
	if d := aws.ToString(out.UserPool.Domain); d != "" {
		return fmt.Sprintf("https://%s.auth.%s.amazoncognito.com/oauth2/token", d, r.Region), nil
	}
	return "", &NotFoundError{Kind: "user pool domain", Name: userPoolID}
}
