package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	apigw "github.com/aws/aws-sdk-go-v2/service/apigateway"
	apigwv2 "github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
)

// APIGWAPI is the API Gateway (REST, v1) subset used to locate backends and
// read API keys.
type APIGWAPI interface {
	GetRestApi(ctx context.Context, params *apigw.GetRestApiInput, optFns ...func(*apigw.Options)) (*apigw.GetRestApiOutput, error)
	GetStage(ctx context.Context, params *apigw.GetStageInput, optFns ...func(*apigw.Options)) (*apigw.GetStageOutput, error)
	GetApiKey(ctx context.Context, params *apigw.GetApiKeyInput, optFns ...func(*apigw.Options)) (*apigw.GetApiKeyOutput, error)
}

// APIGWv2API is the API Gateway v2 (HTTP API) subset.
type APIGWv2API interface {
	GetApi(ctx context.Context, params *apigwv2.GetApiInput, optFns ...func(*apigwv2.Options)) (*apigwv2.GetApiOutput, error)
}

// APIGWRepository reads API Gateway REST and HTTP APIs.
type APIGWRepository struct {
	REST   APIGWAPI
	HTTP   APIGWv2API
	Region string
}

// RestStageURL verifies that the REST API and stage exist and returns the
// stage invoke URL.
func (r *APIGWRepository) RestStageURL(ctx context.Context, apiID, stage string) (string, error) {
	if _, err := r.REST.GetRestApi(ctx, &apigw.GetRestApiInput{RestApiId: aws.String(apiID)}); err != nil {
		return "", classify(err, "GetRestApi", "rest api", apiID)
	}
	if _, err := r.REST.GetStage(ctx, &apigw.GetStageInput{
		RestApiId: aws.String(apiID),
		StageName: aws.String(stage),
	}); err != nil {
		return "", classify(err, "GetStage", "stage", apiID+"/"+stage)
	}
	return fmt.Sprintf("https://%s.execute-api.%s.amazonaws.com/%s", apiID, r.Region, stage), nil
}

// HTTPAPIEndpoint returns the default endpoint of an HTTP API.
func (r *APIGWRepository) HTTPAPIEndpoint(ctx context.Context, apiID string) (string, error) {
	out, err := r.HTTP.GetApi(ctx, &apigwv2.GetApiInput{ApiId: aws.String(apiID)})
	if err != nil {
		return "", classify(err, "GetApi", "http api", apiID)
	}
	endpoint := aws.ToString(out.ApiEndpoint)
	if endpoint == "" {
		return "", fmt.Errorf("http api %s has no endpoint", apiID)
	}
	return endpoint, nil
}

// APIKeyValue returns the value of an API Gateway API key.
func (r *APIGWRepository) APIKeyValue(ctx context.Context, keyID string) (string, error) {
	out, err := r.REST.GetApiKey(ctx, &apigw.GetApiKeyInput{
		ApiKey:       aws.String(keyID),
		IncludeValue: aws.Bool(true),
	})
	if err != nil {
		return "", classify(err, "GetApiKey", "api key", keyID)
	}
	if aws.ToString(out.Value) == "" {
		return "", &NotFoundError{Kind: "api key value", Name: keyID}
	}
	return aws.ToString(out.Value), nil
}
