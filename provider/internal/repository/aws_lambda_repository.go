package repository

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	lambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

// LambdaAPI is the Lambda subset used to resolve target functions.
type LambdaAPI interface {
	GetFunction(ctx context.Context, params *lambda.GetFunctionInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionOutput, error)
}

// LambdaRepository reads Lambda functions.
type LambdaRepository struct {
	API LambdaAPI
}

// GetFunction returns the function configuration or *NotFoundError.
func (r *LambdaRepository) GetFunction(ctx context.Context, functionName string) (*lambdatypes.FunctionConfiguration, error) {
	out, err := r.API.GetFunction(ctx, &lambda.GetFunctionInput{FunctionName: aws.String(functionName)})
	if err != nil {
		return nil, classify(err, "GetFunction", "function", functionName)
	}
	if out.Configuration == nil {
		return nil, &NotFoundError{Kind: "function", Name: functionName}
	}
	return out.Configuration, nil
}

// FunctionARN resolves a function name (or ARN) to its ARN.
func (r *LambdaRepository) FunctionARN(ctx context.Context, functionName string) (string, error) {
	cfg, err := r.GetFunction(ctx, functionName)
	if err != nil {
		return "", err
	}
	return aws.ToString(cfg.FunctionArn), nil
}
