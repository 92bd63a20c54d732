package awsfake

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	apigw "github.com/aws/aws-sdk-go-v2/service/apigateway"
	apigwv2 "github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	cw "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	lambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

// APIGateway serves REST APIs, their stages, API keys and HTTP APIs.
type APIGateway struct {
	RestAPIs map[string][]string // id -> stages
	APIKeys  map[string]string   // id -> value
	HTTPAPIs map[string]string   // id -> endpoint
}

func (f *APIGateway) GetRestApi(ctx context.Context, in *apigw.GetRestApiInput, _ ...func(*apigw.Options)) (*apigw.GetRestApiOutput, error) {
	if _, ok := f.RestAPIs[aws.ToString(in.RestApiId)]; !ok {
		return nil, APIError("NotFoundException", "Invalid API identifier specified")
	}
	return &apigw.GetRestApiOutput{Id: in.RestApiId}, nil
}

func (f *APIGateway) GetStage(ctx context.Context, in *apigw.GetStageInput, _ ...func(*apigw.Options)) (*apigw.GetStageOutput, error) {
	for _, s := range f.RestAPIs[aws.ToString(in.RestApiId)] {
		if s == aws.ToString(in.StageName) {
			return &apigw.GetStageOutput{StageName: in.StageName}, nil
		}
	}
	return nil, APIError("NotFoundException", "Invalid stage identifier specified")
}

func (f *APIGateway) GetApiKey(ctx context.Context, in *apigw.GetApiKeyInput, _ ...func(*apigw.Options)) (*apigw.GetApiKeyOutput, error) {
	v, ok := f.APIKeys[aws.ToString(in.ApiKey)]
	if !ok {
		return nil, APIError("NotFoundException", "Invalid API Key identifier specified")
	}
	out := &apigw.GetApiKeyOutput{Id: in.ApiKey}
	if aws.ToBool(in.IncludeValue) {
		out.Value = aws.String(v)
	}
	return out, nil
}

func (f *APIGateway) GetApi(ctx context.Context, in *apigwv2.GetApiInput, _ ...func(*apigwv2.Options)) (*apigwv2.GetApiOutput, error) {
	ep, ok := f.HTTPAPIs[aws.ToString(in.ApiId)]
	if !ok {
		return nil, APIError("NotFoundException", "Invalid API identifier specified")
	}
	return &apigwv2.GetApiOutput{ApiId: in.ApiId, ApiEndpoint: aws.String(ep)}, nil
}

// Logs stores log groups and retention settings.
type Logs struct {
	mu     sync.Mutex
	Groups map[string]int32
	Calls  []string

	// RetentionFailures fails that many PutRetentionPolicy calls first.
	RetentionFailures int
}

// NewLogs returns an empty fake.
func NewLogs() *Logs {
	return &Logs{Groups: map[string]int32{}}
}

func (f *Logs) CreateLogGroup(ctx context.Context, in *cw.CreateLogGroupInput, _ ...func(*cw.Options)) (*cw.CreateLogGroupOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := aws.ToString(in.LogGroupName)
	f.Calls = append(f.Calls, "CreateLogGroup:"+name)
	if _, ok := f.Groups[name]; ok {
		return nil, APIError("ResourceAlreadyExistsException", "The specified log group already exists")
	}
	f.Groups[name] = 0
	return &cw.CreateLogGroupOutput{}, nil
}

func (f *Logs) PutRetentionPolicy(ctx context.Context, in *cw.PutRetentionPolicyInput, _ ...func(*cw.Options)) (*cw.PutRetentionPolicyOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := aws.ToString(in.LogGroupName)
	f.Calls = append(f.Calls, "PutRetentionPolicy:"+name)
	if f.RetentionFailures > 0 {
		f.RetentionFailures--
		return nil, APIError("ResourceNotFoundException", "The specified log group does not exist")
	}
	f.Groups[name] = aws.ToInt32(in.RetentionInDays)
	return &cw.PutRetentionPolicyOutput{}, nil
}

func (f *Logs) DeleteLogGroup(ctx context.Context, in *cw.DeleteLogGroupInput, _ ...func(*cw.Options)) (*cw.DeleteLogGroupOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := aws.ToString(in.LogGroupName)
	f.Calls = append(f.Calls, "DeleteLogGroup:"+name)
	if _, ok := f.Groups[name]; !ok {
		return nil, APIError("ResourceNotFoundException", "The specified log group does not exist")
	}
	delete(f.Groups, name)
	return &cw.DeleteLogGroupOutput{}, nil
}

// Lambda maps function names to ARNs.
type Lambda map[string]string

func (f Lambda) GetFunction(ctx context.Context, in *lambda.GetFunctionInput, _ ...func(*lambda.Options)) (*lambda.GetFunctionOutput, error) {
	arn, ok := f[aws.ToString(in.FunctionName)]
	if !ok {
		return nil, APIError("ResourceNotFoundException", "Function not found")
	}
	return &lambda.GetFunctionOutput{Configuration: &lambdatypes.FunctionConfiguration{
		FunctionName: in.FunctionName,
		FunctionArn:  aws.String(arn),
	}}, nil
}
