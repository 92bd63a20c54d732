package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	acc "github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol"
	apigw "github.com/aws/aws-sdk-go-v2/service/apigateway"
	apigwv2 "github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	cw "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	iam "github.com/aws/aws-sdk-go-v2/service/iam"
	lambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	s3 "github.com/aws/aws-sdk-go-v2/service/s3"
	sm "github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	ssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	sts "github.com/aws/aws-sdk-go-v2/service/sts"
)

// AWSClient holds the service clients shared by repositories. It is built once
// per process and passed down explicitly.
type AWSClient struct {
	Config         aws.Config
	AgentCore      *acc.Client
	SSM            *ssm.Client
	Cognito        *cognito.Client
	IAM            *iam.Client
	STS            *sts.Client
	S3             *s3.Client
	SecretsManager *sm.Client
	APIGW          *apigw.Client   // REST API (v1)
	APIGWv2        *apigwv2.Client // HTTP API (v2)
	CWLogs         *cw.Client
	Lambda         *lambda.Client
	Region         string

	accountID string
}

// New creates an AWSClient for the given region. An empty region falls back to
// the default chain (AWS_REGION, shared config).
func New(ctx context.Context, region string) (*AWSClient, error) {
	var opts []func(*config.LoadOptions) error
	if strings.TrimSpace(region) != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("no AWS region configured: set AWS_REGION or pass --region")
	}

	return &AWSClient{
		Config:         cfg,
		AgentCore:      acc.NewFromConfig(cfg),
		SSM:            ssm.NewFromConfig(cfg),
		Cognito:        cognito.NewFromConfig(cfg),
		IAM:            iam.NewFromConfig(cfg),
		STS:            sts.NewFromConfig(cfg),
		S3:             s3.NewFromConfig(cfg),
		SecretsManager: sm.NewFromConfig(cfg),
		APIGW:          apigw.NewFromConfig(cfg),
		APIGWv2:        apigwv2.NewFromConfig(cfg),
		CWLogs:         cw.NewFromConfig(cfg),
		Lambda:         lambda.NewFromConfig(cfg),
		Region:         cfg.Region,
	}, nil
}

// AccountID returns the caller account, fetched lazily from STS.
func (c *AWSClient) AccountID(ctx context.Context) (string, error) {
	if c.accountID != "" {
		return c.accountID, nil
	}
	id, err := getAccountID(ctx, c.STS)
	if err != nil {
		return "", err
	}
	c.accountID = id
	return id, nil
}

// CallerIdentityAPI is the STS subset used to resolve the account.
type CallerIdentityAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

func getAccountID(ctx context.Context, stsClient CallerIdentityAPI) (string, error) {
	result, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("getting account ID: %w", err)
	}
	return aws.ToString(result.Account), nil
}
