package awsfake

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	cognitotypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	iam "github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
)

// Cognito serves one user pool with app client secrets.
type Cognito struct {
	PoolID  string
	Domain  string
	Secrets map[string]string // client ID -> secret
}

func (c *Cognito) DescribeUserPoolClient(ctx context.Context, in *cognito.DescribeUserPoolClientInput, _ ...func(*cognito.Options)) (*cognito.DescribeUserPoolClientOutput, error) {
	if aws.ToString(in.UserPoolId) != c.PoolID {
		return nil, APIError("ResourceNotFoundException", "user pool not found")
	}
	secret, ok := c.Secrets[aws.ToString(in.ClientId)]
	if !ok {
		return nil, APIError("ResourceNotFoundException", "client not found")
	}
	return &cognito.DescribeUserPoolClientOutput{UserPoolClient: &cognitotypes.UserPoolClientType{
		ClientId:     in.ClientId,
		UserPoolId:   in.UserPoolId,
		ClientSecret: aws.String(secret),
	}}, nil
}

func (c *Cognito) DescribeUserPool(ctx context.Context, in *cognito.DescribeUserPoolInput, _ ...func(*cognito.Options)) (*cognito.DescribeUserPoolOutput, error) {
	if aws.ToString(in.UserPoolId) != c.PoolID {
		return nil, APIError("ResourceNotFoundException", "user pool not found")
	}
	pool := &cognitotypes.UserPoolType{Id: in.UserPoolId}
	if c.Domain != "" {
		pool.Domain = aws.String(c.Domain)
	}
	return &cognito.DescribeUserPoolOutput{UserPool: pool}, nil
}

// IAM stores roles and their inline policies.
type IAM struct {
	mu       sync.Mutex
	Roles    map[string]*iamtypes.Role
	Policies map[string]map[string]string // role -> policy name -> document
	Calls    []string
}

// NewIAM returns an empty fake.
func NewIAM() *IAM {
	return &IAM{Roles: map[string]*iamtypes.Role{}, Policies: map[string]map[string]string{}}
}

func (f *IAM) GetRole(ctx context.Context, in *iam.GetRoleInput, _ ...func(*iam.Options)) (*iam.GetRoleOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "GetRole")
	r, ok := f.Roles[aws.ToString(in.RoleName)]
	if !ok {
		return nil, APIError("NoSuchEntity", "role not found")
	}
	return &iam.GetRoleOutput{Role: r}, nil
}

func (f *IAM) CreateRole(ctx context.Context, in *iam.CreateRoleInput, _ ...func(*iam.Options)) (*iam.CreateRoleOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "CreateRole")
	name := aws.ToString(in.RoleName)
	if _, ok := f.Roles[name]; ok {
		return nil, APIError("EntityAlreadyExists", "role exists")
	}
	r := &iamtypes.Role{
		RoleName:                 in.RoleName,
		Arn:                      aws.String("arn:aws:iam::123456789012:role/" + name),
		AssumeRolePolicyDocument: in.AssumeRolePolicyDocument,
	}
	f.Roles[name] = r
	return &iam.CreateRoleOutput{Role: r}, nil
}

func (f *IAM) PutRolePolicy(ctx context.Context, in *iam.PutRolePolicyInput, _ ...func(*iam.Options)) (*iam.PutRolePolicyOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "PutRolePolicy")
	name := aws.ToString(in.RoleName)
	if _, ok := f.Roles[name]; !ok {
		return nil, APIError("NoSuchEntity", "role not found")
	}
	if f.Policies[name] == nil {
		f.Policies[name] = map[string]string{}
	}
	f.Policies[name][aws.ToString(in.PolicyName)] = aws.ToString(in.PolicyDocument)
	return &iam.PutRolePolicyOutput{}, nil
}

func (f *IAM) DeleteRolePolicy(ctx context.Context, in *iam.DeleteRolePolicyInput, _ ...func(*iam.Options)) (*iam.DeleteRolePolicyOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "DeleteRolePolicy")
	name := aws.ToString(in.RoleName)
	if _, ok := f.Policies[name][aws.ToString(in.PolicyName)]; !ok {
		return nil, APIError("NoSuchEntity", "policy not found")
	}
	delete(f.Policies[name], aws.ToString(in.PolicyName))
	return &iam.DeleteRolePolicyOutput{}, nil
}

func (f *IAM) DeleteRole(ctx context.Context, in *iam.DeleteRoleInput, _ ...func(*iam.Options)) (*iam.DeleteRoleOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "DeleteRole")
	name := aws.ToString(in.RoleName)
	if _, ok := f.Roles[name]; !ok {
		return nil, APIError("NoSuchEntity", "role not found")
	}
	if len(f.Policies[name]) > 0 {
		return nil, APIError("DeleteConflict", "role has inline policies")
	}
	delete(f.Roles, name)
	return &iam.DeleteRoleOutput{}, nil
}

// Account is a fixed AccountResolver.
type Account string

// AccountID returns the account.
func (a Account) AccountID(ctx context.Context) (string, error) {
	if a == "" {
		return "", fmt.Errorf("no account")
	}
	return string(a), nil
}

// HasCall reports whether any recorded call starts with op.
func HasCall(calls []string, op string) bool {
	for _, c := range calls {
		if strings.HasPrefix(c, op) {
			return true
		}
	}
	return false
}
