package repository

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	ssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"

	"github.com/raywall/terraform-provider-agentcore/pkg/types"
)

// SSMAPI is the Parameter Store subset used by ParameterRepository.
type SSMAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
	DeleteParameter(ctx context.Context, params *ssm.DeleteParameterInput, optFns ...func(*ssm.Options)) (*ssm.DeleteParameterOutput, error)
}

// ParameterRepository reads and writes string values in SSM Parameter Store.
type ParameterRepository struct {
	API SSMAPI
}

// Get returns the value of name. decrypt controls WithDecryption for
// SecureString parameters. Missing parameters yield *NotFoundError and missing
// permissions *AccessDeniedError.
func (r *ParameterRepository) Get(ctx context.Context, name string, decrypt bool) (string, error) {
	out, err := r.API.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(decrypt),
	})
	if err != nil {
		return "", classify(err, "ssm:GetParameter", "parameter", name)
	}
	if out.Parameter == nil {
		return "", &NotFoundError{Kind: "parameter", Name: name}
	}
	return aws.ToString(out.Parameter.Value), nil
}

// Put creates or overwrites name.
func (r *ParameterRepository) Put(ctx context.Context, p types.Parameter) error {
	typ := p.Type
	if typ == "" {
		typ = types.ParameterPlain
	}
	_, err := r.API.PutParameter(ctx, &ssm.PutParameterInput{
		Name:      aws.String(p.Name),
		Value:     aws.String(p.Value),
		Type:      ssmtypes.ParameterType(typ),
		Overwrite: aws.Bool(true),
	})
	return classify(err, "ssm:PutParameter", "parameter", p.Name)
}

// PutString is Put for a plain String parameter.
func (r *ParameterRepository) PutString(ctx context.Context, name, value string) error {
	return r.Put(ctx, types.Parameter{Name: name, Value: value, Type: types.ParameterPlain})
}

// Delete removes name. A parameter that does not exist is not an error.
func (r *ParameterRepository) Delete(ctx context.Context, name string) error {
	_, err := r.API.DeleteParameter(ctx, &ssm.DeleteParameterInput{Name: aws.String(name)})
	if err != nil && !isNotFound(err) {
		return classify(err, "ssm:DeleteParameter", "parameter", name)
	}
	return nil
}
