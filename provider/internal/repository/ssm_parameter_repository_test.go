package repository

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	ssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raywall/terraform-provider-agentcore/pkg/types"
)

// fakeSSM is an in-memory Parameter Store.
type fakeSSM struct {
	values  map[string]string
	types   map[string]ssmtypes.ParameterType
	decrypt []bool
	err     error
}

func newFakeSSM() *fakeSSM {
	return &fakeSSM{values: map[string]string{}, types: map[string]ssmtypes.ParameterType{}}
}

func (f *fakeSSM) GetParameter(ctx context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.decrypt = append(f.decrypt, aws.ToBool(in.WithDecryption))
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.values[aws.ToString(in.Name)]
	if !ok {
		return nil, apiErr("ParameterNotFound", "")
	}
	return &ssm.GetParameterOutput{Parameter: &ssmtypes.Parameter{Name: in.Name, Value: aws.String(v)}}, nil
}

func (f *fakeSSM) PutParameter(ctx context.Context, in *ssm.PutParameterInput, _ ...func(*ssm.Options)) (*ssm.PutParameterOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	name := aws.ToString(in.Name)
	if _, exists := f.values[name]; exists && !aws.ToBool(in.Overwrite) {
		return nil, apiErr("ParameterAlreadyExists", "")
	}
	f.values[name] = aws.ToString(in.Value)
	f.types[name] = in.Type
	return &ssm.PutParameterOutput{}, nil
}

func (f *fakeSSM) DeleteParameter(ctx context.Context, in *ssm.DeleteParameterInput, _ ...func(*ssm.Options)) (*ssm.DeleteParameterOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	name := aws.ToString(in.Name)
	if _, ok := f.values[name]; !ok {
		return nil, apiErr("ParameterNotFound", "")
	}
	delete(f.values, name)
	return &ssm.DeleteParameterOutput{}, nil
}

func TestParameterRepository_PutGet(t *testing.T) {
	f := newFakeSSM()
	r := &ParameterRepository{API: f}
	ctx := context.Background()

	require.NoError(t, r.PutString(ctx, "/app/x/gateway_id", "gw-1"))
	require.NoError(t, r.PutString(ctx, "/app/x/gateway_id", "gw-2"))

	v, err := r.Get(ctx, "/app/x/gateway_id", true)
	require.NoError(t, err)
	assert.Equal(t, "gw-2", v, "put must overwrite")
	assert.Equal(t, []bool{true}, f.decrypt)
}

func TestParameterRepository_PutSecure(t *testing.T) {
	f := newFakeSSM()
	r := &ParameterRepository{API: f}

	require.NoError(t, r.Put(context.Background(), types.Parameter{Name: "/k", Value: "s", Type: types.ParameterSecure}))
	assert.Equal(t, ssmtypes.ParameterTypeSecureString, f.types["/k"])

	require.NoError(t, r.Put(context.Background(), types.Parameter{Name: "/plain", Value: "v"}))
	assert.Equal(t, ssmtypes.ParameterTypeString, f.types["/plain"])
}

func TestParameterRepository_GetNotFound(t *testing.T) {
	r := &ParameterRepository{API: newFakeSSM()}
	_, err := r.Get(context.Background(), "/missing", false)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "/missing")
}

func TestParameterRepository_GetAccessDenied(t *testing.T) {
	f := newFakeSSM()
	f.err = apiErr("AccessDeniedException", "not authorized")
	r := &ParameterRepository{API: f}
	_, err := r.Get(context.Background(), "/secret", true)
	require.Error(t, err)
	assert.True(t, IsAccessDenied(err))
}

func TestParameterRepository_DeleteMissingIsOK(t *testing.T) {
	f := newFakeSSM()
	r := &ParameterRepository{API: f}
	require.NoError(t, r.Delete(context.Background(), "/missing"))

	f.values["/present"] = "v"
	require.NoError(t, r.Delete(context.Background(), "/present"))
	_, ok := f.values["/present"]
	assert.False(t, ok)
}
