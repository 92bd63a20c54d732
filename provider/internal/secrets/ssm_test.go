package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raywall/terraform-provider-agentcore/provider/internal/repository"
)

type fakeParams struct {
	values  map[string]string
	err     error
	decrypt bool
}

func (f *fakeParams) Get(ctx context.Context, name string, decrypt bool) (string, error) {
	f.decrypt = decrypt
	if f.err != nil {
		return "", f.err
	}
	v, ok := f.values[name]
	if !ok {
		return "", &repository.NotFoundError{Kind: "parameter", Name: name}
	}
	return v, nil
}

func TestParseSSMReference(t *testing.T) {
	tests := []struct {
		name     string
		ref      string
		wantPath string
		wantErr  bool
	}{
		{name: "simple path", ref: "ssm:///app/demo/api_key", wantPath: "/app/demo/api_key"},
		{name: "nested path", ref: "ssm:///a/b/c", wantPath: "/a/b/c"},
		{name: "host form", ref: "ssm://us-west-2/a", wantErr: true},
		{name: "empty path", ref: "ssm://", wantErr: true},
		{name: "wrong scheme", ref: "op:///a", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := parseSSMReference(tt.ref)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}

func TestSSMResolver_Resolve(t *testing.T) {
	params := &fakeParams{values: map[string]string{"/app/api_key": "k-1"}}
	r := &SSMResolver{Params: params}

	got, err := r.Resolve(context.Background(), "ssm:///app/api_key")
	require.NoError(t, err)
	assert.Equal(t, "k-1", got)
	assert.True(t, params.decrypt)
}

func TestSSMResolver_NotFound(t *testing.T) {
	r := &SSMResolver{Params: &fakeParams{values: map[string]string{}}}

	_, err := r.Resolve(context.Background(), "ssm:///missing")
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "AWS SSM", nf.Backend)
}

func TestSSMResolver_AccessDenied(t *testing.T) {
	r := &SSMResolver{Params: &fakeParams{err: &repository.AccessDeniedError{Operation: "GetParameter", Name: "/x"}}}

	_, err := r.Resolve(context.Background(), "ssm:///x")
	var be *BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "access denied", be.Reason)
	assert.Contains(t, be.Error(), "ssm:GetParameter")
}
