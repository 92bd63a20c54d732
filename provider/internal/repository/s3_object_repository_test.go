package repository

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 map[string]string

func (f fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, apiErr("NoSuchKey", "The specified key does not exist.")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestParseS3URI(t *testing.T) {
	tests := []struct {
		uri, bucket, key string
		wantErr          bool
	}{
		{uri: "s3://specs/openapi/asana.json", bucket: "specs", key: "openapi/asana.json"},
		{uri: "s3://specs/", wantErr: true},
		{uri: "s3://", wantErr: true},
		{uri: "https://specs/a", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, key, err := ParseS3URI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestObjectRepository_Get(t *testing.T) {
	repo := &ObjectRepository{API: fakeS3{"specs/a.json": "[{}]"}}

	data, err := repo.Get(context.Background(), "s3://specs/a.json")
	require.NoError(t, err)
	assert.Equal(t, "[{}]", string(data))

	_, err = repo.Get(context.Background(), "s3://specs/b.json")
	assert.True(t, IsNotFound(err))
}
