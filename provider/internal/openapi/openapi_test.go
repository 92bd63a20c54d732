package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects map[string][]byte

func (f fakeObjects) Get(ctx context.Context, uri string) ([]byte, error) {
	b, ok := f[uri]
	if !ok {
		return nil, errors.New("no such object")
	}
	return b, nil
}

func TestLoad_PatchServerURL(t *testing.T) {
	spec, err := (&Loader{}).Load(context.Background(), "testdata/openapi_simple.json")
	require.NoError(t, err)

	doc, err := spec.PatchServerURL("https://abc123.execute-api.us-east-1.amazonaws.com/prod")
	require.NoError(t, err)
	assert.Equal(t, "https://abc123.execute-api.us-east-1.amazonaws.com/prod", doc.ServerURL())
	assert.Equal(t, "Asana Integration API", doc.Title())

	payload, err := doc.InlinePayload()
	require.NoError(t, err)

	// Everything except the server URL must survive the round trip.
	var got, want map[string]any
	require.NoError(t, json.Unmarshal([]byte(payload), &got))
	require.NoError(t, json.Unmarshal(spec.Documents[0], &want))
	want["servers"].([]any)[0].(map[string]any)["url"] = "https://abc123.execute-api.us-east-1.amazonaws.com/prod"
	assert.Equal(t, want, got)
	assert.Equal(t, "API Gateway stage", got["servers"].([]any)[0].(map[string]any)["description"])
}

func TestLoad_ObjectRootIsFormatError(t *testing.T) {
	_, err := (&Loader{}).Load(context.Background(), "testdata/object_root.json")
	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe.Reason, "JSON array")
}

func TestLoad_MissingFileIsFormatError(t *testing.T) {
	_, err := (&Loader{}).Load(context.Background(), "testdata/nope.json")
	var fe *FormatError
	assert.True(t, errors.As(err, &fe))
}

func TestLoad_FromS3(t *testing.T) {
	l := &Loader{Objects: fakeObjects{"s3://bucket/spec.json": []byte(`[{"servers":[{"url":"x"}]}]`)}}

	spec, err := l.Load(context.Background(), "s3://bucket/spec.json")
	require.NoError(t, err)
	doc, err := spec.First()
	require.NoError(t, err)
	assert.Equal(t, "x", doc.ServerURL())

	_, err = (&Loader{}).Load(context.Background(), "s3://bucket/spec.json")
	assert.Error(t, err)
}

func TestPatchServerURL_Shapes(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty array", data: `[]`},
		{name: "no servers", data: `[{"openapi":"3.0.0"}]`},
		{name: "empty servers", data: `[{"servers":[]}]`},
		{name: "servers not array", data: `[{"servers":{"url":"x"}}]`},
		{name: "first element scalar", data: `["x"]`},
		{name: "malformed", data: `[{"servers":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Parse("inline", []byte(tt.data))
			if err == nil {
				_, err = spec.PatchServerURL("https://backend")
			}
			var fe *FormatError
			assert.True(t, errors.As(err, &fe), "got %v", err)
		})
	}
}

func TestPatchServerURL_EmptyURL(t *testing.T) {
	spec, err := Parse("inline", []byte(`[{"servers":[{"url":"x"}]}]`))
	require.NoError(t, err)
	_, err = spec.PatchServerURL(" ")
	assert.Error(t, err)
}

func TestLoadTools(t *testing.T) {
	tools, err := (&Loader{}).LoadTools(context.Background(), "testdata/tools.json")
	require.NoError(t, err)
	require.Len(t, tools, 2)
	assert.Equal(t, "get_order", tools[0].Name)
	assert.Equal(t, []string{"orderId"}, tools[0].InputSchema.Required)
	assert.Equal(t, "string", tools[0].InputSchema.Properties["orderId"].Type)
	assert.Equal(t, "object", tools[1].InputSchema.Type)

	_, err = (&Loader{}).LoadTools(context.Background(), "testdata/object_root.json")
	var fe *FormatError
	assert.True(t, errors.As(err, &fe))
}
