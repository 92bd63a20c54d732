// Package openapi loads the OpenAPI documents registered as gateway targets
// and points them at the real backend.
//
// A specification file holds a JSON array whose first element is the OpenAPI
// document. Only [0].servers[0].url is rewritten; every other member is kept.
package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// FormatError reports a specification that does not have the expected shape.
type FormatError struct {
	Source string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Source == "" {
		return "invalid openapi specification: " + e.Reason
	}
	return fmt.Sprintf("invalid openapi specification %s: %s", e.Source, e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }

// ObjectGetter reads s3:// sources.
type ObjectGetter interface {
	Get(ctx context.Context, uri string) ([]byte, error)
}

// Loader reads specification files from disk or S3.
type Loader struct {
	Objects ObjectGetter
}

// Document is one OpenAPI document kept as raw members so re-encoding does not
// alter values it does not touch.
type Document map[string]json.RawMessage

// Spec is the parsed specification file.
type Spec struct {
	Source    string
	Documents []json.RawMessage
}

// Read returns the raw bytes at source.
func (l *Loader) Read(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "s3://") {
		if l == nil || l.Objects == nil {
			return nil, fmt.Errorf("no s3 client configured for %s", source)
		}
		return l.Objects.Get(ctx, source)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &FormatError{Source: source, Reason: "file not found", Err: err}
		}
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	return data, nil
}

// Load reads and parses the specification at source.
func (l *Loader) Load(ctx context.Context, source string) (*Spec, error) {
	data, err := l.Read(ctx, source)
	if err != nil {
		return nil, err
	}
	return Parse(source, data)
}

// Parse checks that data is a non-empty JSON array of objects.
func Parse(source string, data []byte) (*Spec, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &FormatError{Source: source, Reason: "expected a JSON array of OpenAPI documents"}
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(trimmed, &docs); err != nil {
		return nil, &FormatError{Source: source, Reason: "malformed JSON", Err: err}
	}
	if len(docs) == 0 {
		return nil, &FormatError{Source: source, Reason: "the array holds no document"}
	}
	return &Spec{Source: source, Documents: docs}, nil
}

// First decodes the first document.
func (s *Spec) First() (Document, error) {
	var doc Document
	if err := json.Unmarshal(s.Documents[0], &doc); err != nil {
		return nil, &FormatError{Source: s.Source, Reason: "first element is not an object", Err: err}
	}
	return doc, nil
}

// PatchServerURL replaces [0].servers[0].url with url and returns the patched
// first document. Other members of the server entry and the document are
// carried over untouched.
func (s *Spec) PatchServerURL(url string) (Document, error) {
	if strings.TrimSpace(url) == "" {
		return nil, &FormatError{Source: s.Source, Reason: "backend url is empty"}
	}
	doc, err := s.First()
	if err != nil {
		return nil, err
	}

	raw, ok := doc["servers"]
	if !ok {
		return nil, &FormatError{Source: s.Source, Reason: "document has no servers"}
	}
	var servers []json.RawMessage
	if err := json.Unmarshal(raw, &servers); err != nil {
		return nil, &FormatError{Source: s.Source, Reason: "servers is not an array", Err: err}
	}
	if len(servers) == 0 {
		return nil, &FormatError{Source: s.Source, Reason: "servers is empty"}
	}
	var server map[string]json.RawMessage
	if err := json.Unmarshal(servers[0], &server); err != nil {
		return nil, &FormatError{Source: s.Source, Reason: "servers[0] is not an object", Err: err}
	}

	encodedURL, err := json.Marshal(url)
	if err != nil {
		return nil, err
	}
	server["url"] = encodedURL
	if servers[0], err = json.Marshal(server); err != nil {
		return nil, err
	}
	if doc["servers"], err = json.Marshal(servers); err != nil {
		return nil, err
	}
	return doc, nil
}

// ServerURL returns [0].servers[0].url of doc, or "" when absent.
func (d Document) ServerURL() string {
	var servers []struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(d["servers"], &servers); err != nil || len(servers) == 0 {
		return ""
	}
	return servers[0].URL
}

// Title returns info.title, or "" when absent.
func (d Document) Title() string {
	var info struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(d["info"], &info); err != nil {
		return ""
	}
	return info.Title
}

// InlinePayload serializes the document for an inline schema payload.
func (d Document) InlinePayload() (string, error) {
	b, err := json.Marshal(map[string]json.RawMessage(d))
	if err != nil {
		return "", fmt.Errorf("encoding openapi document: %w", err)
	}
	return string(b), nil
}
