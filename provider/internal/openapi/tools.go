package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Tool is one MCP tool definition for a Lambda target.
type Tool struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	InputSchema *Schema `json:"inputSchema"`
}

// Schema is the JSON schema subset accepted for tool input.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
}

// LoadTools reads a JSON array of tool definitions from disk or S3.
func (l *Loader) LoadTools(ctx context.Context, source string) ([]Tool, error) {
	data, err := l.Read(ctx, source)
	if err != nil {
		return nil, err
	}
	var tools []Tool
	if err := json.Unmarshal(data, &tools); err != nil {
		return nil, &FormatError{Source: source, Reason: "expected a JSON array of tool definitions", Err: err}
	}
	if len(tools) == 0 {
		return nil, &FormatError{Source: source, Reason: "no tool definitions"}
	}
	for i, t := range tools {
		if strings.TrimSpace(t.Name) == "" {
			return nil, &FormatError{Source: source, Reason: fmt.Sprintf("tool %d has no name", i)}
		}
		if t.InputSchema == nil {
			tools[i].InputSchema = &Schema{Type: "object"}
		}
	}
	return tools, nil
}
