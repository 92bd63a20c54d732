// Package secrets resolves API key references such as ssm:///path or
// secretsmanager://name against AWS backends.
package secrets

import (
	"context"
	"strings"
	"sync"
)

// Resolver resolves a secret reference to its plaintext value.
type Resolver interface {
	// Scheme returns the URI scheme this resolver handles (e.g. "ssm").
	Scheme() string

	// Resolve fetches the secret value for the full reference URI.
	Resolve(ctx context.Context, reference string) (string, error)
}

// Registry dispatches references to resolvers by scheme.
type Registry struct {
	mu        sync.RWMutex
	resolvers map[string]Resolver
}

// NewRegistry returns a registry holding rs.
func NewRegistry(rs ...Resolver) *Registry {
	reg := &Registry{resolvers: make(map[string]Resolver)}
	for _, r := range rs {
		reg.Register(r)
	}
	return reg
}

// Register adds or replaces the resolver for r's scheme.
func (g *Registry) Register(r Resolver) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resolvers[r.Scheme()] = r
}

// Schemes lists the registered schemes.
func (g *Registry) Schemes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, len(g.resolvers))
	for s := range g.resolvers {
		out = append(out, s)
	}
	return out
}

// Resolve dispatches to the resolver matching the reference scheme.
func (g *Registry) Resolve(ctx context.Context, reference string) (string, error) {
	scheme := parseScheme(reference)
	if scheme == "" {
		return "", &InvalidReferenceError{Reference: reference, Reason: "missing scheme"}
	}

	g.mu.RLock()
	r, ok := g.resolvers[scheme]
	g.mu.RUnlock()
	if !ok {
		return "", &UnsupportedSchemeError{Scheme: scheme}
	}
	return r.Resolve(ctx, reference)
}

// IsReference reports whether s looks like a scheme://... reference.
func IsReference(s string) bool {
	return parseScheme(s) != ""
}

// parseScheme extracts "ssm" from "ssm:///path".
func parseScheme(ref string) string {
	idx := strings.Index(ref, "://")
	if idx < 1 {
		return ""
	}
	return ref[:idx]
}
