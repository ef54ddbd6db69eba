// Package chooser picks an existing shared parent (hosting plan, SQL server,
// storage account) on which a new resource can be placed.
package chooser

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/imamik/flexprov/internal/provider"
)

// Built-in chooser names accepted by ByName.
const (
	NameDefault     = "default"
	NameLeastLoaded = "least-loaded"
)

// Lister enumerates candidate parents.
type Lister func(ctx context.Context) ([]*provider.Resource, error)

// Scope narrows the candidates. Empty fields match everything.
type Scope struct {
	Kind         provider.Kind
	Location     string
	NameContains string
	SKU          string
}

// Matches reports whether r satisfies s.
func (s Scope) Matches(r *provider.Resource) bool {
	if r == nil {
		return false
	}
	if s.Location != "" && !strings.EqualFold(normalizeLocation(r.Location), normalizeLocation(s.Location)) {
		return false
	}
	if s.NameContains != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(s.NameContains)) {
		return false
	}
	if s.SKU != "" && !strings.EqualFold(r.SKU, s.SKU) {
		return false
	}
	return true
}

// normalizeLocation lets "West Europe" and "westeurope" compare equal.
func normalizeLocation(l string) string {
	return strings.ReplaceAll(l, " ", "")
}

// Chooser selects a parent or returns nil when none is suitable.
type Chooser interface {
	Choose(ctx context.Context, list Lister, scope Scope) (*provider.Resource, error)
}

// Func adapts a function to the Chooser interface.
type Func func(ctx context.Context, list Lister, scope Scope) (*provider.Resource, error)

// Choose calls f.
func (f Func) Choose(ctx context.Context, list Lister, scope Scope) (*provider.Resource, error) {
	return f(ctx, list, scope)
}

// candidates lists and filters. A not-found listing yields no candidates.
func candidates(ctx context.Context, list Lister, scope Scope) ([]*provider.Resource, error) {
	all, err := list(ctx)
	if err != nil {
		if provider.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s candidates: %w", scope.Kind, err)
	}
	var out []*provider.Resource
	for _, r := range all {
		if scope.Matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Default picks the first matching candidate in listing order.
type Default struct{}

// Choose implements Chooser.
func (Default) Choose(ctx context.Context, list Lister, scope Scope) (*provider.Resource, error) {
	cands, err := candidates(ctx, list, scope)
	if err != nil || len(cands) == 0 {
		return nil, err
	}
	return cands[0], nil
}

// LeastLoaded picks the matching candidate hosting the fewest children.
// Ties go to the earlier candidate.
type LeastLoaded struct{}

// Choose implements Chooser.
func (LeastLoaded) Choose(ctx context.Context, list Lister, scope Scope) (*provider.Resource, error) {
	cands, err := candidates(ctx, list, scope)
	if err != nil || len(cands) == 0 {
		return nil, err
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if c.Children < best.Children {
			best = c
		}
	}
	return best, nil
}

// ByName returns a built-in chooser.
func ByName(name string) (Chooser, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameDefault:
		return Default{}, nil
	case NameLeastLoaded:
		return LeastLoaded{}, nil
	default:
		return nil, fmt.Errorf("unknown chooser %q (expected %q or %q)", name, NameDefault, NameLeastLoaded)
	}
}

// Registry maps parent kinds to choosers. It is built with the runtime
// before provisioning starts and read concurrently afterwards.
type Registry struct {
	mu       sync.RWMutex
	choosers map[provider.Kind]Chooser
}

// NewRegistry returns a registry where every kind uses Default.
func NewRegistry() *Registry {
	return &Registry{choosers: make(map[provider.Kind]Chooser)}
}

// Register sets the chooser for kind. The last registration wins.
func (r *Registry) Register(kind provider.Kind, c Chooser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.choosers[kind] = c
}

// For returns the chooser registered for kind, or Default.
func (r *Registry) For(kind provider.Kind) Chooser {
	if r == nil {
		return Default{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.choosers[kind]; ok && c != nil {
		return c
	}
	return Default{}
}

// Choose runs the chooser registered for scope.Kind.
func (r *Registry) Choose(ctx context.Context, list Lister, scope Scope) (*provider.Resource, error) {
	return r.For(scope.Kind).Choose(ctx, list, scope)
}
