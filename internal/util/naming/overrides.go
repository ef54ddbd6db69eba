package naming

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/imamik/flexprov/internal/provider"
)

// ErrDuplicateOverride is returned when a kind already has a template.
var ErrDuplicateOverride = errors.New("naming: override already registered")

// Template placeholders.
const (
	PlaceholderSystem    = "{system}"
	PlaceholderComponent = "{component}"
	PlaceholderBranch    = "{branch}"
	PlaceholderConfig    = "{config}"
	PlaceholderSlot      = "{slot}"
)

// Overrides maps resource kinds to name templates. Registration happens
// while the configuration is loaded, before any provisioning starts.
type Overrides struct {
	mu        sync.RWMutex
	templates map[provider.Kind]string
}

// NewOverrides returns an empty registry.
func NewOverrides() *Overrides {
	return &Overrides{templates: make(map[provider.Kind]string)}
}

// Register binds template to kind. A second registration for the same kind
// fails with ErrDuplicateOverride.
func (o *Overrides) Register(kind provider.Kind, template string) error {
	if strings.TrimSpace(template) == "" {
		return fmt.Errorf("naming: empty template for %s", kind)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.templates[kind]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateOverride, kind)
	}
	o.templates[kind] = template
	return nil
}

// Lookup returns the template registered for kind.
func (o *Overrides) Lookup(kind provider.Kind) (string, bool) {
	if o == nil {
		return "", false
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	t, ok := o.templates[kind]
	return t, ok
}

// Resolver names identities with a policy and optional overrides.
type Resolver struct {
	Policy    Policy
	Overrides *Overrides
}

// NewResolver returns a resolver with no overrides.
func NewResolver(p Policy) *Resolver {
	return &Resolver{Policy: p, Overrides: NewOverrides()}
}

// Name returns the concrete name for id.
func (r *Resolver) Name(id Identity) string {
	slot := r.Policy.SlotNameFor(id)
	tpl, ok := r.Overrides.Lookup(id.Kind)
	if !ok {
		return slot
	}
	branch := r.Policy.BranchSuffix(id.Branch)
	return strings.ToLower(strings.NewReplacer(
		PlaceholderSystem, sanitize(id.SystemLogicalName),
		PlaceholderComponent, sanitize(id.LogicalName),
		PlaceholderBranch, branch,
		PlaceholderConfig, sanitize(id.Configuration),
		PlaceholderSlot, slot,
	).Replace(tpl))
}
