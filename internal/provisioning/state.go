package provisioning

import (
	"sort"
	"sync"

	"github.com/imamik/flexprov/internal/provider"
	"github.com/imamik/flexprov/internal/reconcile"
)

// Outcome records how one resource was reconciled.
type Outcome struct {
	Resource   *provider.Resource
	CreatedNew bool
}

// State accumulates the reconciled resources of a run. It is safe for
// concurrent use by the units of a batch.
type State struct {
	mu       sync.Mutex
	outcomes map[string]Outcome
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{outcomes: make(map[string]Outcome)}
}

// Record stores the outcome of a successful reconciliation. A resource
// created earlier in the run stays marked as created when it is found
// again, as shared parents are.
func (s *State) Record(res reconcile.Result[*provider.Resource]) {
	if res.Handle == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := res.Handle.String()
	created := res.CreatedNew || s.outcomes[key].CreatedNew
	s.outcomes[key] = Outcome{Resource: res.Handle, CreatedNew: created}
}

// Outcomes returns every recorded outcome ordered by resource.
func (s *State) Outcomes() []Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.outcomes))
	for k := range s.outcomes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Outcome, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.outcomes[k])
	}
	return out
}

// Created returns the resources the run created.
func (s *State) Created() []*provider.Resource {
	var out []*provider.Resource
	for _, o := range s.Outcomes() {
		if o.CreatedNew {
			out = append(out, o.Resource)
		}
	}
	return out
}
