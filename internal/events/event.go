package events

import (
	"time"

	"github.com/imamik/flexprov/internal/provider"
)

// Kind classifies an event.
type Kind string

const (
	KindInformation Kind = "information"
	KindWarning     Kind = "warning"
	KindError       Kind = "error"
	KindProgress    Kind = "progress"
	KindKey         Kind = "key"
)

// Importance ranks events for sinks that filter output.
type Importance int

const (
	Low Importance = iota
	Medium
	High
)

func (i Importance) String() string {
	switch i {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return "unknown"
	}
}

// MarshalText encodes the importance by name.
func (i Importance) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// Phase tags the steps of an ensure-exists reconciliation.
type Phase string

const (
	PhaseCheckIfExists Phase = "check-if-exists"
	PhaseFoundExisting Phase = "found-existing"
	PhaseProvision     Phase = "provision"
)

// Event is one published provisioning event. Values are copied on publish;
// sinks must treat them as read-only.
type Event struct {
	ID           string        `json:"id"`
	RunID        string        `json:"run_id"`
	Kind         Kind          `json:"kind"`
	Importance   Importance    `json:"importance"`
	Message      string        `json:"message"`
	Phase        Phase         `json:"phase,omitempty"`
	Resource     string        `json:"resource,omitempty"`
	ResourceKind provider.Kind `json:"resource_kind,omitempty"`
	Percent      int           `json:"percent,omitempty"`
	ProgressID   string        `json:"progress_id,omitempty"`
	Timestamp    time.Time     `json:"timestamp"`

	// Material holds key material on Key events. It is never serialized.
	Material string `json:"-"`

	// Progress is set on the event that starts a progress sequence.
	Progress *Progress `json:"-"`
}

// IsTick reports whether e is a progress tick rather than a progress start.
func (e Event) IsTick() bool {
	return e.Kind == KindProgress && e.Progress == nil && e.ProgressID != ""
}
