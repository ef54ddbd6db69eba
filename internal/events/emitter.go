package events

import "github.com/imamik/flexprov/internal/provider"

// Emitter is the publishing surface reconcilers depend on.
type Emitter interface {
	Info(importance Importance, message string)
	Warn(message string)
	Error(message string, err error)
	Phase(phase Phase, kind provider.Kind, name string)
	Key(message, material string)
	StartProgress(importance Importance, message string) *Progress
}
