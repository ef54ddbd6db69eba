package provider

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound marks the benign absence of a resource.
var ErrNotFound = errors.New("resource not found")

// NotFound returns an error wrapping ErrNotFound for the named resource.
func NotFound(kind Kind, name string) error {
	return fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
}

// IsNotFound reports whether err signals an absent resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err is a backend conflict: the resource
// already exists or is being created concurrently.
func IsConflict(err error) bool {
	fault, ok := AsFault(err)
	if !ok {
		return false
	}
	return fault.Code == "Conflict" || fault.Details["status"] == "409"
}

// FaultDetail is the typed form of a backend failure. Backends fill it from
// their own error payloads instead of handing raw SDK errors upwards.
type FaultDetail struct {
	Kind    Kind
	Target  string
	Code    string
	Message string
	Details map[string]string
	Err     error
}

func (f *FaultDetail) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %q", f.Kind, f.Target)
	if f.Code != "" {
		fmt.Fprintf(&b, ": %s", f.Code)
	}
	if f.Message != "" {
		fmt.Fprintf(&b, ": %s", f.Message)
	}
	if len(f.Details) > 0 {
		keys := make([]string, 0, len(f.Details))
		for k := range f.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+f.Details[k])
		}
		fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
	}
	if f.Code == "" && f.Message == "" && f.Err != nil {
		fmt.Fprintf(&b, ": %v", f.Err)
	}
	return b.String()
}

func (f *FaultDetail) Unwrap() error {
	return f.Err
}

// AsFault extracts a FaultDetail from an error chain.
func AsFault(err error) (*FaultDetail, bool) {
	var fault *FaultDetail
	if errors.As(err, &fault) {
		return fault, true
	}
	return nil, false
}
