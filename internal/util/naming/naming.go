package naming

import (
	"errors"
	"strings"
	"unicode"

	"github.com/imamik/flexprov/internal/provider"
)

// Default segment caps.
const (
	DefaultSystemMax        = 4
	DefaultComponentMax     = 10
	DefaultConfigurationMax = 8
	DefaultRootBranch       = "Main"
)

// MaxSlotLength is the longest name SlotName can produce with default caps:
// system, two-character branch code, component, configuration and two
// separators.
const MaxSlotLength = DefaultSystemMax + 2 + 1 + DefaultComponentMax + 1 + DefaultConfigurationMax

var (
	// ErrEmptyInput is returned for empty or whitespace-only identifiers.
	ErrEmptyInput = errors.New("naming: input is empty")
	// ErrNoUpperCase is returned when an identifier holds no upper-case letter.
	ErrNoUpperCase = errors.New("naming: input has no upper-case letters")
)

// Identity identifies a resource instance before it has a concrete name.
type Identity struct {
	Kind              provider.Kind
	LogicalName       string
	SystemLogicalName string
	Branch            string
	Configuration     string
}

// Policy holds the slot naming parameters.
type Policy struct {
	RootBranch       string
	SystemMax        int
	ComponentMax     int
	ConfigurationMax int
}

// DefaultPolicy returns the policy with the default caps and root branch.
func DefaultPolicy() Policy {
	return Policy{
		RootBranch:       DefaultRootBranch,
		SystemMax:        DefaultSystemMax,
		ComponentMax:     DefaultComponentMax,
		ConfigurationMax: DefaultConfigurationMax,
	}
}

// SlotName derives the slot name for a component deployed from branch in
// configuration. It never fails; over-long segments are truncated.
func (p Policy) SlotName(system, component, branch, configuration string) string {
	var b strings.Builder
	b.WriteString(take(system, p.SystemMax))
	b.WriteString(p.BranchSuffix(branch))
	b.WriteByte('-')
	b.WriteString(take(component, p.ComponentMax))
	b.WriteByte('-')
	b.WriteString(take(configuration, p.ConfigurationMax))
	return b.String()
}

// SystemPrefix returns the system segment every slot name of system starts
// with.
func (p Policy) SystemPrefix(system string) string {
	return take(system, p.SystemMax)
}

// SlotNameFor is SlotName over an Identity.
func (p Policy) SlotNameFor(id Identity) string {
	return p.SlotName(id.SystemLogicalName, id.LogicalName, id.Branch, id.Configuration)
}

// BranchSuffix returns "" for the root branch (compared case-insensitively)
// and otherwise the first letter and first digit of the branch. A branch
// without digits gets its length modulo ten as the digit.
func (p Policy) BranchSuffix(branch string) string {
	if strings.EqualFold(strings.TrimSpace(branch), strings.TrimSpace(p.RootBranch)) {
		return ""
	}
	clean := sanitize(branch)
	if clean == "" {
		return ""
	}

	letter := rune(clean[0])
	for _, r := range clean {
		if unicode.IsLetter(r) {
			letter = r
			break
		}
	}

	digit := rune('0' + len(clean)%10)
	for _, r := range clean {
		if unicode.IsDigit(r) {
			digit = r
			break
		}
	}
	return string([]rune{letter, digit})
}

// take sanitizes s and keeps at most n characters.
func take(s string, n int) string {
	clean := sanitize(s)
	if n > 0 && len(clean) > n {
		return clean[:n]
	}
	return clean
}

// sanitize lower-cases s and drops everything but ASCII letters and digits.
func sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Compact removes separators from name and truncates it to max characters.
// Used for kinds that reject hyphens (storage accounts).
func Compact(name string, max int) string {
	return take(name, max)
}

// UpperConcat lower-cases the concatenated upper-case letters of a CamelCase
// identifier: "FundingStreamConfig" becomes "fsc".
func UpperConcat(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", ErrEmptyInput
	}
	var b strings.Builder
	for _, r := range s {
		if unicode.IsUpper(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	if b.Len() == 0 {
		return "", ErrNoUpperCase
	}
	return b.String(), nil
}

// MinimalName returns system-upperconcat(component), the compact form used
// where slot names are too long.
func MinimalName(system, component string) (string, error) {
	if strings.TrimSpace(system) == "" {
		return "", ErrEmptyInput
	}
	short, err := UpperConcat(component)
	if err != nil {
		return "", err
	}
	return sanitize(system) + "-" + short, nil
}
