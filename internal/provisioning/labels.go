package provisioning

import (
	"strings"

	"github.com/imamik/flexprov/internal/util/naming"
)

const maxLabelLength = 63

// labels tags created resources with their identity.
func labels(id naming.Identity) map[string]string {
	return map[string]string{
		"flexprov-system":        labelValue(id.SystemLogicalName),
		"flexprov-component":     labelValue(id.LogicalName),
		"flexprov-branch":        labelValue(id.Branch),
		"flexprov-configuration": labelValue(id.Configuration),
	}
}

// labelValue lower-cases s and replaces every character that label values
// may not carry with '-'.
func labelValue(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	out := strings.Trim(b.String(), "-_.")
	if len(out) > maxLabelLength {
		out = strings.TrimRight(out[:maxLabelLength], "-_.")
	}
	return out
}
