// Package naming derives deterministic, length-bounded resource names.
//
// Slot names follow the pattern {system}{branch}-{component}-{configuration}
// with every segment lower-cased, stripped to alphanumerics and truncated to
// a per-segment cap so the result satisfies provider name-length limits.
// The branch segment is empty on the root branch and a one-letter, one-digit
// code otherwise ("Release10" becomes "r1"). Truncation is lossy: two long
// components sharing a prefix map to the same slot by convention.
//
// Per-kind templates registered in [Overrides] replace the slot pattern for
// kinds whose names must follow a different convention.
package naming
