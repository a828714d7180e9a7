package types

import (
	"fmt"
	"strings"
)

// Overwrite selects how Add treats an existing resource or file.
type Overwrite uint8

const (
	// OverwriteAlways inserts or replaces unconditionally.
	OverwriteAlways Overwrite = iota
	// OverwriteNever inserts only; an existing target fails with ErrResourceExists.
	OverwriteNever
	// OverwriteOnly replaces only; a missing target fails with ErrNotFound.
	OverwriteOnly
	// OverwriteIfLarger replaces only when the new payload is strictly larger.
	OverwriteIfLarger
	// OverwriteIfNewer replaces only when AddOptions.Version is strictly
	// greater than the existing version.
	OverwriteIfNewer
)

var overwriteNames = [...]string{
	OverwriteAlways:   "always",
	OverwriteNever:    "never",
	OverwriteOnly:     "only",
	OverwriteIfLarger: "if-larger",
	OverwriteIfNewer:  "if-newer",
}

func (o Overwrite) String() string {
	if int(o) < len(overwriteNames) {
		return overwriteNames[o]
	}
	return fmt.Sprintf("overwrite(%d)", uint8(o))
}

// ParseOverwrite parses a policy name as printed by String. Underscores and
// case are ignored, so "IF_LARGER" is accepted.
func ParseOverwrite(s string) (Overwrite, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for i, name := range overwriteNames {
		if norm == name {
			return Overwrite(i), nil
		}
	}
	return 0, fmt.Errorf("unknown overwrite policy %q", s)
}

// AddOptions accompanies every Add. The zero value overwrites always.
type AddOptions struct {
	Overwrite Overwrite
	// Version is the caller-supplied version compared by OverwriteIfNewer.
	// For container resources it is stored with the entry; for plain files
	// it is compared against the modification time in Unix seconds.
	Version uint32
}

// Decision is the outcome of applying a policy to an Add.
type Decision uint8

const (
	// DecisionWrite means the payload should be stored.
	DecisionWrite Decision = iota
	// DecisionSkip means the policy declined the replacement; nothing changes.
	DecisionSkip
)

// Existing describes the current target of an Add, when there is one.
type Existing struct {
	Size    int
	Version uint32
}

// Decide applies the policy to an Add of size bytes. existing is nil when
// the target does not exist yet.
func (o AddOptions) Decide(existing *Existing, size int) (Decision, error) {
	switch o.Overwrite {
	case OverwriteAlways:
		return DecisionWrite, nil
	case OverwriteNever:
		if existing != nil {
			return DecisionSkip, ErrResourceExists
		}
		return DecisionWrite, nil
	case OverwriteOnly:
		if existing == nil {
			return DecisionSkip, ErrNotFound
		}
		return DecisionWrite, nil
	case OverwriteIfLarger:
		if existing != nil && size <= existing.Size {
			return DecisionSkip, nil
		}
		return DecisionWrite, nil
	case OverwriteIfNewer:
		if existing != nil && o.Version <= existing.Version {
			return DecisionSkip, nil
		}
		return DecisionWrite, nil
	default:
		return DecisionSkip, Errorf(ErrKindInvalidSpec, "unknown overwrite policy %d", o.Overwrite)
	}
}
