package classes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/fate/lineage"
)

// Sentinel errors returned by this package.
var (
	// ErrBadMethod indicates an unknown clustering method name.
	ErrBadMethod = errors.New("classes: unknown clustering method; valid options are kmeans, louvain")

	// ErrBadPercentile indicates a percentile outside [0, 100].
	ErrBadPercentile = errors.New("classes: percentile must be in [0, 100]")

	// ErrNoExisting indicates AddToExisting with no prior labeling;
	// compute or set recurrent classes first.
	ErrNoExisting = errors.New("classes: no existing labeling to add to")

	// ErrBadSource indicates a Source with neither or both of Labels and
	// Groups populated.
	ErrBadSource = errors.New("classes: source must set exactly one of Labels or Groups")

	// ErrUnknownClass indicates a class name absent from the labeling.
	ErrUnknownClass = errors.New("classes: unknown class name")

	// ErrLengthMismatch indicates a per-state slice whose length differs
	// from the state count.
	ErrLengthMismatch = errors.New("classes: per-state length mismatch")

	// ErrBadAssignment indicates an assignment index outside [-1, classes).
	ErrBadAssignment = errors.New("classes: assignment index out of range")
)

// Unassigned marks a state that belongs to no recurrent class.
const Unassigned = -1

// UnknownClass is the name given to a class whose external group
// distribution is too mixed to name by majority.
const UnknownClass = "Unknown"

// Method selects the clustering algorithm used by Compute.
type Method int

const (
	// MethodKMeans clusters with fixed-k kmeans (the default).
	MethodKMeans Method = iota

	// MethodLouvain clusters with Louvain community detection over a
	// k-nearest-neighbor graph.
	MethodLouvain
)

// String implements fmt.Stringer.
func (m Method) String() string {
	switch m {
	case MethodKMeans:
		return "kmeans"
	case MethodLouvain:
		return "louvain"
	default:
		return "unknown"
	}
}

// ParseMethod maps a method name to its Method, case-insensitively.
// Errors: ErrBadMethod.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kmeans":
		return MethodKMeans, nil
	case "louvain":
		return MethodLouvain, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrBadMethod)
	}
}

// Labeling assigns every state to at most one named class.
// Invariants: names are unique and non-empty, colors align with names by
// index, every assignment is Unassigned or a valid class index, and probs
// (when present) holds one recurrence score per state.
type Labeling struct {
	names  []string
	colors []string
	assign []int
	probs  []float64
}

// NewLabeling builds a Labeling from a per-state assignment vector.
// assign[i] is a class index into names, or Unassigned. A nil colors
// slice draws from lineage.Palette.
//
// Errors: ErrBadAssignment (index outside [-1, len(names))),
// ErrLengthMismatch (colors or probs length), ErrUnknownClass is never
// returned here, and duplicate or empty names yield ErrBadAssignment-class
// validation failures via lineage name rules.
func NewLabeling(assign []int, names, colors []string, probs []float64) (*Labeling, error) {
	seen := make(map[string]struct{}, len(names))
	for _, nm := range names {
		if nm == "" {
			return nil, fmt.Errorf("empty class name: %w", ErrUnknownClass)
		}
		if _, dup := seen[nm]; dup {
			return nil, fmt.Errorf("duplicate class name %q: %w", nm, ErrUnknownClass)
		}
		seen[nm] = struct{}{}
	}

	for i, a := range assign {
		if a < Unassigned || a >= len(names) {
			return nil, fmt.Errorf("state %d assigned to %d of %d classes: %w", i, a, len(names), ErrBadAssignment)
		}
	}

	if colors == nil {
		colors = lineage.Palette(len(names))
	}
	if len(colors) != len(names) {
		return nil, fmt.Errorf("colors=%d names=%d: %w", len(colors), len(names), ErrLengthMismatch)
	}
	if probs != nil && len(probs) != len(assign) {
		return nil, fmt.Errorf("probs=%d states=%d: %w", len(probs), len(assign), ErrLengthMismatch)
	}

	return &Labeling{
		names:  append([]string(nil), names...),
		colors: append([]string(nil), colors...),
		assign: append([]int(nil), assign...),
		probs:  append([]float64(nil), probs...),
	}, nil
}

// N returns the number of states.
func (l *Labeling) N() int { return len(l.assign) }

// NumClasses returns the number of classes.
func (l *Labeling) NumClasses() int { return len(l.names) }

// Names returns a copy of the class names, index-aligned with assignments.
func (l *Labeling) Names() []string { return append([]string(nil), l.names...) }

// Colors returns a copy of the per-class colors.
func (l *Labeling) Colors() []string { return append([]string(nil), l.colors...) }

// Assign returns a copy of the per-state class indices (Unassigned = -1).
func (l *Labeling) Assign() []int { return append([]int(nil), l.assign...) }

// ClassOf returns the class index of state i, or Unassigned.
func (l *Labeling) ClassOf(i int) int { return l.assign[i] }

// Probs returns a copy of the per-state recurrence scores, nil when the
// labeling was set a priori without scores.
func (l *Labeling) Probs() []float64 {
	if l.probs == nil {
		return nil
	}

	return append([]float64(nil), l.probs...)
}

// Members returns the states of the named class, ascending.
// Errors: ErrUnknownClass.
func (l *Labeling) Members(name string) ([]int, error) {
	c := -1
	for j, nm := range l.names {
		if nm == name {
			c = j
			break
		}
	}
	if c < 0 {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownClass)
	}

	var out []int
	for i, a := range l.assign {
		if a == c {
			out = append(out, i)
		}
	}

	return out, nil
}

// Mask reports per state whether it belongs to any class.
func (l *Labeling) Mask() []bool {
	m := make([]bool, len(l.assign))
	for i, a := range l.assign {
		m[i] = a != Unassigned
	}

	return m
}

// Counts returns the member count of every class, index-aligned with
// Names.
func (l *Labeling) Counts() []int {
	c := make([]int, len(l.names))
	for _, a := range l.assign {
		if a != Unassigned {
			c[a]++
		}
	}

	return c
}

// Clone returns a deep copy of the labeling.
func (l *Labeling) Clone() *Labeling {
	if l == nil {
		return nil
	}

	return &Labeling{
		names:  append([]string(nil), l.names...),
		colors: append([]string(nil), l.colors...),
		assign: append([]int(nil), l.assign...),
		probs:  append([]float64(nil), l.probs...),
	}
}
