package lineage

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNilData indicates a nil or empty backing matrix.
	ErrNilData = errors.New("lineage: nil or empty data matrix")

	// ErrNameCount indicates that the number of names or colors does not
	// match the number of columns.
	ErrNameCount = errors.New("lineage: name/color count does not match column count")

	// ErrDupName indicates a duplicate column name.
	ErrDupName = errors.New("lineage: duplicate column name")

	// ErrUnknownName indicates a referenced column name that does not exist.
	ErrUnknownName = errors.New("lineage: unknown lineage name")

	// ErrOutOfRange indicates a row index outside [0, N).
	ErrOutOfRange = errors.New("lineage: row index out of range")

	// ErrLengthMismatch indicates a boolean mask whose length differs from N.
	ErrLengthMismatch = errors.New("lineage: mask length does not match row count")

	// ErrEmptySelection indicates a row subset that selects no rows.
	ErrEmptySelection = errors.New("lineage: selection keeps no rows")
)

// Lineage is an N×L probability matrix with a unique name and a color per
// column. Construct via New; the zero value is not usable.
type Lineage struct {
	x      *mat.Dense
	names  []string
	colors []string
}

// New builds a Lineage from x with one name and one color per column.
// If colors is nil, a deterministic categorical palette is generated.
// Errors: ErrNilData, ErrNameCount, ErrDupName.
func New(x *mat.Dense, names, colors []string) (*Lineage, error) {
	if x == nil {
		return nil, ErrNilData
	}
	r, c := x.Dims()
	if r == 0 || c == 0 {
		return nil, ErrNilData
	}
	if len(names) != c {
		return nil, fmt.Errorf("%d names for %d columns: %w", len(names), c, ErrNameCount)
	}
	if colors == nil {
		colors = Palette(c)
	}
	if len(colors) != c {
		return nil, fmt.Errorf("%d colors for %d columns: %w", len(colors), c, ErrNameCount)
	}
	seen := make(map[string]struct{}, c)
	for _, name := range names {
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%q: %w", name, ErrDupName)
		}
		seen[name] = struct{}{}
	}

	return &Lineage{
		x:      mat.DenseCopyOf(x),
		names:  append([]string(nil), names...),
		colors: append([]string(nil), colors...),
	}, nil
}

// N returns the number of rows (states).
func (l *Lineage) N() int {
	r, _ := l.x.Dims()

	return r
}

// Len returns the number of columns (lineages).
func (l *Lineage) Len() int {
	_, c := l.x.Dims()

	return c
}

// Names returns a copy of the column names, in order.
func (l *Lineage) Names() []string { return append([]string(nil), l.names...) }

// Colors returns a copy of the column colors, in order.
func (l *Lineage) Colors() []string { return append([]string(nil), l.colors...) }

// X returns a defensive copy of the probability matrix.
func (l *Lineage) X() *mat.Dense { return mat.DenseCopyOf(l.x) }

// At returns the probability of state i being absorbed into column j.
func (l *Lineage) At(i, j int) float64 { return l.x.At(i, j) }

// Col returns the named column as a fresh slice.
// Errors: ErrUnknownName.
func (l *Lineage) Col(name string) ([]float64, error) {
	j := l.index(name)
	if j < 0 {
		return nil, fmt.Errorf("%q (have %v): %w", name, l.names, ErrUnknownName)
	}
	out := make([]float64, l.N())
	mat.Col(out, j, l.x)

	return out, nil
}

// Sub returns a new Lineage containing only the requested columns, in the
// requested order, preserving colors. Errors: ErrUnknownName.
func (l *Lineage) Sub(names ...string) (*Lineage, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("no names given: %w", ErrUnknownName)
	}
	cols := make([]int, len(names))
	for k, name := range names {
		j := l.index(name)
		if j < 0 {
			return nil, fmt.Errorf("%q (have %v): %w", name, l.names, ErrUnknownName)
		}
		cols[k] = j
	}

	r := l.N()
	x := mat.NewDense(r, len(cols), nil)
	buf := make([]float64, r)
	for k, j := range cols {
		mat.Col(buf, j, l.x)
		x.SetCol(k, buf)
	}
	colors := make([]string, len(cols))
	for k, j := range cols {
		colors[k] = l.colors[j]
	}

	return &Lineage{x: x, names: append([]string(nil), names...), colors: colors}, nil
}

// RowSubset returns a new Lineage keeping only the rows in idx, in order,
// preserving names and colors. Errors: ErrEmptySelection, ErrOutOfRange.
func (l *Lineage) RowSubset(idx []int) (*Lineage, error) {
	if len(idx) == 0 {
		return nil, ErrEmptySelection
	}
	n := l.N()
	for _, i := range idx {
		if i < 0 || i >= n {
			return nil, fmt.Errorf("row %d of %d: %w", i, n, ErrOutOfRange)
		}
	}

	x := mat.NewDense(len(idx), l.Len(), nil)
	for k, i := range idx {
		x.SetRow(k, l.x.RawRowView(i))
	}

	return &Lineage{x: x, names: l.Names(), colors: l.Colors()}, nil
}

// Mask returns a new Lineage keeping rows where keep[i] is true.
// Errors: ErrLengthMismatch.
func (l *Lineage) Mask(keep []bool) (*Lineage, error) {
	if len(keep) != l.N() {
		return nil, fmt.Errorf("mask length %d for %d rows: %w", len(keep), l.N(), ErrLengthMismatch)
	}
	var idx []int
	for i, k := range keep {
		if k {
			idx = append(idx, i)
		}
	}

	return l.RowSubset(idx)
}

// Clone returns a deep copy.
func (l *Lineage) Clone() *Lineage {
	if l == nil {
		return nil
	}

	return &Lineage{x: mat.DenseCopyOf(l.x), names: l.Names(), colors: l.Colors()}
}

// index returns the column index of name, or -1.
func (l *Lineage) index(name string) int {
	for j, n := range l.names {
		if n == name {
			return j
		}
	}

	return -1
}
