package markov

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DriversOptions configures LineageDrivers.
//
//	– Lineages: restrict to these lineage names; nil takes all.
//	– Groups:   restrict the correlation to states whose cluster-key
//	  group is listed; requires WithClusterKey (ErrNoClusterKey), unknown
//	  group names are ErrUnknownGroup.
type DriversOptions struct {
	Lineages []string
	Groups   []string
}

// LineageDrivers correlates every column of data (states × variables)
// with each lineage's probability column, returning one Pearson
// correlation per variable, keyed by lineage name. A variable that tracks
// a fate correlates near +1 with its column.
//
// Errors: ErrNoLinProbs, ErrLengthMismatch (data rows vs states),
// lineage name errors from the Lineages restriction, ErrNoClusterKey and
// ErrUnknownGroup from the Groups restriction.
func (c *Chain) LineageDrivers(data *mat.Dense, opts *DriversOptions) (map[string][]float64, error) {
	if c.lin == nil {
		return nil, ErrNoLinProbs
	}

	var o DriversOptions
	if opts != nil {
		o = *opts
	}

	if data == nil {
		return nil, fmt.Errorf("nil data: %w", ErrLengthMismatch)
	}
	r, cols := data.Dims()
	if r != c.n {
		return nil, fmt.Errorf("data rows=%d states=%d: %w", r, c.n, ErrLengthMismatch)
	}

	lin := c.lin
	if o.Lineages != nil {
		sub, err := lin.Sub(o.Lineages...)
		if err != nil {
			return nil, err
		}
		lin = sub
	}

	rows, err := c.groupRows(o.Groups)
	if err != nil {
		return nil, err
	}

	x := make([]float64, len(rows))
	y := make([]float64, len(rows))
	out := make(map[string][]float64, lin.Len())
	for _, name := range lin.Names() {
		probs, err := lin.Col(name)
		if err != nil {
			return nil, err
		}
		for p, i := range rows {
			y[p] = probs[i]
		}

		corrs := make([]float64, cols)
		for j := 0; j < cols; j++ {
			for p, i := range rows {
				x[p] = data.At(i, j)
			}
			corrs[j] = stat.Correlation(x, y, nil)
		}
		out[name] = corrs
	}

	c.logger.Info("computed lineage drivers",
		"lineages", len(out), "variables", cols, "states", len(rows))

	return out, nil
}

// groupRows resolves the Groups restriction to state indices; nil groups
// select every state.
func (c *Chain) groupRows(groups []string) ([]int, error) {
	rows := make([]int, 0, c.n)
	if groups == nil {
		for i := 0; i < c.n; i++ {
			rows = append(rows, i)
		}

		return rows, nil
	}
	if c.clusterKey == nil {
		return nil, ErrNoClusterKey
	}

	want := make(map[string]bool, len(groups))
	for _, g := range groups {
		want[g] = false
	}
	for i, g := range c.clusterKey {
		if seen, ok := want[g]; ok {
			rows = append(rows, i)
			if !seen {
				want[g] = true
			}
		}
	}
	for g, seen := range want {
		if !seen {
			return nil, fmt.Errorf("%q: %w", g, ErrUnknownGroup)
		}
	}

	return rows, nil
}
