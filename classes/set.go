// Package classes: a-priori labels, merging, and label finishing (naming,
// colors, cell-cycle advisory).

package classes

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/katalvlaran/fate/stats"
)

// Source supplies a-priori class labels to Set. Exactly one of the two
// fields must be populated:
//
//	– Labels: per-state class indices (Unassigned = -1); Names optionally
//	  names the classes, index-aligned.
//	– Groups: class name → member state indices.
type Source struct {
	Labels []int
	Names  []string
	Groups map[string][]int
}

// Set installs a-priori recurrent classes.
//
// With opts.AddToExisting the source is merged into prev: new classes are
// appended, and a state claimed by both keeps the source's class (last
// write wins). Classes that lose every member are dropped. Without
// merging, prev is ignored and the source replaces everything.
//
// n is the state count; prev, when merged, must match it. Errors:
// ErrBadSource, ErrNoExisting, ErrLengthMismatch, ErrBadAssignment.
func Set(n int, prev *Labeling, src Source, opts *SetOptions) (*Labeling, error) {
	if (src.Labels == nil) == (src.Groups == nil) {
		return nil, ErrBadSource
	}

	var o SetOptions
	if opts != nil {
		o = *opts
	}
	if o.AddToExisting && prev == nil {
		return nil, fmt.Errorf("compute or set recurrent classes first: %w", ErrNoExisting)
	}

	assign, names, err := sourceAssign(n, src)
	if err != nil {
		return nil, err
	}

	var probs []float64
	if o.AddToExisting {
		if prev.N() != n {
			return nil, fmt.Errorf("existing labeling has %d states, want %d: %w", prev.N(), n, ErrLengthMismatch)
		}
		assign, names = mergeAssign(prev, assign, names)
		probs = prev.probs
	}
	assign, names = compactWithNames(assign, names)

	// Source-derived names are defaults; explicit opts.Names and
	// ClusterKey naming (in that order of precedence) can override them.
	return finishLabeling(n, len(names), names, probs, &o, assign)
}

// sourceAssign normalizes a Source into an assignment vector plus
// per-class names.
func sourceAssign(n int, src Source) ([]int, []string, error) {
	if src.Labels != nil {
		if len(src.Labels) != n {
			return nil, nil, fmt.Errorf("labels=%d states=%d: %w", len(src.Labels), n, ErrLengthMismatch)
		}
		nclasses := 0
		for i, a := range src.Labels {
			if a < Unassigned {
				return nil, nil, fmt.Errorf("state %d assigned to %d: %w", i, a, ErrBadAssignment)
			}
			if a >= nclasses {
				nclasses = a + 1
			}
		}
		names := src.Names
		if names == nil {
			names = numberedNames(nclasses)
		}
		if len(names) != nclasses {
			return nil, nil, fmt.Errorf("names=%d classes=%d: %w", len(names), nclasses, ErrLengthMismatch)
		}

		return append([]int(nil), src.Labels...), append([]string(nil), names...), nil
	}

	// Map form: sort names for a deterministic class order.
	names := make([]string, 0, len(src.Groups))
	for nm := range src.Groups {
		names = append(names, nm)
	}
	sort.Strings(names)

	assign := emptyAssign(n)
	for c, nm := range names {
		for _, i := range src.Groups[nm] {
			if i < 0 || i >= n {
				return nil, nil, fmt.Errorf("class %q member %d of %d states: %w", nm, i, n, ErrBadAssignment)
			}
			assign[i] = c
		}
	}

	return assign, names, nil
}

// mergeAssign overlays the incoming assignment on prev's: incoming
// classes are appended after prev's and win on overlap.
func mergeAssign(prev *Labeling, incoming []int, incomingNames []string) ([]int, []string) {
	offset := prev.NumClasses()
	out := prev.Assign()
	for i, a := range incoming {
		if a != Unassigned {
			out[i] = offset + a
		}
	}

	names := append(prev.Names(), incomingNames...)

	return out, names
}

// compactWithNames renumbers class indices to 0..C-1 in order of first
// appearance, dropping classes that lost every member and keeping the
// surviving names aligned.
func compactWithNames(assign []int, names []string) ([]int, []string) {
	remap := make(map[int]int)
	kept := make([]string, 0, len(names))
	out := make([]int, len(assign))
	for i, a := range assign {
		if a == Unassigned {
			out[i] = Unassigned
			continue
		}
		m, ok := remap[a]
		if !ok {
			m = len(kept)
			remap[a] = m
			kept = append(kept, names[a])
		}
		out[i] = m
	}

	return out, kept
}

// finishLabeling applies naming, colors and the cell-cycle advisory, then
// builds the Labeling.
func finishLabeling(n, nclasses int, baseNames []string, probs []float64, so *SetOptions, assign []int) (*Labeling, error) {
	var o SetOptions
	if so != nil {
		o = *so
	}
	if o.EntropyCutoff <= 0 {
		o.EntropyCutoff = DefaultEntropyCutoff
	}
	if o.PThresh <= 0 {
		o.PThresh = DefaultPThresh
	}
	if o.RankSum == nil {
		o.RankSum = stats.RankSum
	}

	names := baseNames
	if o.Names != nil {
		if len(o.Names) != nclasses {
			return nil, fmt.Errorf("names=%d classes=%d: %w", len(o.Names), nclasses, ErrLengthMismatch)
		}
		names = append([]string(nil), o.Names...)
	}
	if names == nil {
		names = numberedNames(nclasses)
	}

	// Explicit names take precedence over grouping-derived ones.
	if o.ClusterKey != nil && o.Names == nil {
		if len(o.ClusterKey) != n {
			return nil, fmt.Errorf("cluster key=%d states=%d: %w", len(o.ClusterKey), n, ErrLengthMismatch)
		}
		names = namesFromGrouping(assign, nclasses, o.ClusterKey, o.EntropyCutoff)
	}
	names = dedupNames(names)

	lab, err := NewLabeling(assign, names, o.Colors, probs)
	if err != nil {
		return nil, err
	}

	warnCellCycle(lab, &o)

	return lab, nil
}

// namesFromGrouping names each class after the majority external group of
// its members. A class whose group distribution has Shannon entropy above
// cutoff becomes UnknownClass; so does an empty class.
func namesFromGrouping(assign []int, nclasses int, groups []string, cutoff float64) []string {
	counts := make([]map[string]int, nclasses)
	for c := range counts {
		counts[c] = make(map[string]int)
	}
	for i, a := range assign {
		if a != Unassigned {
			counts[a][groups[i]]++
		}
	}

	names := make([]string, nclasses)
	for c, dist := range counts {
		if len(dist) == 0 {
			names[c] = UnknownClass
			continue
		}

		// Deterministic majority: inspect group names in sorted order.
		keys := make([]string, 0, len(dist))
		for g := range dist {
			keys = append(keys, g)
		}
		sort.Strings(keys)

		best, bestCount := keys[0], dist[keys[0]]
		freq := make([]float64, 0, len(keys))
		for _, g := range keys {
			if dist[g] > bestCount {
				best, bestCount = g, dist[g]
			}
			freq = append(freq, float64(dist[g]))
		}

		if stats.Entropy(freq) > cutoff {
			names[c] = UnknownClass
		} else {
			names[c] = best
		}
	}

	return names
}

// dedupNames disambiguates repeated class names with _1, _2, ...
// suffixes; the first occurrence keeps the bare name.
func dedupNames(names []string) []string {
	used := make(map[string]struct{}, len(names))
	out := make([]string, len(names))
	for i, nm := range names {
		cand := nm
		for k := 1; ; k++ {
			if _, taken := used[cand]; !taken {
				break
			}
			cand = nm + "_" + strconv.Itoa(k)
		}
		used[cand] = struct{}{}
		out[i] = cand
	}

	return out
}

// warnCellCycle runs a rank-sum test of every class against the rest for
// each provided cell-cycle score and logs a warning when a class scores
// significantly higher, a hint that it is cycle-driven rather than a
// genuine endpoint.
func warnCellCycle(lab *Labeling, o *SetOptions) {
	scores := []struct {
		name   string
		values []float64
	}{
		{"G2M", o.G2M},
		{"S", o.S},
	}

	for _, sc := range scores {
		if sc.values == nil || len(sc.values) != lab.N() {
			continue
		}
		for c, nm := range lab.names {
			var in, rest []float64
			for i, a := range lab.assign {
				if a == c {
					in = append(in, sc.values[i])
				} else {
					rest = append(rest, sc.values[i])
				}
			}
			statistic, p := o.RankSum(in, rest)
			if statistic > 0 && p < o.PThresh {
				o.logger().Warn("class may be cell-cycle driven",
					"class", nm, "score", sc.name, "statistic", statistic, "p", p)
			}
		}
	}
}

// numberedNames returns "0", "1", ..., one per class.
func numberedNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = strconv.Itoa(i)
	}

	return names
}
