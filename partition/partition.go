package partition

import (
	"errors"
	"fmt"
	"sort"

	"github.com/katalvlaran/fate/stoch"
)

// ErrNilMatrix indicates that a nil stoch.Matrix was passed to Compute.
var ErrNilMatrix = errors.New("partition: matrix is nil")

// Partition holds the communication classes of a Markov chain.
//
// Every state index in [0, N) appears in exactly one class. Classes list
// their members ascending; Recurrent and Transient are each ordered by the
// class's smallest member. Irreducible is true iff there is exactly one
// recurrent class and no transient ones.
type Partition struct {
	Recurrent   [][]int
	Transient   [][]int
	Irreducible bool
}

// NumStates returns the total number of states across all classes.
func (p *Partition) NumStates() int {
	n := 0
	for _, c := range p.Recurrent {
		n += len(c)
	}
	for _, c := range p.Transient {
		n += len(c)
	}

	return n
}

// Clone returns a deep copy of the partition.
func (p *Partition) Clone() *Partition {
	if p == nil {
		return nil
	}
	cp := &Partition{Irreducible: p.Irreducible}
	for _, c := range p.Recurrent {
		cp.Recurrent = append(cp.Recurrent, append([]int(nil), c...))
	}
	for _, c := range p.Transient {
		cp.Transient = append(cp.Transient, append([]int(nil), c...))
	}

	return cp
}

// Compute partitions the states of t into recurrent and transient
// communication classes via Tarjan's SCC algorithm.
//
// Row sums are not checked here: any non-negative matrix is accepted, so
// restrictions like the transient block Q can be partitioned too.
// Malformed input (negative or non-finite entries) surfaces the stoch
// sentinels wrapped with position context.
func Compute(t stoch.Matrix) (*Partition, error) {
	if t == nil {
		return nil, ErrNilMatrix
	}
	if err := stoch.Validate(t, &stoch.ValidateOptions{SkipRowSums: true}); err != nil {
		return nil, fmt.Errorf("Compute: %w", err)
	}

	n := t.N()
	comp := tarjanSCC(t)

	// Count components and group members.
	nComp := 0
	for _, c := range comp {
		if c+1 > nComp {
			nComp = c + 1
		}
	}
	members := make([][]int, nComp)
	var i int
	for i = 0; i < n; i++ {
		members[comp[i]] = append(members[comp[i]], i)
	}

	// A component is transient iff any edge leaves it.
	leaves := make([]bool, nComp)
	for i = 0; i < n; i++ {
		ci := comp[i]
		t.EachInRow(i, func(j int, v float64) {
			if v > 0 && comp[j] != ci {
				leaves[ci] = true
			}
		})
	}

	p := &Partition{}
	for c := 0; c < nComp; c++ {
		sort.Ints(members[c])
		if leaves[c] {
			p.Transient = append(p.Transient, members[c])
		} else {
			p.Recurrent = append(p.Recurrent, members[c])
		}
	}
	sortClasses(p.Recurrent)
	sortClasses(p.Transient)
	p.Irreducible = len(p.Recurrent) == 1 && len(p.Transient) == 0

	return p, nil
}

// sortClasses orders classes by their smallest member.
func sortClasses(classes [][]int) {
	sort.Slice(classes, func(a, b int) bool { return classes[a][0] < classes[b][0] })
}

// tarjanSCC assigns a component id to every state, iteratively.
// Component ids are renumbered afterwards so that they are dense in
// [0, nComp); the order of discovery is reverse-topological but callers
// only rely on ids being consistent.
func tarjanSCC(t stoch.Matrix) []int {
	n := t.N()

	const unvisited = -1
	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	comp := make([]int, n)
	for i := range index {
		index[i] = unvisited
		comp[i] = unvisited
	}

	// Adjacency is materialized once: Tarjan revisits successor lists and
	// EachInRow over a Dense row would rescan zeros on every resume.
	succ := make([][]int, n)
	var i int
	for i = 0; i < n; i++ {
		t.EachInRow(i, func(j int, v float64) {
			if v > 0 {
				succ[i] = append(succ[i], j)
			}
		})
	}

	var stack []int     // Tarjan's component stack
	type frame struct { // explicit DFS frame
		v, next int
	}
	var frames []frame
	counter := 0
	nComp := 0

	for root := 0; root < n; root++ {
		if index[root] != unvisited {
			continue
		}

		frames = append(frames[:0], frame{v: root})
		index[root], lowlink[root] = counter, counter
		counter++
		stack = append(stack, root)
		onStack[root] = true

		for len(frames) > 0 {
			f := &frames[len(frames)-1]
			if f.next < len(succ[f.v]) {
				w := succ[f.v][f.next]
				f.next++
				if index[w] == unvisited {
					// Descend.
					index[w], lowlink[w] = counter, counter
					counter++
					stack = append(stack, w)
					onStack[w] = true
					frames = append(frames, frame{v: w})
				} else if onStack[w] && index[w] < lowlink[f.v] {
					lowlink[f.v] = index[w]
				}
				continue
			}

			// All successors done: maybe pop a component, then retreat.
			v := f.v
			if lowlink[v] == index[v] {
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					comp[w] = nComp
					if w == v {
						break
					}
				}
				nComp++
			}
			frames = frames[:len(frames)-1]
			if len(frames) > 0 {
				parent := &frames[len(frames)-1]
				if lowlink[v] < lowlink[parent.v] {
					lowlink[parent.v] = lowlink[v]
				}
			}
		}
	}

	return comp
}
