// Package partition splits the states of a Markov chain into recurrent and
// transient communication classes.
//
// The transition matrix induces a directed graph with an edge i→j whenever
// T[i,j] > 0. Strongly connected components of that graph are the
// communication classes; a class is recurrent iff no edge leaves it, and
// transient otherwise. The chain is irreducible iff there is exactly one
// recurrent class and no transient states.
//
// Algorithm:
//
//	– Tarjan's strongly-connected-components algorithm, implemented with an
//	  explicit stack (no recursion) so chains with long transient tails do
//	  not exhaust the goroutine stack.
//	– One extra pass over the edges marks components with an outgoing edge
//	  to a foreign component as transient.
//
// Complexity:
//
//	– Time:  O(N + E), E = number of non-zero transitions.
//	– Space: O(N) beyond the input.
//
// Determinism: classes are reported with members ascending and classes
// ordered by their smallest member, so repeated calls on the same matrix
// yield identical output.
//
// Errors (sentinel):
//
//	– ErrNilMatrix      if the matrix is nil.
//	– stoch.ErrNegative / stoch.ErrNaNInf for malformed entries
//	  (wrapped; match with errors.Is).
package partition
