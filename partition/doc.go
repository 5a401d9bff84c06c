// SPDX-License-Identifier: MIT

// Package partition models district plans (partitions) over a dualgraph.Graph.
//
// A Plan is an immutable district assignment snapshot. The root Plan is
// built once from external input (New); every later Plan is built exactly
// once from one accepted Proposal (FromProposal) or, when replaying a stored
// chain, from a raw assignment (FromAssignment). Apart from its self-loop
// counter and its lazily filled score cache, a Plan never changes.
//
// History is a singly linked chain that holds no strong reference to older
// Plans: a child keeps only its parent's assignment slice and a read-only
// view of the parent's score cache, so ancestors become collectible as soon
// as nothing else points at them.
//
// Scores
//
//	A Score is a named pure function Plan → ScoreValue, registered once on the
//	root Plan and shared by every descendant. ScoreValue is a closed tagged
//	union of PlanWide (a scalar) and DistrictWide (one value per district).
//	Plan.Score memoizes into the Plan's own cache; TryGetParentScore exposes the
//	parent's cached value without ever triggering computation, which is what
//	incremental scores use to decide between an O(|flips|) update and a full
//	O(N) recomputation.
//
// Concurrency
//
//	Plans are read concurrently by proposal workers (assignment, cut edges,
//	subgraphs). Score and TakeSelfLoop mutate the Plan and must only be called
//	from the goroutine driving the chain.
package partition
