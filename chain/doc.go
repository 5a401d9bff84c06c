// SPDX-License-Identifier: MIT

// Package chain drives a ReCom Markov chain over district plans.
//
// A Chain is a lazily evaluated, finite sequence of Plans. Step 0 is the
// initial Plan; every later step either commits one accepted proposal or
// re-emits the current Plan as a self-loop. Iteration is pull-based:
//
//	c, err := chain.New(initial, 1000, 0.05, chain.WithSeed(7))
//	for c.Next() {
//		use(c.Step(), c.Plan())
//	}
//	if err := c.Err(); err != nil { ... }
//
// Within a step, a batch of proposal attempts runs in parallel. Attempt i
// is seeded with base+i, where base is one draw from the chain RNG, and
// results are collected by attempt index, so the Plan sequence depends only
// on the initial Plan and the seed, never on scheduling or parallelism.
//
// Proposals that survived a batch but were not tried are kept in a
// leftover queue bound to the Plan they were generated from. They are
// tested on the following steps before any new batch is sampled, and are
// dropped once a proposal is accepted.
//
// A Chain is driven by one goroutine. Independent Chains over the same
// Graph may run concurrently.
package chain
