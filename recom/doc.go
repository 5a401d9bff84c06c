// SPDX-License-Identifier: MIT

// Package recom implements the ReCom (recombination) proposal generator.
//
// One proposal attempt, driven by a single seeded RNG:
//
//  1. Pick a cut edge of the current plan uniformly at random; its endpoints
//     name the two districts A and B to merge. Frozen districts are skipped.
//  2. Induce the subgraph of A ∪ B.
//  3. Weight every subgraph edge with uniform noise plus its boundary
//     penalty and take the minimum spanning tree (package spanning).
//  4. Contract the tree leaf by leaf towards a root, tracking the population
//     hanging below every tree edge. Every edge whose removal leaves both
//     sides inside [ideal·(1−ε), ideal·(1+ε)] is a candidate; the candidate
//     with the largest penalty+noise score wins.
//  5. Removing the winning edge splits A ∪ B into two new districts.
//
// An attempt that finds no balanced edge yields a nil proposal and a nil
// error. Errors are reserved for conditions no retry can fix.
//
// A Generator is immutable after New and safe for concurrent Sample calls;
// all randomness comes from the seed argument.
package recom
