// Package recom is a toolkit for sampling and optimizing district plans with
// recombination (ReCom) Markov chains.
//
// 🚀 What is in the box?
//
//	• dualgraph/ — immutable dual graph of geographic units: populations,
//	               attributes, region boundary penalties, grid toy model,
//	               networkx JSON ingestion
//	• spanning/  — Kruskal and Prim minimum spanning trees on edge lists
//	• partition/ — Plan, Proposal and the memoized score registry
//	• recom/     — the recombination proposal generator
//	• chain/     — seeded, batched, parallel chain driver with metrics
//	• accept/    — Always, Metropolis–Hastings and simulated annealing
//	• scores/    — tallies, cut edges, elections, proportionality,
//	               minority opportunity and population displacement
//	• optimize/  — short-burst optimization of a single score
//	• record/    — JSONL (optionally zstd) recordings, SQLite store, replay
//	• config/    — YAML configuration with RECOM_* environment overrides
//	• cmd/recom  — the command-line harness
//
// Quick ASCII example of one recombination step on a 4×2 grid:
//
//	    before            merge A∪B,          after
//	  A A │ B B         cut a spanning tree   A A A │ B
//	  A A │ B B    ──►  at a balanced edge ──► A │ B B B
//
// Both new districts hold a population within ε of the ideal.
//
//	go get github.com/katalvlaran/recom
package recom
