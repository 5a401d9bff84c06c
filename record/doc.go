// SPDX-License-Identifier: MIT

// Package record persists chains as one assignment per step and replays them.
//
// Two backends are provided:
//
//   - Writer / Reader: newline-delimited JSON arrays, optionally zstd
//     compressed. Readers detect compression from the stream header.
//   - Store: a SQLite database holding many runs, each identified by a
//     UUID, with one row per emitted step.
//
// Replay turns a stream of assignments back into a linked Plan sequence via
// partition.FromAssignment, so parent-relative (incremental) scores work on
// replayed chains exactly as on live ones.
package record
