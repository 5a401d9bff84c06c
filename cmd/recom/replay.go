// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/recom/partition"
	"github.com/katalvlaran/recom/record"
)

func newReplayCmd(a *app) *cobra.Command {
	var (
		store string
		runID string
	)
	cmd := &cobra.Command{
		Use:   "replay [file]",
		Short: "Replay a recorded chain and print its scores",
		Long: `replay rebuilds the plans of a recorded chain, either from a JSONL file
(optionally zstd-compressed) or from a run in a SQLite store, and prints the
configured scores of every step.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case len(args) == 1 && store == "":
				return a.replayFile(cmd, args[0])
			case len(args) == 0 && store != "":
				return a.replayStore(cmd, store, runID)
			default:
				return errors.New("replay needs either a file argument or --store")
			}
		},
	}
	cmd.Flags().StringVar(&store, "store", "", "SQLite store path")
	cmd.Flags().StringVar(&runID, "run", "", "run id inside the store (default: latest)")

	return cmd
}

func (a *app) replayFile(cmd *cobra.Command, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	r, err := record.NewReader(f)
	if err != nil {
		return err
	}
	defer r.Close()

	return a.replay(cmd, r.Assignments())
}

func (a *app) replayStore(cmd *cobra.Command, path, runID string) error {
	ctx := cmd.Context()
	st, err := record.OpenStore(ctx, path)
	if err != nil {
		return err
	}
	defer st.Close()

	var run record.Run
	if runID != "" {
		id, err := uuid.Parse(runID)
		if err != nil {
			return fmt.Errorf("run id %q: %w", runID, err)
		}
		if run, err = st.GetRun(ctx, id); err != nil {
			return err
		}
	} else {
		runs, err := st.Runs(ctx)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			return record.ErrUnknownRun
		}
		run = runs[len(runs)-1]
	}
	steps, err := st.Steps(ctx, run.ID)
	if err != nil {
		return err
	}

	return a.replay(cmd, record.Assignments(steps))
}

// replay prints one tab-separated line per plan: index, self-loop flag and
// every plan-wide score.
func (a *app) replay(cmd *cobra.Command, assignments iter.Seq2[[]int, error]) error {
	g, _, err := buildGraph(a.cfg.Graph)
	if err != nil {
		return err
	}
	scoreSet := buildScores(a.cfg.Scores)
	names := make([]string, 0, len(scoreSet))
	for _, s := range scoreSet {
		if s.Name != scoreDistrictPops {
			names = append(names, s.Name)
		}
	}

	w := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(w, "step\tself_loop\t%s\n", strings.Join(names, "\t")); err != nil {
		return err
	}
	var prev *partition.Plan
	i := 0
	for p, err := range record.Replay(g, assignments, scoreSet...) {
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		cols := make([]string, 0, len(names))
		for _, name := range names {
			v, err := p.Score(name)
			if err != nil {
				return err
			}
			cols = append(cols, formatScore(v))
		}
		if _, err := fmt.Fprintf(w, "%d\t%t\t%s\n", i, p == prev, strings.Join(cols, "\t")); err != nil {
			return err
		}
		prev = p
		i++
	}
	a.log.Info("replay finished", slog.Int("plans", i))

	return nil
}

func formatScore(v partition.ScoreValue) string {
	switch s := v.(type) {
	case partition.PlanWide:
		return fmt.Sprintf("%g", float64(s))
	case partition.DistrictWide:
		parts := make([]string, len(s))
		for i, x := range s {
			parts[i] = fmt.Sprintf("%g", x)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}
