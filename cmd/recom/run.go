// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/recom/chain"
	"github.com/katalvlaran/recom/partition"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		steps  int
		seed   int64
		output string
		store  string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a ReCom chain and record the sampled plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if flags.Changed("steps") {
				a.cfg.Chain.Steps = steps
			}
			if flags.Changed("seed") {
				a.cfg.Chain.Seed = seed
			}
			if flags.Changed("output") {
				a.cfg.Output.Path = output
			}
			if flags.Changed("store") {
				a.cfg.Output.Store = store
			}

			return a.run(cmd)
		},
	}
	cmd.Flags().IntVarP(&steps, "steps", "n", 0, "number of plans to emit, including the initial one")
	cmd.Flags().Int64Var(&seed, "seed", 0, "chain seed")
	cmd.Flags().StringVarP(&output, "output", "o", "", "JSONL output path")
	cmd.Flags().StringVar(&store, "store", "", "SQLite store path")

	return cmd
}

func (a *app) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := a.cfg

	root, err := buildPlan(cfg)
	if err != nil {
		return err
	}
	f, err := buildAccept(cfg.Accept, root)
	if err != nil {
		return err
	}
	metrics, stop := startMetrics(cfg.Metrics.Addr, a.log)
	defer stop()

	c, err := chain.New(root, cfg.Chain.Steps, cfg.Chain.Epsilon, chainOptions(cfg.Chain, f, a.log, metrics)...)
	if err != nil {
		return err
	}
	out, err := openSink(ctx, cfg.Output, cfg.Chain)
	if err != nil {
		return err
	}

	err = c.Run(func(step int, p *partition.Plan) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return out.Write(ctx, step, p)
	})
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	var cut partition.ScoreValue
	if last := c.Plan(); last != nil && cfg.Scores.CutEdges {
		if cut, err = last.Score(scoreCutEdges); err != nil {
			a.log.Warn("cut edges unavailable", slog.Any("error", err))
		}
	}
	st := c.Stats()
	_, err = fmt.Fprintf(cmd.OutOrStdout(),
		"steps=%d accepted=%d rejected=%d no_proposal=%d leftovers=%d cut_edges=%v\n",
		c.Step(), st.Accepted, st.Rejected, st.NoProposal, st.LeftoversUsed, cut)

	return err
}
