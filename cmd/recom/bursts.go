// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/recom/config"
	"github.com/katalvlaran/recom/optimize"
	"github.com/katalvlaran/recom/partition"
)

func newBurstsCmd(a *app) *cobra.Command {
	var (
		length int
		count  int
		target string
		output string
	)
	cmd := &cobra.Command{
		Use:   "bursts",
		Short: "Optimize a plan-wide score with short bursts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if flags.Changed("length") {
				a.cfg.Bursts.Length = length
			}
			if flags.Changed("count") {
				a.cfg.Bursts.Count = count
			}
			if flags.Changed("target") {
				a.cfg.Bursts.Target = target
			}
			if flags.Changed("output") {
				a.cfg.Output.Path = output
			}

			return a.bursts(cmd)
		},
	}
	cmd.Flags().IntVar(&length, "length", 0, "steps per burst")
	cmd.Flags().IntVar(&count, "count", 0, "number of bursts")
	cmd.Flags().StringVar(&target, "target", "", "plan-wide score to optimize")
	cmd.Flags().StringVarP(&output, "output", "o", "", "JSONL output path for visited plans")

	return cmd
}

func (a *app) bursts(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := a.cfg

	root, err := buildPlan(cfg)
	if err != nil {
		return err
	}
	metrics, stop := startMetrics(cfg.Metrics.Addr, a.log)
	defer stop()

	// Bursts always accept; the chain's own acceptance config does not apply.
	opt, err := optimize.New(root, cfg.Bursts.Length, cfg.Bursts.Count, cfg.Bursts.Target, cfg.Chain.Epsilon,
		optimize.WithMaximize(cfg.Bursts.Maximize),
		optimize.WithLogger(a.log),
		optimize.WithChainOptions(chainOptions(cfg.Chain, nil, a.log, metrics)...),
	)
	if err != nil {
		return err
	}
	out, err := openSink(ctx, cfg.Output, struct {
		Chain  config.ChainConfig  `json:"chain"`
		Bursts config.BurstsConfig `json:"bursts"`
	}{cfg.Chain, cfg.Bursts})
	if err != nil {
		return err
	}

	visited := 0
	err = opt.Run(cfg.Chain.Seed, func(p *partition.Plan) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		visited++
		return out.Write(ctx, visited-1, p)
	})
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "visited=%d best_%s=%v\n", visited, cfg.Bursts.Target, opt.BestScore())

	return err
}
