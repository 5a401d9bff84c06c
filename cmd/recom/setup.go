// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/katalvlaran/recom/accept"
	"github.com/katalvlaran/recom/chain"
	"github.com/katalvlaran/recom/config"
	"github.com/katalvlaran/recom/dualgraph"
	"github.com/katalvlaran/recom/partition"
	"github.com/katalvlaran/recom/record"
	"github.com/katalvlaran/recom/scores"
)

// Names of the scores registered on every root plan.
const (
	scoreCutEdges     = "cut_edges"
	scoreDistrictPops = "district_pops"
)

// buildGraph loads the configured graph, or builds a grid seeded with
// vertical strips when no path is set.
func buildGraph(gc config.GraphConfig) (*dualgraph.Graph, []int, error) {
	if gc.Path != "" {
		g, a, err := dualgraph.Load(gc.Path, dualgraph.LoadOptions{
			PopulationColumn: gc.PopulationColumn,
			AssignmentColumn: gc.AssignmentColumn,
			Columns:          gc.Columns,
			Regions:          gc.Regions,
			GeoidColumn:      gc.GeoidColumn,
		})
		if err != nil {
			return nil, nil, err
		}
		if a == nil {
			return nil, nil, fmt.Errorf("graph %s: assignment_column is required", gc.Path)
		}
		return g, a, nil
	}

	grid := gc.Grid
	if grid.Districts > grid.Cols {
		return nil, nil, fmt.Errorf("grid of %d columns cannot hold %d strips", grid.Cols, grid.Districts)
	}
	g, err := dualgraph.Grid(grid.Cols, grid.Rows)
	if err != nil {
		return nil, nil, err
	}
	a := make([]int, g.NumNodes())
	for i := range a {
		col := i / grid.Rows
		a[i] = col * grid.Districts / grid.Cols
	}

	return g, a, nil
}

// buildScores returns the configured score set.
func buildScores(sc config.ScoresConfig) []partition.Score {
	out := []partition.Score{scores.DistrictPopulations(scoreDistrictPops)}
	if sc.CutEdges {
		out = append(out, scores.NumCutEdges(scoreCutEdges))
	}
	for _, col := range sc.Tallies {
		out = append(out, scores.Tally(col, col))
	}

	return out
}

// buildPlan assembles the root plan.
func buildPlan(cfg config.Config) (*partition.Plan, error) {
	g, a, err := buildGraph(cfg.Graph)
	if err != nil {
		return nil, err
	}

	return partition.New(g, a, buildScores(cfg.Scores)...)
}

// buildAccept returns the configured acceptance strategy.
func buildAccept(ac config.AcceptConfig, root *partition.Plan) (accept.Func, error) {
	switch ac.Kind {
	case config.AcceptMetropolis:
		return accept.MetropolisHastings(root, ac.Score, ac.Beta, ac.Maximize)
	case config.AcceptAnnealing:
		return accept.SimulatedAnnealing(root, ac.Score, ac.Cycle, ac.Maximize)
	default:
		return accept.Always(), nil
	}
}

// chainOptions translates ChainConfig into chain options.
func chainOptions(cc config.ChainConfig, f accept.Func, log *slog.Logger, m *chain.Metrics) []chain.Option {
	opts := []chain.Option{
		chain.WithSeed(cc.Seed),
		chain.WithAcceptance(f),
		chain.WithParallelism(cc.Parallelism),
		chain.WithBatchSize(cc.BatchSize),
		chain.WithFrozenDistricts(cc.Frozen...),
		chain.WithTreeMethod(cc.TreeMethod),
		chain.WithMaxCutEdgeDraws(cc.MaxCutEdgeDraws),
		chain.WithLogger(log),
		chain.WithMetrics(m),
	}
	if cc.TargetPopulation > 0 {
		opts = append(opts, chain.WithTargetPopulation(cc.TargetPopulation))
	}

	return opts
}

// startMetrics registers chain metrics and, when addr is set, serves them
// on /metrics until the returned stop function is called.
func startMetrics(addr string, log *slog.Logger) (*chain.Metrics, func()) {
	reg := prometheus.NewRegistry()
	m := chain.NewMetrics(reg)
	if addr == "" {
		return m, func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", slog.String("addr", addr), slog.Any("error", err))
		}
	}()
	log.Info("serving metrics", slog.String("addr", addr))

	return m, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// sink writes sampled plans to the configured file and/or store.
type sink struct {
	every  int
	file   *os.File
	writer *record.Writer
	store  *record.Store
	run    record.Run
}

func openSink(ctx context.Context, oc config.OutputConfig, params any) (*sink, error) {
	s := &sink{every: oc.Every}
	if oc.Path != "" {
		f, err := os.Create(oc.Path)
		if err != nil {
			return nil, err
		}
		var opts []record.WriterOption
		if oc.Compress {
			opts = append(opts, record.WithCompression(zstd.SpeedDefault))
		}
		w, err := record.NewWriter(f, opts...)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		s.file, s.writer = f, w
	}
	if oc.Store != "" {
		st, err := record.OpenStore(ctx, oc.Store)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.store = st
		run, err := st.CreateRun(ctx, params)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.run = run
	}

	return s, nil
}

func (s *sink) Write(ctx context.Context, step int, p *partition.Plan) error {
	if step%s.every != 0 {
		return nil
	}
	if s.writer != nil {
		if err := s.writer.WritePlan(p); err != nil {
			return err
		}
	}
	if s.store != nil {
		return s.store.AppendStep(ctx, s.run.ID, step, p)
	}

	return nil
}

func (s *sink) Close() error {
	var errs []error
	if s.writer != nil {
		errs = append(errs, s.writer.Close())
	}
	if s.file != nil {
		errs = append(errs, s.file.Close())
	}
	if s.store != nil {
		errs = append(errs, s.store.Close())
	}

	return errors.Join(errs...)
}
