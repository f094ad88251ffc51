/*
Package workers fans the matcher out across goroutines: one primer
against many templates in package-level parallel (BatchFind), or one
long template split into overlapping slices scored concurrently (Find),
following the same worker-pool-plus-errgroup shape the teacher uses in
bio.ManyToChannel for concurrent parsing, generalized here from "parse
files to a channel" to "score/assemble disjoint template shards and join
ordered results".
*/
package workers

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/koppari-bio/primerscope/match"
	"github.com/koppari-bio/primerscope/primers"
	"github.com/koppari-bio/primerscope/product"
	"github.com/koppari-bio/primerscope/progress"
	"github.com/koppari-bio/primerscope/template"
)

// Config bundles the assembler configuration with the progress counter
// the harness reports to and the worker-count override used in tests
// (zero means runtime.NumCPU()).
type Config struct {
	match.AssembleConfig
	Progress *progress.Counter
	CPUCount int
}

func (c Config) cpuCount() int {
	if c.CPUCount > 0 {
		return c.CPUCount
	}
	return runtime.NumCPU()
}

// StrandSites holds the forward- and reverse-strand annealing sites
// found for one template.
type StrandSites struct {
	Fwd, Rev []product.AnnealingSite
}

// Find scores a primer against one template, splitting the template into
// overlapping slices scored concurrently when it is long enough (and
// enough CPUs are available) for that to pay off, and joining the
// per-slice results back into template coordinates. Short templates are
// scored directly by match.Find with no extra goroutines.
func Find(ctx context.Context, tpl template.Template, primer primers.Primer, cfg Config) (fwd, rev []product.AnnealingSite, err error) {
	cpuCount := cfg.cpuCount()
	if !match.ParallelWorthwhile(tpl.Length, cpuCount) {
		fwd, rev, err = match.Find(tpl, primer, cfg.AssembleConfig)
		reportDone(cfg.Progress, 1)
		return fwd, rev, err
	}

	pLen := primer.Len()
	slices := match.OptimalSlices(tpl.Length, pLen, cpuCount)
	sliceSize := tpl.Length/slices + pLen + 1

	type shard struct {
		start    int
		fwd, rev []product.AnnealingSite
	}
	var starts []int
	for i := 0; i < tpl.Length; i += sliceSize - pLen {
		starts = append(starts, i)
	}

	shards := make([]shard, len(starts))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(cpuCount)
	for idx, start := range starts {
		idx, start := idx, start
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			end := start + sliceSize
			if end > tpl.Length {
				end = tpl.Length
			}
			sub := template.New(tpl.ID, tpl.Slice(start, end))
			f, r, err := match.Find(sub, primer, cfg.AssembleConfig)
			if err != nil {
				return err
			}
			shards[idx] = shard{start: start, fwd: offsetSites(f, start), rev: offsetSites(r, start)}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	for _, s := range shards {
		fwd = append(fwd, s.fwd...)
		rev = append(rev, s.rev...)
	}
	reportDone(cfg.Progress, 1)
	return fwd, rev, nil
}

// offsetSites shifts every site's Position by start, since match.Find
// reports positions relative to the slice it was given.
func offsetSites(sites []product.AnnealingSite, start int) []product.AnnealingSite {
	out := make([]product.AnnealingSite, len(sites))
	for i, s := range sites {
		out[i] = product.AnnealingSite{Position: s.Position + start, Variants: s.Variants}
	}
	return out
}

// BatchFind runs match.Find for a primer against every template, one goroutine
// per template (bounded by cfg.cpuCount), mirroring batch_find's "many
// short sequences, no per-sequence parallelism" strategy.
func BatchFind(ctx context.Context, tpls []template.Template, primer primers.Primer, cfg Config) (map[string]StrandSites, error) {
	results := make(map[string]StrandSites, len(tpls))
	var mu chan struct{} = make(chan struct{}, 1)
	mu <- struct{}{}

	counter := cfg.Progress
	if counter == nil {
		counter = progress.NewCounter(len(tpls))
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(cfg.cpuCount())
	for _, tpl := range tpls {
		tpl := tpl
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fwd, rev, err := match.Find(tpl, primer, cfg.AssembleConfig)
			if err != nil {
				return err
			}
			<-mu
			results[tpl.ID] = StrandSites{Fwd: fwd, Rev: rev}
			mu <- struct{}{}
			counter.Add(1)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func reportDone(c *progress.Counter, n int) {
	if c != nil {
		c.Add(n)
	}
}
