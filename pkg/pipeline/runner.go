package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/seqdist/pkg/cache"
	apperrors "github.com/matzehuels/seqdist/pkg/errors"
	"github.com/matzehuels/seqdist/pkg/kendall"
	"github.com/matzehuels/seqdist/pkg/observability"
	"github.com/matzehuels/seqdist/pkg/perm"
	"github.com/matzehuels/seqdist/pkg/seqio"
	"github.com/matzehuels/seqdist/pkg/store"
)

// Runner encapsulates distance computation with caching and history.
// Both CLI and API use it to avoid duplicating that logic.
//
// The Runner holds no per-computation state. Multiple goroutines can safely
// use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store // optional; nil disables history
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache, keyer and store.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// A nil store disables history.
func NewRunner(c cache.Cache, keyer cache.Keyer, st store.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache("no cache configured")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Store:  st,
		Logger: logger,
	}
}

// Close releases the cache and the store.
func (r *Runner) Close(ctx context.Context) error {
	err := r.Cache.Close()
	if r.Store != nil {
		err = errors.Join(err, r.Store.Close(ctx))
	}
	return err
}

// cachedDistance is the cached payload of a distance result.
type cachedDistance struct {
	Length   int `json:"length"`
	Distance int `json:"distance"`
}

// prepare validates pair and converts it to typed sequences.
func (r *Runner) prepare(pair seqio.Pair, opts Options) (string, kendall.Strategy, sequences, error) {
	if err := apperrors.ValidateName(pair.Name); err != nil {
		return "", 0, nil, err
	}
	kind, strategy, err := opts.resolve(pair.Kind, pair.Strategy)
	if err != nil {
		return "", 0, nil, err
	}
	seq, err := typed(kind, strategy, pair)
	if err != nil {
		return "", 0, nil, err
	}
	if err := apperrors.ValidateLength(seq.Len(), opts.MaxLength); err != nil {
		return "", 0, nil, err
	}
	return kind, strategy, seq, nil
}

// Compute measures the distance between the two sequences of pair.
//
// Validation failures carry the codes of package errors; mismatched inputs
// fail with errors wrapping [kendall.ErrLengthMismatch] or
// [kendall.ErrIncompatibleElements]. Cache and store failures are logged
// and never fail the computation.
func (r *Runner) Compute(ctx context.Context, pair seqio.Pair, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	kind, strategy, seq, err := r.prepare(pair, opts)
	if err != nil {
		return nil, err
	}

	hooks := observability.Compute()
	hooks.OnComputeStart(ctx, kind, seq.Len())
	start := time.Now()

	result := &Result{
		Name:     pair.Name,
		Kind:     kind,
		Strategy: strategy.String(),
		Length:   seq.Len(),
	}

	cacheKey := r.Keyer.DistanceKey(cache.DistanceKeyOpts{
		Kind:     kind,
		Strategy: strategy.String(),
		Input:    seq.Canonical(),
	})

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if cached, ok := r.lookup(ctx, cacheKey); ok {
			result.Distance = cached.Distance
			result.Normalized = kendall.Normalized(cached.Distance, cached.Length)
			result.Cached = true
			result.Duration = time.Since(start)
			hooks.OnComputeComplete(ctx, kind, result.Length, result.Distance, result.Duration, nil)
			return result, nil
		}
	}

	d, err := seq.Distance()
	if err != nil {
		hooks.OnComputeComplete(ctx, kind, result.Length, 0, time.Since(start), err)
		return nil, err
	}
	result.Distance = d
	result.Normalized = kendall.Normalized(d, result.Length)
	result.Duration = time.Since(start)

	if data, err := json.Marshal(cachedDistance{Length: result.Length, Distance: d}); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLDistance); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "distance", len(data))
		}
	}
	r.record(ctx, result)

	r.Logger.Debug("computed distance",
		"name", result.Name,
		"kind", kind,
		"strategy", result.Strategy,
		"n", result.Length,
		"distance", d,
		"duration", result.Duration)
	hooks.OnComputeComplete(ctx, kind, result.Length, d, result.Duration, nil)
	return result, nil
}

func (r *Runner) lookup(ctx context.Context, key string) (cachedDistance, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "distance")
		return cachedDistance{}, false
	}
	var cached cachedDistance
	if err := json.Unmarshal(data, &cached); err != nil {
		observability.Cache().OnCacheMiss(ctx, "distance")
		return cachedDistance{}, false
	}
	observability.Cache().OnCacheHit(ctx, "distance")
	return cached, true
}

func (r *Runner) record(ctx context.Context, res *Result) {
	if r.Store == nil {
		return
	}
	rec := store.NewRecord(res.Name, res.Kind, res.Strategy, res.Length, res.Distance, res.Normalized)
	if err := r.Store.Save(ctx, rec); err != nil {
		r.Logger.Warn("saving result failed", "err", err)
	}
}

// Explain computes the distance and returns the relabeling, the
// correspondence permutation and display labels for both sequences.
// Explain bypasses the cache.
func (r *Runner) Explain(ctx context.Context, pair seqio.Pair, opts Options) (*Explanation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, _, seq, err := r.prepare(pair, opts)
	if err != nil {
		return nil, err
	}
	return seq.Explain()
}

// Batch computes every pair with at most workers computations in flight.
//
// Per-pair failures are reported in the returned items, which keep the
// order of pairs. The returned error is non-nil only when ctx is cancelled;
// pairs that were never started then carry the context error.
func (r *Runner) Batch(ctx context.Context, pairs []seqio.Pair, opts Options, workers int) ([]BatchItem, error) {
	return r.BatchFunc(ctx, pairs, opts, workers, nil)
}

// BatchFunc is [Runner.Batch] with a report callback that receives each
// item as soon as its pair finishes. Calls to report are serialized.
func (r *Runner) BatchFunc(ctx context.Context, pairs []seqio.Pair, opts Options, workers int, report func(BatchItem)) ([]BatchItem, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if err := apperrors.ValidateWorkers(workers); err != nil {
		return nil, err
	}

	observability.Compute().OnBatchStart(ctx, len(pairs), workers)
	start := time.Now()

	items := make([]BatchItem, len(pairs))
	for i, p := range pairs {
		items[i] = BatchItem{Index: i, Name: p.Name}
	}

	var reportMu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range pairs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := r.Compute(gctx, pairs[i], opts)
			items[i].Result, items[i].Err = res, err
			if report != nil {
				reportMu.Lock()
				report(items[i])
				reportMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for i := range items {
		if items[i].Result == nil && items[i].Err == nil {
			items[i].Err = ctx.Err()
		}
		if items[i].Err != nil {
			failed++
		}
	}

	duration := time.Since(start)
	observability.Compute().OnBatchComplete(ctx, len(pairs), failed, duration)
	r.Logger.Info("batch complete", "pairs", len(pairs), "failed", failed, "workers", workers, "duration", duration)
	return items, ctx.Err()
}

// Permutation measures the Kendall tau distance between two permutations,
// weighted when req.Weights is set.
func (r *Runner) Permutation(ctx context.Context, req PermRequest) (*PermResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	weighted := req.Weights != nil
	if weighted {
		if err := perm.ValidateWeights(req.Weights); err != nil {
			return nil, err
		}
	}

	cacheKey := r.Keyer.PermKey(cache.PermKeyOpts{P1: req.P1, P2: req.P2, Weights: req.Weights})
	data, hit, err := r.Cache.Get(ctx, cacheKey)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
	}
	if err == nil && hit {
		var cached PermResult
		if err := json.Unmarshal(data, &cached); err == nil {
			observability.Cache().OnCacheHit(ctx, "perm")
			cached.Cached = true
			return &cached, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "perm")

	res := &PermResult{Length: len(req.P1), Weighted: weighted}
	if weighted {
		wk := perm.NewWeightedKendallTau(req.Weights)
		d, err := wk.Distance(req.P1, req.P2)
		if err != nil {
			return nil, err
		}
		res.Distance, res.Max = d, wk.Max()
		if !finite(res.Distance) || !finite(res.Max) {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput,
				"weighted distance overflows float64, scale the weights down")
		}
	} else {
		d, err := perm.KendallTau(req.P1, req.P2)
		if err != nil {
			return nil, err
		}
		res.Distance, res.Max = float64(d), float64(perm.MaxKendallTau(len(req.P1)))
	}
	if res.Max > 0 {
		res.Normalized = res.Distance / res.Max
	}

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLPerm); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "perm", len(data))
		}
	}
	r.Logger.Debug("computed permutation distance", "n", res.Length, "distance", res.Distance, "weighted", weighted)
	return res, nil
}

func finite(x float64) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

// String formats an item for logs and plain-text output.
func (it BatchItem) String() string {
	if it.Err != nil {
		return fmt.Sprintf("%s: error: %s", it.Name, apperrors.UserMessage(it.Err))
	}
	return fmt.Sprintf("%s: %d", it.Name, it.Result.Distance)
}
