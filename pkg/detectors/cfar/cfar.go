// Package cfar implements Constant False Alarm Rate detection over range profiles.
package cfar

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hed1ad/gocfar/pkg/detectors"
)

var _ detectors.StreamDetector = (*Detector)(nil)

// Detector scans range profiles with a sliding guard/reference window.
// It is immutable after New and safe for concurrent use.
type Detector struct {
	// Configuration
	cfg        Config
	workers    int
	slidingSum bool
	logger     *zap.Logger

	// Derived once per configuration
	model     ThresholdModel
	estimator NoiseEstimator
	factor    float64
}

// Option configures a Detector.
type Option func(*Detector)

// WithWorkers sets the number of goroutines sharing a scan.
func WithWorkers(n int) Option {
	return func(d *Detector) {
		d.workers = n
	}
}

// WithSlidingSum enables running sums for estimators that support them.
func WithSlidingSum(on bool) Option {
	return func(d *Detector) {
		d.slidingSum = on
	}
}

// WithLogger sets the logger used for scan summaries.
func WithLogger(l *zap.Logger) Option {
	return func(d *Detector) {
		d.logger = l
	}
}

// New validates cfg and creates a Detector with its threshold factor
// precomputed.
func New(cfg Config, opts ...Option) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	model, err := NewThresholdModel(cfg)
	if err != nil {
		return nil, err
	}
	estimator, err := NewEstimator(cfg.Estimator)
	if err != nil {
		return nil, err
	}
	factor, err := model.Factor(cfg.Pfa)
	if err != nil {
		return nil, err
	}

	d := &Detector{
		cfg:        cfg,
		workers:    1,
		slidingSum: true,
		logger:     zap.NewNop(),
		model:      model,
		estimator:  estimator,
		factor:     factor,
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.workers < 1 {
		d.workers = 1
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}

	return d, nil
}

// Config returns the detector configuration.
func (d *Detector) Config() Config {
	return d.cfg
}

// Factor returns the threshold factor applied to every noise estimate.
func (d *Detector) Factor() float64 {
	return d.factor
}

// Model returns the threshold model selected by the configuration.
func (d *Detector) Model() ThresholdModel {
	return d.model
}

// Scan classifies every cell of samples.
//
// The result always has len(samples) entries. Cells without a usable window
// are StatusNotEvaluated. If ctx is cancelled mid-scan the partial result is
// returned with ctx.Err(); cells already written are valid and the rest are
// StatusPending.
func (d *Detector) Scan(ctx context.Context, samples []float64) ([]detectors.Decision, error) {
	n := len(samples)
	if err := d.cfg.CheckLength(n); err != nil {
		return nil, err
	}
	for i, v := range samples {
		if err := checkSample(v); err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
	}
	if d.cfg.Boundary == BoundaryReject {
		for _, i := range []int{0, n - 1} {
			if _, err := ReferenceWindow(samples, i, d.cfg.GuardCells, d.cfg.ReferenceCells, BoundaryReject); err != nil {
				return nil, err
			}
		}
	}

	start := time.Now()
	out := make([]detectors.Decision, n)

	var prefix *prefixSums
	combiner, canSlide := d.estimator.(SideCombiner)
	if d.slidingSum && canSlide {
		prefix = newPrefixSums(samples)
	}

	workers := d.workers
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, min(lo+chunk, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := gctx.Err(); err != nil {
					return err
				}

				var (
					noise float64
					ok    bool
				)
				if prefix != nil {
					noise, ok = d.slidingNoise(samples, prefix, i, combiner)
				} else {
					noise, ok = d.windowNoise(samples, i)
				}
				if !ok {
					out[i] = detectors.Decision{Status: detectors.StatusNotEvaluated, Value: samples[i]}
					continue
				}

				decision, err := decide(samples[i], noise, d.factor)
				if err != nil {
					return fmt.Errorf("index %d: %w", i, err)
				}
				out[i] = decision
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		return nil, err
	}

	if ce := d.logger.Check(zap.DebugLevel, "scan complete"); ce != nil {
		var targets, skipped int
		for _, dec := range out {
			switch dec.Status {
			case detectors.StatusTarget:
				targets++
			case detectors.StatusNotEvaluated:
				skipped++
			}
		}
		ce.Write(
			zap.Int("cells", n),
			zap.Int("targets", targets),
			zap.Int("not_evaluated", skipped),
			zap.Int("workers", workers),
			zap.Bool("sliding_sum", prefix != nil),
			zap.Duration("elapsed", time.Since(start)),
		)
	}

	return out, nil
}

// windowNoise recomputes the reference window for cell i.
func (d *Detector) windowNoise(samples []float64, i int) (float64, bool) {
	noise, err := NoiseLevel(samples, i, d.cfg, d.estimator)
	if err != nil {
		return 0, false
	}
	return noise, true
}

// slidingNoise derives the side sums for cell i from prefix. A side whose
// prefix difference is not accurate enough, such as a small window following
// a very large sample, sends the cell back to windowNoise.
func (d *Detector) slidingNoise(samples []float64, prefix *prefixSums, i int, c SideCombiner) (float64, bool) {
	n := len(samples)
	g, r := d.cfg.GuardCells, d.cfg.ReferenceCells

	var lead, trail Side
	if start := i - g - r; start >= 0 {
		sum, exact := prefix.sum(start, i-g)
		if !exact {
			return d.windowNoise(samples, i)
		}
		lead = Side{Sum: sum, N: r}
	}
	if end := i + g + 1 + r; end <= n {
		sum, exact := prefix.sum(i+g+1, end)
		if !exact {
			return d.windowNoise(samples, i)
		}
		trail = Side{Sum: sum, N: r}
	}

	switch {
	case lead.N > 0 && trail.N > 0:
	case d.cfg.Boundary == BoundaryOneSided && (lead.N > 0 || trail.N > 0):
	default:
		return 0, false
	}
	return c.Combine(lead, trail), true
}

// ScanStream scans profiles from input until it is closed or ctx is done.
// Scan errors are reported in Frame.Err and do not stop the stream.
func (d *Detector) ScanStream(ctx context.Context, input <-chan []float64, output chan<- detectors.Frame) error {
	seq := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case samples, ok := <-input:
			if !ok {
				return nil
			}

			decisions, err := d.Scan(ctx, samples)
			if err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				d.logger.Warn("frame rejected", zap.Int("seq", seq), zap.Error(err))
			}

			select {
			case output <- detectors.Frame{Seq: seq, Decisions: decisions, Err: err}:
			case <-ctx.Done():
				return ctx.Err()
			}
			seq++
		}
	}
}
