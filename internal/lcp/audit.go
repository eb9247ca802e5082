package lcp

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/runnerr0/lcpbreakdown/internal/trace"
)

// Inputs supplies the pre-computed artifacts of one page load.
type Inputs interface {
	Trace(ctx context.Context) (trace.Trace, error)
	NetworkRecords(ctx context.Context) ([]trace.NetworkRecord, error)
	ProcessedNavigation(ctx context.Context) (trace.NavigationTimestamps, error)
	LcpMetric(ctx context.Context) (trace.MetricResult, error)
	MainResource(ctx context.Context) (trace.NetworkRecord, error)
}

// Auditor composes the resolver, timing selection, decomposition and
// assembly over a set of Inputs.
type Auditor struct {
	resolver *Resolver
	logger   *zap.Logger
}

// NewAuditor returns an Auditor. A nil resolver uses NewResolver and a nil
// logger discards output.
func NewAuditor(resolver *Resolver, logger *zap.Logger) *Auditor {
	if resolver == nil {
		resolver = NewResolver()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auditor{resolver: resolver, logger: logger}
}

// Run computes the LCP element and, when possible, its phase breakdown.
// Only failures to retrieve inputs are returned as errors.
func (a *Auditor) Run(ctx context.Context, in Inputs) (Result, error) {
	var (
		tr      trace.Trace
		records []trace.NetworkRecord
		nav     trace.NavigationTimestamps
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		tr, err = in.Trace(gctx)
		if err != nil {
			return fmt.Errorf("trace: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		records, err = in.NetworkRecords(gctx)
		if err != nil {
			return fmt.Errorf("network records: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		nav, err = in.ProcessedNavigation(gctx)
		if err != nil {
			return fmt.Errorf("processed navigation: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	if tr.Candidate == nil {
		a.logger.Debug("No LCP candidate in trace")
		return Assemble(nil, nil, ReasonNoCandidate), nil
	}

	record, ok := a.resolver.ResolveLcpRecord(tr, nav, records)
	if !ok {
		a.logger.Debug("LCP element has no network record",
			zap.String("paint_type", string(tr.Candidate.Paint.Type)),
			zap.String("image_url", tr.Candidate.Paint.ImageURL))
		return Assemble(tr.Candidate, nil, ReasonNoMatchingNetworkRecord), nil
	}

	var (
		metric      trace.MetricResult
		main        trace.NetworkRecord
		mainMissing error
	)
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		metric, err = in.LcpMetric(gctx)
		if err != nil {
			return fmt.Errorf("lcp metric: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		main, err = in.MainResource(gctx)
		if errors.Is(err, ErrMissingMainResource) {
			mainMissing = err
			return nil
		}
		if err != nil {
			return fmt.Errorf("main resource: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	if mainMissing != nil {
		a.logger.Debug("Omitting LCP phase breakdown",
			zap.String("request_id", record.RequestID),
			zap.Error(mainMissing))
		res := Assemble(tr.Candidate, nil, ReasonMissingMainResource)
		res.LcpTimingMs = metric.Timing
		return res, nil
	}

	phases, err := a.breakdown(metric, record, main, nav)
	if err != nil {
		a.logger.Debug("Omitting LCP phase breakdown",
			zap.String("request_id", record.RequestID),
			zap.Bool("simulated", metric.Simulated()),
			zap.Error(err))
		res := Assemble(tr.Candidate, nil, reasonFor(err))
		res.LcpTimingMs = metric.Timing
		return res, nil
	}

	if phases.Inconsistent {
		a.logger.Warn("LCP render delay is negative; upstream timings disagree",
			zap.String("request_id", record.RequestID),
			zap.Bool("simulated", metric.Simulated()),
			zap.Float64("lcp_ms", metric.Timing),
			zap.Float64("ttfb_ms", phases.Duration(PhaseTTFB)),
			zap.Float64("load_delay_ms", phases.Duration(PhaseLoadDelay)),
			zap.Float64("load_time_ms", phases.Duration(PhaseLoadTime)),
			zap.Float64("render_delay_ms", phases.Duration(PhaseRenderDelay)))
	}

	res := Assemble(tr.Candidate, &phases, ReasonNone)
	res.LcpTimingMs = metric.Timing
	return res, nil
}

func (a *Auditor) breakdown(metric trace.MetricResult, record, main trace.NetworkRecord, nav trace.NavigationTimestamps) (PhaseBreakdown, error) {
	start, end, err := LoadTimestamps(SourceFor(metric, record), record, nav)
	if err != nil {
		return PhaseBreakdown{}, err
	}
	return Decompose(PhaseInputs{
		Navigation:   nav,
		MainResource: main,
		Metric:       metric,
		LoadStart:    start,
		LoadEnd:      end,
	})
}
