// Package runner orchestrates one campaign run: classify each record
// in input order, compose and dispatch sends, and enforce the run-wide
// policies (quiet hours, per-phone dedup, send throttle).
package runner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jaredtewodros/recallBridge/internal/classify"
	"github.com/jaredtewodros/recallBridge/internal/compose"
	"github.com/jaredtewodros/recallBridge/internal/domain"
	"github.com/jaredtewodros/recallBridge/internal/observability"
	"github.com/jaredtewodros/recallBridge/internal/provider"
	"github.com/jaredtewodros/recallBridge/internal/ratelimit"
)

// Config is the per-run configuration, injected at construction so
// tests can substitute fixtures without touching process state.
type Config struct {
	Policy      classify.Policy
	Touch       domain.Touch
	DefaultMode domain.Mode
	DryRun      bool
	Force       bool
	// Only filters click-follow-up runs to a single outcome class;
	// empty means all classes.
	Only domain.Touch

	PracticeName        string
	OfficePhone         string
	BookingURL          string
	MessagingServiceSID string

	QuietStartHour int
	QuietEndHour   int
	Location       *time.Location
}

// Runner owns the only mutable run state: the seen-phones set and the
// counters. Classification and composition stay pure.
type Runner struct {
	cfg      Config
	provider provider.Provider
	limiter  ratelimit.Limiter
	logger   *zap.Logger
	metrics  *observability.Metrics
	now      func() time.Time
	seen     seenSet
}

type seenSet map[string]struct{}

func (s seenSet) Contains(phone string) bool {
	_, ok := s[phone]
	return ok
}

func New(cfg Config, p provider.Provider, limiter ratelimit.Limiter, logger *zap.Logger) (*Runner, error) {
	if !cfg.Policy.IsValid() {
		return nil, fmt.Errorf("%w: policy is required", domain.ErrConfiguration)
	}
	if p == nil && !cfg.DryRun {
		return nil, fmt.Errorf("%w: provider is required for live runs", domain.ErrConfiguration)
	}
	if limiter == nil {
		limiter = ratelimit.NewInterval(1)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Runner{
		cfg:      cfg,
		provider: p,
		limiter:  limiter,
		logger:   logger,
		now:      time.Now,
		seen:     make(seenSet),
	}, nil
}

func (r *Runner) SetMetrics(metrics *observability.Metrics) {
	if r == nil {
		return
	}
	r.metrics = metrics
}

// ReasonCount is one entry of the ranked skip-reason table.
type ReasonCount struct {
	Reason string
	Count  int
}

// Summary is the end-of-run report.
type Summary struct {
	RunID       string
	DryRun      bool
	Sent        int
	Skipped     int
	Errors      int
	SkipReasons map[string]int
}

// RankedSkipReasons returns skip reasons by descending frequency,
// ties broken alphabetically for stable output.
func (s *Summary) RankedSkipReasons() []ReasonCount {
	ranked := make([]ReasonCount, 0, len(s.SkipReasons))
	for reason, count := range s.SkipReasons {
		ranked = append(ranked, ReasonCount{Reason: reason, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Reason < ranked[j].Reason
	})
	return ranked
}

// Run processes records strictly in input order. The quiet-hours gate
// is fail-closed for the whole run; per-record failures (composer,
// provider) are counted and never abort the run.
func (r *Runner) Run(ctx context.Context, records []domain.PatientRecord) (*Summary, error) {
	runID := uuid.NewString()
	ctx = observability.WithRunID(ctx, runID)
	log := observability.WithContextLogger(r.logger, ctx)

	summary := &Summary{
		RunID:       runID,
		DryRun:      r.cfg.DryRun,
		SkipReasons: make(map[string]int),
	}

	loc := r.cfg.Location
	if loc == nil {
		loc = time.Local
	}
	localNow := r.now().In(loc)
	if !classify.WithinSendWindow(localNow, r.cfg.QuietStartHour, r.cfg.QuietEndHour) {
		return nil, fmt.Errorf("%w: local hour %d is outside %02d:00-%02d:00",
			domain.ErrQuietHours, localNow.Hour(), r.cfg.QuietStartHour, r.cfg.QuietEndHour)
	}

	req := classify.Request{
		Policy:      r.cfg.Policy,
		Touch:       r.cfg.Touch,
		DefaultMode: r.cfg.DefaultMode,
		Force:       r.cfg.Force,
		Now:         r.now().UTC(),
	}

	log.Info("campaign run started",
		zap.String("policy", r.cfg.Policy.String()),
		zap.Int("records", len(records)),
		zap.Bool("dryRun", r.cfg.DryRun),
		zap.Bool("force", r.cfg.Force),
	)

	for _, rec := range records {
		decision := classify.Classify(rec, req, r.seen)

		if !decision.IsSend() {
			r.recordSkip(log, rec, decision, summary)
			continue
		}
		if r.cfg.Only.IsValid() && decision.Touch != r.cfg.Only {
			decision = domain.SkipDecision(decision.Touch, "filtered by only-mode")
			r.recordSkip(log, rec, decision, summary)
			continue
		}

		// Dedup is committed before the send is attempted, so a
		// provider failure cannot make a later duplicate eligible.
		r.seen[rec.Phone] = struct{}{}

		if err := r.dispatch(ctx, log, rec, decision, summary); err != nil {
			return summary, err
		}
	}

	r.logSummary(log, summary)
	return summary, nil
}

func (r *Runner) dispatch(ctx context.Context, log *zap.Logger, rec domain.PatientRecord, decision domain.Decision, summary *Summary) error {
	body, err := r.composeBody(rec, decision)
	if err != nil {
		summary.Errors++
		r.metrics.IncSendError("composer")
		log.Error("compose failed",
			zap.Int("row", rec.Row),
			zap.String("phone", rec.Phone),
			zap.Error(err),
		)
		return nil
	}

	if r.cfg.DryRun {
		summary.Sent++
		log.Info("dry run, would send",
			zap.Int("row", rec.Row),
			zap.String("phone", rec.Phone),
			zap.String("touch", decision.Touch.String()),
			zap.String("mode", decision.Mode.String()),
			zap.String("body", body),
		)
		return nil
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait failed: %w", err)
	}

	sendStart := r.now()
	result, err := r.provider.Send(ctx, provider.SendRequest{
		To:                  rec.Phone,
		Body:                body,
		MessagingServiceSID: r.cfg.MessagingServiceSID,
		ShortenURLs:         true,
	})
	r.metrics.ObserveSendDuration(decision.Mode.String(), r.now().Sub(sendStart))

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
			return err
		}
		summary.Errors++
		kind := "provider"
		if provider.IsTransient(err) {
			kind = "provider_transient"
		}
		r.metrics.IncSendError(kind)
		log.Error("send failed",
			zap.Int("row", rec.Row),
			zap.String("phone", rec.Phone),
			zap.Error(err),
		)
		return nil
	}

	summary.Sent++
	r.metrics.IncMessageSent(decision.Mode.String())
	log.Info("sent",
		zap.Int("row", rec.Row),
		zap.String("phone", rec.Phone),
		zap.String("touch", decision.Touch.String()),
		zap.String("mode", decision.Mode.String()),
		zap.String("sid", result.SID),
	)
	return nil
}

func (r *Runner) composeBody(rec domain.PatientRecord, decision domain.Decision) (string, error) {
	in := compose.Input{
		Mode:         decision.Mode,
		ListTag:      rec.ListTag,
		FirstName:    rec.FirstName,
		PracticeName: r.cfg.PracticeName,
		OfficePhone:  r.cfg.OfficePhone,
	}
	if decision.Mode == domain.ModeLink {
		trackingURL, err := compose.TrackingURL(r.cfg.BookingURL, rec.ListTag, rec.Phone)
		if err != nil {
			return "", err
		}
		in.TrackingURL = trackingURL
	}
	return compose.Render(in)
}

func (r *Runner) recordSkip(log *zap.Logger, rec domain.PatientRecord, decision domain.Decision, summary *Summary) {
	summary.Skipped++
	reason := decision.Reason()
	if len(decision.Reasons) > 0 {
		// Group the summary by primary reason; the full trail stays in
		// the log line.
		summary.SkipReasons[decision.Reasons[0]]++
		r.metrics.IncRecordSkipped(decision.Reasons[0])
	}
	log.Info("skip",
		zap.Int("row", rec.Row),
		zap.String("name", rec.Name()),
		zap.String("reason", reason),
	)
}

func (r *Runner) logSummary(log *zap.Logger, summary *Summary) {
	fields := []zap.Field{
		zap.Int("sent", summary.Sent),
		zap.Int("skipped", summary.Skipped),
		zap.Int("errors", summary.Errors),
		zap.Bool("dryRun", summary.DryRun),
	}
	for _, rc := range summary.RankedSkipReasons() {
		fields = append(fields, zap.Int("skip:"+rc.Reason, rc.Count))
	}
	log.Info("campaign run finished", fields...)
}
