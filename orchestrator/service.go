// Package orchestrator runs the full intelligence pipeline for a target:
// fetch raw reports, classify, zone, score, adjust against the static
// baseline, generate a briefing, and cache the completed payload under a
// stale-while-revalidate policy.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"roadwatch/config"
	"roadwatch/intelcache"
	"roadwatch/llm"
	"roadwatch/observability"
	"roadwatch/profiles"
	"roadwatch/reports"
	"roadwatch/scoring"
	"roadwatch/types"
	"roadwatch/zoning"
)

// backgroundRunTimeout bounds a detached refresh so an unresponsive external
// service cannot pin a refresh slot forever.
const backgroundRunTimeout = 5 * time.Minute

// Fetcher is the report-source capability the service needs.
type Fetcher interface {
	FetchArea(ctx context.Context, target types.AreaTarget) ([]types.RawReport, error)
	FetchRoute(ctx context.Context, target types.RouteTarget) ([]types.RawReport, error)
}

// UpdatePublisher is notified after each successful cache write. Optional;
// publish failures are logged and swallowed.
type UpdatePublisher interface {
	PublishUpdated(ctx context.Context, key string, payload types.IntelPayload) error
}

// Archiver persists completed payloads outside the cache. Optional and
// best-effort.
type Archiver interface {
	Archive(ctx context.Context, key string, payload types.IntelPayload) error
}

// Service coordinates the pipeline and the cache. It is the only holder of
// shared mutable state: cache writes are whole-entry replacements, and the
// in-flight maps coalesce concurrent work per cache key.
type Service struct {
	fetcher    Fetcher
	classifier llm.Classifier
	briefer    llm.Briefer
	cache      *intelcache.Cache
	profiles   profiles.Source
	metrics    *observability.Metrics
	clock      clockwork.Clock

	publisher UpdatePublisher
	archiver  Archiver

	mu         sync.Mutex
	foreground map[string]*inflight
	refreshing map[string]bool
}

// inflight is a foreground pipeline run other callers can wait on.
type inflight struct {
	done    chan struct{}
	payload *types.IntelPayload
	err     error
}

// New creates the pipeline service.
func New(fetcher Fetcher, classifier llm.Classifier, briefer llm.Briefer, cache *intelcache.Cache, source profiles.Source, metrics *observability.Metrics, clock clockwork.Clock) *Service {
	return &Service{
		fetcher:    fetcher,
		classifier: classifier,
		briefer:    briefer,
		cache:      cache,
		profiles:   source,
		metrics:    metrics,
		clock:      clock,
		foreground: make(map[string]*inflight),
		refreshing: make(map[string]bool),
	}
}

// WithPublisher attaches an update publisher.
func (s *Service) WithPublisher(p UpdatePublisher) *Service {
	s.publisher = p
	return s
}

// WithArchiver attaches a payload archiver.
func (s *Service) WithArchiver(a Archiver) *Service {
	s.archiver = a
	return s
}

// GetAreaIntel returns intelligence for a single area, serving from cache
// when possible.
func (s *Service) GetAreaIntel(ctx context.Context, target types.AreaTarget) (*types.IntelPayload, error) {
	return s.getIntel(ctx, target)
}

// GetRouteIntel returns intelligence for a multi-state route.
func (s *Service) GetRouteIntel(ctx context.Context, target types.RouteTarget) (*types.IntelPayload, error) {
	return s.getIntel(ctx, target)
}

// Refresh drops the cache entry for a target and is a no-op otherwise. The
// next access runs the full pipeline.
func (s *Service) Refresh(ctx context.Context, target types.Target) {
	s.cache.Invalidate(ctx, target.CacheKey())
}

func (s *Service) getIntel(ctx context.Context, target types.Target) (*types.IntelPayload, error) {
	key := target.CacheKey()

	entry, status := s.cache.Get(ctx, key)
	switch status {
	case intelcache.StatusFresh:
		s.countLookup("fresh")
		payload := entry.Payload
		return &payload, nil
	case intelcache.StatusStale:
		s.countLookup("stale")
		s.refreshInBackground(key, target)
		payload := entry.Payload
		return &payload, nil
	}
	s.countLookup("miss")

	return s.runForeground(ctx, key, target)
}

// runForeground runs the pipeline for a missing key, coalescing concurrent
// callers onto a single run.
func (s *Service) runForeground(ctx context.Context, key string, target types.Target) (*types.IntelPayload, error) {
	s.mu.Lock()
	if existing, ok := s.foreground[key]; ok {
		s.mu.Unlock()
		select {
		case <-existing.done:
			return existing.payload, existing.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	run := &inflight{done: make(chan struct{})}
	s.foreground[key] = run
	s.mu.Unlock()

	payload, err := s.runPipeline(ctx, target)
	if err == nil && ctx.Err() == nil {
		s.cache.Put(ctx, key, *payload)
		s.notifyUpdated(key, *payload)
	}

	run.payload = payload
	run.err = err

	s.mu.Lock()
	delete(s.foreground, key)
	s.mu.Unlock()
	close(run.done)

	return payload, err
}

// refreshInBackground starts a detached pipeline run for a stale key unless
// one is already in flight. The refresh has its own context and error
// handling; nothing propagates to the caller that observed the stale entry.
func (s *Service) refreshInBackground(key string, target types.Target) {
	s.mu.Lock()
	if s.refreshing[key] {
		s.mu.Unlock()
		return
	}
	s.refreshing[key] = true
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.BackgroundRuns.Inc()
	}

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.refreshing, key)
			s.mu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), backgroundRunTimeout)
		defer cancel()

		payload, err := s.runPipeline(ctx, target)
		if err != nil {
			log.Printf("Warning: background refresh for %s failed: %v", key, err)
			return
		}
		s.cache.Put(ctx, key, *payload)
		s.notifyUpdated(key, *payload)
	}()
}

// runPipeline executes fetch -> classify -> zone -> score -> adjust -> brief.
// Only a source fetch failure aborts the run; classifier and briefing
// failures degrade the payload and are visible through its flags.
func (s *Service) runPipeline(ctx context.Context, target types.Target) (*types.IntelPayload, error) {
	start := s.clock.Now()

	raw, err := s.fetch(ctx, target)
	if err != nil {
		s.countFailure("fetch")
		return nil, fmt.Errorf("fetch reports: %w", err)
	}

	incidents, fallback := s.classify(ctx, raw)

	incidents = zoning.Annotate(target, incidents)
	grouped := zoning.Group(incidents)
	score := scoring.Score(incidents)

	profile := s.lookupProfile(target)
	var dynamic *types.DynamicRiskResult
	if profile != nil && profile.BaselineRisk != "" {
		// Skipped, not defaulted, when no baseline exists.
		dynamic = scoring.Adjust(profile.BaselineRisk, incidents, s.clock.Now())
	}

	payload := &types.IntelPayload{
		Target:           target.Kind(),
		Location:         target.DisplayName(),
		Incidents:        incidents,
		GroupedIncidents: grouped,
		RiskScore:        score,
		DynamicRisk:      dynamic,
		LastUpdated:      s.clock.Now(),
		FallbackToRaw:    fallback,
	}
	if fallback {
		payload.RawArticles = raw
	}
	if target.Kind() == types.TargetRoute {
		payload.DangerousRoads = scoring.DangerousRoads(incidents)
	}

	// Invoked even with zero incidents so every target gets a bottom line.
	briefing, err := s.briefer.Brief(ctx, llm.BriefContext{
		Target:      target,
		Incidents:   incidents,
		RiskScore:   score,
		Profile:     profile,
		DynamicRisk: dynamic,
	})
	if err != nil {
		log.Printf("Warning: briefing generation failed for %s: %v", target.DisplayName(), err)
	} else {
		payload.Briefing = briefing
	}

	if s.metrics != nil {
		s.metrics.PipelineRuns.WithLabelValues(string(target.Kind())).Inc()
		s.metrics.PipelineDuration.Observe(s.clock.Now().Sub(start).Seconds())
	}
	return payload, nil
}

func (s *Service) fetch(ctx context.Context, target types.Target) ([]types.RawReport, error) {
	switch t := target.(type) {
	case types.AreaTarget:
		return s.fetcher.FetchArea(ctx, t)
	case types.RouteTarget:
		return s.fetcher.FetchRoute(ctx, t)
	default:
		return nil, fmt.Errorf("%w: unsupported target kind %q", reports.ErrSourceUnavailable, target.Kind())
	}
}

// classify submits one bounded batch of deduplicated reports. Any failure,
// including an empty result for a non-empty batch, flips the fallback flag
// and the run proceeds with zero incidents. Never retried synchronously.
func (s *Service) classify(ctx context.Context, raw []types.RawReport) ([]types.ClassifiedIncident, bool) {
	if len(raw) == 0 {
		return nil, false
	}

	batch := raw
	if len(batch) > config.MaxClassifierBatch {
		batch = batch[:config.MaxClassifierBatch]
	}

	incidents, err := s.classifier.Classify(ctx, batch)
	if err != nil || len(incidents) == 0 {
		if err != nil {
			log.Printf("Warning: classifier failed, falling back to raw reports: %v", err)
		} else {
			log.Printf("Warning: classifier returned no incidents for %d reports, falling back to raw", len(batch))
		}
		if s.metrics != nil {
			s.metrics.ClassifierFalls.Inc()
		}
		return nil, true
	}
	return incidents, false
}

func (s *Service) lookupProfile(target types.Target) *types.StaticProfile {
	if s.profiles == nil {
		return nil
	}

	var profile *types.StaticProfile
	var err error
	switch t := target.(type) {
	case types.AreaTarget:
		profile, err = s.profiles.AreaProfile(t.Name, t.State)
	case types.RouteTarget:
		for _, road := range t.Roads {
			profile, err = s.profiles.RoadProfile(road.Name)
			if profile != nil || err != nil {
				break
			}
		}
	}
	if err != nil {
		log.Printf("Warning: profile lookup failed for %s: %v", target.DisplayName(), err)
		return nil
	}
	return profile
}

func (s *Service) notifyUpdated(key string, payload types.IntelPayload) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.publisher != nil {
		if err := s.publisher.PublishUpdated(ctx, key, payload); err != nil {
			log.Printf("Warning: failed to publish update for %s: %v", key, err)
		}
	}
	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, key, payload); err != nil {
			log.Printf("Warning: failed to archive payload for %s: %v", key, err)
		}
	}
}

func (s *Service) countLookup(outcome string) {
	if s.metrics != nil {
		s.metrics.CacheLookups.WithLabelValues(outcome).Inc()
	}
}

func (s *Service) countFailure(stage string) {
	if s.metrics != nil {
		s.metrics.PipelineFailures.WithLabelValues(stage).Inc()
	}
}
