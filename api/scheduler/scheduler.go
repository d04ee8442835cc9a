package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/alexgaoth/campus-crime-api/alerts"
	"github.com/alexgaoth/campus-crime-api/api"
	"github.com/alexgaoth/campus-crime-api/models"
	"github.com/alexgaoth/campus-crime-api/reports"
)

// DefaultRefreshSpec is the feed refresh cadence when none is configured
const DefaultRefreshSpec = "@every 15m"

// Scheduler handles the periodic feed refresh and the alert fan-out for
// incidents that appear in the refreshed feed
type Scheduler struct {
	cron        *cron.Cron
	Provider    *reports.Provider
	Notifier    *alerts.Notifier
	Metrics     *api.Metrics
	refreshSpec string
}

// NewScheduler creates a scheduler over the given provider and notifier. An
// empty refreshSpec falls back to DefaultRefreshSpec.
func NewScheduler(provider *reports.Provider, notifier *alerts.Notifier, metrics *api.Metrics, refreshSpec string) *Scheduler {
	if refreshSpec == "" {
		refreshSpec = DefaultRefreshSpec
	}
	return &Scheduler{
		cron:        cron.New(cron.WithLocation(time.UTC)),
		Provider:    provider,
		Notifier:    notifier,
		Metrics:     metrics,
		refreshSpec: refreshSpec,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	_, err := s.cron.AddFunc(s.refreshSpec, s.refreshFeed)
	if err != nil {
		zap.S().Errorw("failed to register feed refresh job", "error", err)
		return
	}
	s.cron.Start()
	zap.S().Infow("feed refresh scheduler started", "spec", s.refreshSpec)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("feed refresh scheduler stopped")
}

// refreshFeed reloads the canonical collection and alerts subscribers about
// incidents that were not present before the reload. A failed reload keeps
// the previous collection, so no alerts fire on failure.
func (s *Scheduler) refreshFeed() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	before := s.Provider.Cases()

	if err := s.Provider.Load(ctx); err != nil {
		if s.Metrics != nil {
			s.Metrics.FeedLoads.WithLabelValues("error").Inc()
		}
		zap.S().Errorw("feed refresh failed, keeping previous collection", "error", err)
		return
	}
	if s.Metrics != nil {
		s.Metrics.FeedLoads.WithLabelValues("success").Inc()
	}

	incidents, err := s.Provider.Incidents()
	if err != nil {
		zap.S().Errorw("feed refresh produced no collection", "error", err)
		return
	}

	fresh := newIncidents(before, incidents)
	if len(fresh) == 0 {
		zap.S().Debugw("feed refresh complete, no new incidents", "total", len(incidents))
		return
	}

	zap.S().Infow("feed refresh found new incidents",
		"new", len(fresh),
		"total", len(incidents),
	)
	if s.Notifier != nil {
		s.Notifier.NotifyNewIncidents(ctx, fresh)
		if s.Metrics != nil {
			s.Metrics.AlertsSent.Add(float64(len(fresh)))
		}
	}
}

// newIncidents returns the incidents whose case numbers were absent before
// the reload. An empty before-set means first load, which never alerts.
func newIncidents(before map[string]bool, incidents []models.Incident) []models.Incident {
	if len(before) == 0 {
		return nil
	}
	var fresh []models.Incident
	for _, inc := range incidents {
		if !before[inc.IncidentCase] {
			fresh = append(fresh, inc)
		}
	}
	return fresh
}
