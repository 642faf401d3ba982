// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/lexsites/locmenu/internal/cache"
	"github.com/lexsites/locmenu/internal/geoip"
)

// Scheduler runs the periodic maintenance jobs: refreshing the city
// list cache from the menu tree and reloading the GeoIP database.
type Scheduler struct {
	cron   *cron.Cron
	cities *cache.CityListCache
	geo    *geoip.Lookup
	logger *slog.Logger
}

// New creates a new scheduler instance. geo may be nil when GeoIP is
// not configured.
func New(cities *cache.CityListCache, geo *geoip.Lookup, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		cities: cities,
		geo:    geo,
		logger: logger,
	}
}

// Start registers the jobs and begins the scheduler. The city list
// refreshes every 15 minutes so menu edits show up without a restart;
// the GeoIP database reloads daily to pick up replaced files.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("*/15 * * * *", s.refreshCities); err != nil {
		return err
	}

	if s.geo != nil && s.geo.IsEnabled() {
		if _, err := s.cron.AddFunc("30 4 * * *", s.reloadGeoIP); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) refreshCities() {
	if err := s.cities.Refresh(context.Background()); err != nil {
		s.logger.Error("failed to refresh city list", "category", "cache", "error", err)
		return
	}
	s.logger.Debug("city list refreshed")
}

func (s *Scheduler) reloadGeoIP() {
	if err := s.geo.Reload(); err != nil {
		s.logger.Error("failed to reload GeoIP database", "error", err)
		return
	}
	s.logger.Info("GeoIP database reloaded")
}
