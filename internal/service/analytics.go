package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/promptgallery/gallery-server/internal/domain"
	"github.com/promptgallery/gallery-server/internal/store"
)

const analyticsDays = 7

// AnalyticsService reports upload activity for the admin dashboard.
type AnalyticsService struct {
	store  store.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(store store.Store, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{store: store, logger: logger, now: time.Now}
}

// GetAdminAnalytics returns totals and a per-day series for the last seven
// UTC days, oldest first and including today.
func (s *AnalyticsService) GetAdminAnalytics(ctx context.Context) (*domain.UploadAnalytics, error) {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)
	yesterday := today.AddDate(0, 0, -1)
	windowStart := today.AddDate(0, 0, -(analyticsDays - 1))

	var (
		out   domain.UploadAnalytics
		times []time.Time
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.TotalImages, err = s.store.CountImages(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.UploadedToday, err = s.store.CountImagesCreatedBetween(gctx, today, tomorrow)
		return err
	})
	g.Go(func() error {
		var err error
		out.UploadedYesterday, err = s.store.CountImagesCreatedBetween(gctx, yesterday, today)
		return err
	})
	g.Go(func() error {
		var err error
		times, err = s.store.ListImageCreationTimesSince(gctx, windowStart)
		return err
	})
	if err := g.Wait(); err != nil {
		if s.logger != nil {
			s.logger.Error("analytics query failed", "error", err)
		}
		return nil, fmt.Errorf("load upload analytics: %w", err)
	}

	counts := make(map[string]int, analyticsDays)
	for _, t := range times {
		counts[t.UTC().Format(time.DateOnly)]++
	}

	out.Last7Days = make([]domain.DailyCount, 0, analyticsDays)
	for i := range analyticsDays {
		day := windowStart.AddDate(0, 0, i).Format(time.DateOnly)
		out.Last7Days = append(out.Last7Days, domain.DailyCount{Date: day, Count: counts[day]})
	}

	return &out, nil
}
