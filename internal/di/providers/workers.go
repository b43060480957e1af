package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/do/v2"

	"github.com/promptgallery/gallery-server/internal/config"
	"github.com/promptgallery/gallery-server/internal/ratelimit"
	"github.com/promptgallery/gallery-server/internal/service"
)

// Login attempts get a fifth of the public budget.
const authRateDivisor = 5

// RateLimiters holds the per-client limiters used by the API.
type RateLimiters struct {
	Auth   *ratelimit.KeyedRateLimiter
	Public *ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (r *RateLimiters) Shutdown() error {
	r.Auth.Stop()
	r.Public.Stop()
	return nil
}

// ProvideRateLimiters provides the auth and public endpoint rate limiters.
func ProvideRateLimiters(i do.Injector) (*RateLimiters, error) {
	cfg := do.MustInvoke[*config.Config](i)

	rps := cfg.RateLimit.RequestsPerSecond
	return &RateLimiters{
		Auth:   ratelimit.New(rps/authRateDivisor, max(cfg.RateLimit.Burst/authRateDivisor, 1), 0),
		Public: ratelimit.New(rps, cfg.RateLimit.Burst, 0),
	}, nil
}

// PendingUploadReaper periodically deletes upload records that were never confirmed.
type PendingUploadReaper struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (j *PendingUploadReaper) Shutdown() error {
	j.cancel()
	<-j.done
	return nil
}

// ProvidePendingUploadReaper starts the pending upload cleanup job.
func ProvidePendingUploadReaper(i do.Injector) (*PendingUploadReaper, error) {
	cfg := do.MustInvoke[*config.Config](i)
	images := do.MustInvoke[*service.ImageService](i)
	log := do.MustInvoke[*slog.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	reap := func() {
		count, err := images.ReapPendingUploads(ctx, cfg.Uploads.PendingTTL)
		if err != nil {
			if ctx.Err() == nil {
				log.Warn("Pending upload cleanup failed", "error", err)
			}
			return
		}
		if count > 0 {
			log.Info("Pending upload cleanup completed", "deleted", count)
		}
	}

	go func() {
		defer close(done)

		ticker := time.NewTicker(cfg.Uploads.ReapInterval)
		defer ticker.Stop()

		reap()
		for {
			select {
			case <-ticker.C:
				reap()
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Pending upload cleanup job started",
		"interval", cfg.Uploads.ReapInterval,
		"ttl", cfg.Uploads.PendingTTL,
	)

	return &PendingUploadReaper{cancel: cancel, done: done}, nil
}
