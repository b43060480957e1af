package providers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/promptgallery/gallery-server/internal/api"
	"github.com/promptgallery/gallery-server/internal/config"
	"github.com/promptgallery/gallery-server/internal/service"
)

// shutdownTimeout bounds how long in-flight requests get to finish.
const shutdownTimeout = 30 * time.Second

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer builds the API handler and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	limiters := do.MustInvoke[*RateLimiters](i)
	log := do.MustInvoke[*slog.Logger](i)

	services := &api.Services{
		Auth:       do.MustInvoke[*service.AuthService](i),
		Tag:        do.MustInvoke[*service.TagService](i),
		Image:      do.MustInvoke[*service.ImageService](i),
		Engagement: do.MustInvoke[*service.EngagementService](i),
		Analytics:  do.MustInvoke[*service.AnalyticsService](i),
	}

	handler := api.NewServer(storeHandle.Store, services, api.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AuthLimiter:    limiters.Auth,
		PublicLimiter:  limiters.Public,
	}, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
