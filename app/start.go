package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/sportsday/app/shared/observability"
	"github.com/Black-And-White-Club/sportsday/config"
)

// Run serves HTTP until ctx is cancelled, then shuts the server down
// gracefully within the configured timeout.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.HTTP.Addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Obs.Logger.InfoContext(ctx, "Starting HTTP server", observability.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.Obs.Logger.Info("Shutting down HTTP server")
	timeout := a.Config.HTTP.ShutdownTimeout
	if timeout <= 0 {
		timeout = config.DefaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	a.Obs.Logger.Info("HTTP server stopped")
	return nil
}
