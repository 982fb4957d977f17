package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown() error {
	a.logger.Info("resolver-shutting-down")

	a.healthChecker.SetReady(false)
	a.cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	err := a.httpServer.Shutdown(shutdownCtx)
	if err != nil {
		a.logger.Error("http-server-shutdown-error", zap.Error(err))
	}

	err = a.store.Close()
	if err != nil {
		a.logger.Error("store-close-error", zap.Error(err))
	}

	if a.priceCache != nil {
		a.priceCache.Close()
	}

	a.wg.Wait()

	a.logger.Info("resolver-shutdown-complete")

	return nil
}
