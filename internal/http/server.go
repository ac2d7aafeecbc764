package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/quin-vannatter/vpn-smb-manager/internal/observability/logger"
)

const shutdownTimeout = 10 * time.Second

// Start sirve hasta que ctx se cancele, después apaga con gracia.
func Start(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		logger.L().Warn("http shutdown", logger.Err(err))
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
