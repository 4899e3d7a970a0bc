package shared

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
)

// ShutdownContext returns a context cancelled on SIGINT or SIGTERM, logging
// the first signal it sees.
func ShutdownContext(logger zerolog.Logger) context.Context {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	go func() {
		<-ctx.Done()
		stop()
		logger.Info().Msg("shutting down")
	}()

	return ctx
}
