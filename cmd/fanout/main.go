package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/arthur-debert/fanout/internal/cli"
	"github.com/rs/zerolog/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := cli.NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("fanout failed")
		os.Exit(1)
	}
}
