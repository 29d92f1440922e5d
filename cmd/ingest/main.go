package main

import (
	"context"
	"os"

	"github.com/AnthonyLaw/symbol-tomatina-script/logger"
	"github.com/AnthonyLaw/symbol-tomatina-script/service"
)

// one-shot ingestion pass, designed to run from a scheduler
func main() {
	ctx := context.Background()

	svc, err := service.NewService(ctx)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create service")
		return
	}
	defer svc.Shutdown()

	logger.Logger.Info().Msg("Checking for new orders")

	summary, err := svc.GetOrdersService().IngestOrders(ctx, svc.GetNodeClient(), svc.GetGateway(), svc.GetGenerator())
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Ingestion pass failed")
		os.Exit(1)
	}

	logger.Logger.Info().
		Int("transfers", summary.Transfers).
		Int("created", summary.Created).
		Int("skipped", summary.Skipped).
		Int("rejected", summary.Rejected).
		Msg("Ingestion done")
}
