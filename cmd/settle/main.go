package main

import (
	"context"
	"os"

	"github.com/AnthonyLaw/symbol-tomatina-script/logger"
	"github.com/AnthonyLaw/symbol-tomatina-script/service"
)

// one-shot settlement pass, designed to run from a scheduler
func main() {
	ctx := context.Background()

	svc, err := service.NewService(ctx)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create service")
		return
	}
	defer svc.Shutdown()

	logger.Logger.Info().Msg("Processing settlements")

	summary, err := svc.GetOrdersService().ProcessSettlements(ctx, svc.GetNodeClient(), svc.GetGateway())
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Settlement pass failed")
		os.Exit(1)
	}

	logger.Logger.Info().
		Int("pending", summary.Pending).
		Int("confirmed", summary.Confirmed).
		Int("settled", summary.Settled).
		Int("failed", summary.Failed).
		Msg("Settlement pass done")
}
