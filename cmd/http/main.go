package main

import (
	"context"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/AnthonyLaw/symbol-tomatina-script/http"
	"github.com/AnthonyLaw/symbol-tomatina-script/logger"
	"github.com/AnthonyLaw/symbol-tomatina-script/service"
)

func main() {
	osSignalChannel := make(chan os.Signal, 1)
	signal.Notify(osSignalChannel, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sig := <-osSignalChannel
		logger.Logger.Info().Interface("signal", sig).Msg("Received OS signal")
		cancel()
	}()

	svc, err := service.NewService(ctx)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create service")
		return
	}

	e := echo.New()
	httpSvc := http.NewHttpService(svc.GetOrdersService(), svc.GetImagesDir(), svc.GetConfig().BaseUrl)
	httpSvc.RegisterRoutes(e)

	go func() {
		if err := e.Start(fmt.Sprintf(":%v", svc.GetConfig().Port)); err != nil && err != nethttp.ErrServerClosed {
			logger.Logger.Error().Err(err).Msg("echo server failed to start")
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Logger.Info().Msg("Shutting down echo server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to shutdown echo server")
	}
	svc.Shutdown()
	logger.Logger.Info().Msg("Service exited")
}
