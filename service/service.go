package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/AnthonyLaw/symbol-tomatina-script/artwork"
	"github.com/AnthonyLaw/symbol-tomatina-script/config"
	"github.com/AnthonyLaw/symbol-tomatina-script/db"
	"github.com/AnthonyLaw/symbol-tomatina-script/db/migrations"
	"github.com/AnthonyLaw/symbol-tomatina-script/events"
	"github.com/AnthonyLaw/symbol-tomatina-script/ledger"
	"github.com/AnthonyLaw/symbol-tomatina-script/ledger/dryrun"
	"github.com/AnthonyLaw/symbol-tomatina-script/ledger/symbolnode"
	"github.com/AnthonyLaw/symbol-tomatina-script/logger"
	"github.com/AnthonyLaw/symbol-tomatina-script/orders"
)

type service struct {
	cfg *config.AppConfig

	db             *gorm.DB
	ordersService  orders.OrdersService
	nodeClient     ledger.NodeClient
	gateway        ledger.Gateway
	generator      artwork.Generator
	eventPublisher events.EventPublisher
	imagesDir      string
	ctx            context.Context
}

type Service interface {
	GetConfig() *config.AppConfig
	GetDB() *gorm.DB
	GetOrdersService() orders.OrdersService
	GetNodeClient() ledger.NodeClient
	GetGateway() ledger.Gateway
	GetGenerator() artwork.Generator
	GetEventPublisher() events.EventPublisher
	GetImagesDir() string
	Shutdown()
}

// NewService loads config, initializes logging, opens and migrates the
// database and wires the ledger clients.
func NewService(ctx context.Context) (*service, error) {
	appConfig, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger.Init(appConfig.LogLevel)
	if appConfig.LogToFile {
		if err := logger.AddFileLogger(appConfig.Workdir); err != nil {
			return nil, err
		}
	}
	logger.Logger.Info().Str("network", appConfig.Network).Str("workdir", appConfig.Workdir).Msg("Tomatina starting")

	gormDB, err := db.NewDB(appConfig.GetDatabaseUri(), appConfig.LogDBQueries)
	if err != nil {
		return nil, err
	}

	if err := migrations.Migrate(gormDB); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to migrate database")
		return nil, err
	}

	imagesDir, err := appConfig.GetArtGeneratedDir()
	if err != nil {
		return nil, err
	}

	eventPublisher := events.NewEventPublisher()

	nodeClient := symbolnode.NewClient(
		appConfig.NodeUrl,
		time.Duration(appConfig.NodeTimeoutSec)*time.Second,
		appConfig.IngestFromHeight,
		nil,
	)

	// transaction building and signing live behind ledger.Gateway; without a
	// signer configured the dry-run gateway logs instead of announcing
	var gateway ledger.Gateway = dryrun.NewGateway()
	if !appConfig.DryRun {
		logger.Logger.Warn().Msg("No signer configured, falling back to dry-run gateway")
	}

	svc := &service{
		cfg:            appConfig,
		db:             gormDB,
		ordersService:  orders.NewOrdersService(gormDB, eventPublisher, appConfig.OrderAddress, appConfig.DeadlineHours),
		nodeClient:     nodeClient,
		gateway:        gateway,
		generator:      artwork.NewFileGenerator(appConfig.ArtSourceDir, imagesDir),
		eventPublisher: eventPublisher,
		imagesDir:      imagesDir,
		ctx:            ctx,
	}
	return svc, nil
}

func (svc *service) GetConfig() *config.AppConfig {
	return svc.cfg
}

func (svc *service) GetDB() *gorm.DB {
	return svc.db
}

func (svc *service) GetOrdersService() orders.OrdersService {
	return svc.ordersService
}

func (svc *service) GetNodeClient() ledger.NodeClient {
	return svc.nodeClient
}

func (svc *service) GetGateway() ledger.Gateway {
	return svc.gateway
}

func (svc *service) GetGenerator() artwork.Generator {
	return svc.generator
}

func (svc *service) GetEventPublisher() events.EventPublisher {
	return svc.eventPublisher
}

func (svc *service) GetImagesDir() string {
	return svc.imagesDir
}

func (svc *service) Shutdown() {
	sqlDB, err := svc.db.DB()
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to get underlying sql.DB")
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to close database")
	}
}
