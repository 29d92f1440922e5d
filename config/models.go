package config

type AppConfig struct {
	NodeUrl          string `envconfig:"NODE_URL" default:"http://wolf.importance.jp:3000"`
	Network          string `envconfig:"NETWORK" default:"mainnet"`
	OrderAddress     string `envconfig:"ORDER_ADDRESS"`
	Workdir          string `envconfig:"WORK_DIR"`
	Port             string `envconfig:"PORT" default:"5001"`
	DatabaseUri      string `envconfig:"DATABASE_URI" default:"tomatina.db"`
	LogLevel         string `envconfig:"LOG_LEVEL" default:"4"`
	LogToFile        bool   `envconfig:"LOG_TO_FILE" default:"true"`
	LogDBQueries     bool   `envconfig:"LOG_DB_QUERIES" default:"false"`
	BaseUrl          string `envconfig:"BASE_URL"`
	ArtSourceDir     string `envconfig:"ART_SOURCE_DIR" default:"art_source"`
	ArtGeneratedDir  string `envconfig:"ART_GENERATED_DIR" default:"art_generated"`
	NodeTimeoutSec   int    `envconfig:"NODE_TIMEOUT_SEC" default:"30"`
	DeadlineHours    int    `envconfig:"DEADLINE_HOURS" default:"2"`
	IngestFromHeight uint64 `envconfig:"INGEST_FROM_HEIGHT" default:"707104"`
	DryRun           bool   `envconfig:"DRY_RUN" default:"true"`
}
