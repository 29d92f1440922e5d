package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/AnthonyLaw/symbol-tomatina-script/logger"
)

// Load reads the app config from environment variables / .env file and makes
// sure the working directory exists.
func Load() (*AppConfig, error) {
	godotenv.Load(".env")
	appConfig := &AppConfig{}
	err := envconfig.Process("", appConfig)
	if err != nil {
		return nil, err
	}

	if appConfig.Workdir == "" {
		appConfig.Workdir = filepath.Join(xdg.DataHome, "/tomatina")
	}
	if err := os.MkdirAll(appConfig.Workdir, os.ModePerm); err != nil {
		return nil, err
	}

	return appConfig, nil
}

// GetDatabaseUri resolves a relative database path against the workdir.
func (c *AppConfig) GetDatabaseUri() string {
	if filepath.IsAbs(c.DatabaseUri) || c.DatabaseUri == ":memory:" {
		return c.DatabaseUri
	}
	return filepath.Join(c.Workdir, c.DatabaseUri)
}

// GetArtGeneratedDir resolves the generated-art directory against the workdir
// and creates it if missing.
func (c *AppConfig) GetArtGeneratedDir() (string, error) {
	dir := c.ArtGeneratedDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(c.Workdir, dir)
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		logger.Logger.Error().Err(err).Str("dir", dir).Msg("Failed to create generated art directory")
		return "", err
	}
	return dir, nil
}
