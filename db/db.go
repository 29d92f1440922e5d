package db

import (
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/AnthonyLaw/symbol-tomatina-script/logger"
)

// NewDB opens the sqlite database. The pipeline stages are single-writer by
// design, so WAL plus a busy timeout is enough to serialize overlapping
// invocations against the same file.
func NewDB(uri string, logDBQueries bool) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}
	if logDBQueries {
		gormConfig.Logger = gormlogger.New(&gormLogAdapter{}, gormlogger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      gormlogger.Info,
		})
	}

	gormDB, err := gorm.Open(sqlite.Open(uri), gormConfig)
	if err != nil {
		logger.Logger.Error().Err(err).Str("uri", uri).Msg("Failed to open database")
		return nil, err
	}

	if err := gormDB.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		return nil, err
	}
	if err := gormDB.Exec("PRAGMA busy_timeout=5000").Error; err != nil {
		return nil, err
	}
	if err := gormDB.Exec("PRAGMA foreign_keys=ON").Error; err != nil {
		return nil, err
	}

	return gormDB, nil
}

type gormLogAdapter struct{}

func (a *gormLogAdapter) Printf(format string, args ...interface{}) {
	logger.Logger.Debug().Msgf(format, args...)
}
