package tests

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/AnthonyLaw/symbol-tomatina-script/db/migrations"
	"github.com/AnthonyLaw/symbol-tomatina-script/events"
	"github.com/AnthonyLaw/symbol-tomatina-script/logger"
)

type TestService struct {
	DB             *gorm.DB
	EventPublisher events.EventPublisher
}

// CreateTestService builds a migrated in-memory database for a test.
func CreateTestService(t *testing.T) (*TestService, error) {
	logger.Init("4")

	gormDB, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := migrations.Migrate(gormDB); err != nil {
		return nil, err
	}

	return &TestService{
		DB:             gormDB,
		EventPublisher: events.NewEventPublisher(),
	}, nil
}

func (svc *TestService) Remove() {
	sqlDB, err := svc.DB.DB()
	if err != nil {
		return
	}
	sqlDB.Close()
}
