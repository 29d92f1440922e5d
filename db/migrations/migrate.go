package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/AnthonyLaw/symbol-tomatina-script/db"
)

func Migrate(gormDB *gorm.DB) error {
	m := gormigrate.New(gormDB, gormigrate.DefaultOptions, []*gormigrate.Migration{
		_202408121030_initial,
	})
	if err := m.Migrate(); err != nil {
		return err
	}

	// AutoMigrate picks up new columns that no manual migration covers yet
	return gormDB.AutoMigrate(
		&db.Order{},
		&db.Checkpoint{},
	)
}
