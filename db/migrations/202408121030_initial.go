package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/AnthonyLaw/symbol-tomatina-script/db"
)

var _202408121030_initial = &gormigrate.Migration{
	ID: "202408121030_initial",
	Migrate: func(tx *gorm.DB) error {
		return tx.AutoMigrate(&db.Order{}, &db.Checkpoint{})
	},
	Rollback: func(tx *gorm.DB) error {
		if err := tx.Migrator().DropTable(&db.Order{}); err != nil {
			return err
		}
		return tx.Migrator().DropTable(&db.Checkpoint{})
	},
}
