package db

import (
	"time"

	"gorm.io/datatypes"
)

// Order is one record per confirmed incoming payment. OrderID is assigned by
// the orders service (max existing + 1) and never reused.
type Order struct {
	OrderID            uint64 `gorm:"primaryKey;autoIncrement:false"`
	Message            string `validate:"required"`
	OrderHash          string `validate:"required" gorm:"unique;not null"`
	BuyerAddress       string `validate:"required"`
	Paid               uint64
	MosaicHash         string
	MosaicID           string
	ImageHashes        datatypes.JSON
	ImageSize          int64
	ImageContainerHash string
	SettlementHash     string
	Status             string `gorm:"index"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Checkpoint is a singleton row holding the offset of the last incoming
// transfer already turned into an order (or skipped as invalid).
type Checkpoint struct {
	ID           uint `gorm:"primaryKey"`
	LastOffsetID string
	UpdatedAt    time.Time
}
