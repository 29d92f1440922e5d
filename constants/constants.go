package constants

import "encoding/binary"

// shared constants used by multiple packages

const (
	ORDER_STATE_PENDING_IMAGE_CONTAINER = "pending_image_container"
	ORDER_STATE_PENDING_SETTLEMENT      = "pending_settlement"
	ORDER_STATE_COMPLETED               = "completed"
)

func GetOrderStates() []string {
	return []string{
		ORDER_STATE_PENDING_IMAGE_CONTAINER,
		ORDER_STATE_PENDING_SETTLEMENT,
		ORDER_STATE_COMPLETED,
	}
}

// amounts in the native mosaic's smallest unit
const (
	ORDER_PRICE         = 70000000
	MOSAIC_CREATION_FEE = 50000000
	SETTLEMENT_FEE      = 52800
	MOSAIC_SUPPLY       = 1
)

const (
	UPLOAD_CHUNK_SIZE      = 1024
	MAX_INNER_TRANSACTIONS = 100
)

const (
	TRANSACTION_GROUP_CONFIRMED   = "confirmed"
	TRANSACTION_GROUP_UNCONFIRMED = "unconfirmed"
	TRANSACTION_GROUP_FAILED      = "failed"
)

const APP_IDENTIFIER = "tomatina"

// MetadataScopedKey returns the scoped metadata key used for the settlement
// mosaic metadata entry, derived from the little-endian bytes of "tomatina".
func MetadataScopedKey() uint64 {
	return binary.LittleEndian.Uint64([]byte(APP_IDENTIFIER))
}
