package orders

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AnthonyLaw/symbol-tomatina-script/artwork"
	"github.com/AnthonyLaw/symbol-tomatina-script/constants"
	"github.com/AnthonyLaw/symbol-tomatina-script/db"
	"github.com/AnthonyLaw/symbol-tomatina-script/events"
	"github.com/AnthonyLaw/symbol-tomatina-script/ledger"
	"github.com/AnthonyLaw/symbol-tomatina-script/logger"
)

type ordersService struct {
	db             *gorm.DB
	eventPublisher events.EventPublisher
	orderAddress   string
	deadlineHours  int
}

type OrdersService interface {
	AddOrder(order *Order) (uint64, error)
	UpdateOrder(orderID uint64, update OrderUpdate) error
	GetOrder(orderID uint64) (*Order, error)
	ListOrders() ([]Order, error)
	ListOrdersByStatus(status string) ([]Order, error)
	TotalOrders() (int64, error)
	LastCheckpoint() (string, error)
	SaveCheckpoint(lastOffsetID string) error

	IngestOrders(ctx context.Context, node ledger.NodeClient, gateway ledger.Gateway, generator artwork.Generator) (*IngestSummary, error)
	ProcessImageContainers(ctx context.Context, node ledger.NodeClient, gateway ledger.Gateway) (*ContainerSummary, error)
	ProcessSettlements(ctx context.Context, node ledger.NodeClient, gateway ledger.Gateway) (*SettlementSummary, error)
}

// OrderUpdate carries the fields a pipeline stage may set. Status moves
// forward one step at a time; everything captured at ingestion is immutable.
type OrderUpdate struct {
	ImageContainerHash string
	SettlementHash     string
	Status             string
}

func NewOrdersService(gormDB *gorm.DB, eventPublisher events.EventPublisher, orderAddress string, deadlineHours int) *ordersService {
	return &ordersService{
		db:             gormDB,
		eventPublisher: eventPublisher,
		orderAddress:   orderAddress,
		deadlineHours:  deadlineHours,
	}
}

var statusRank = map[string]int{
	constants.ORDER_STATE_PENDING_IMAGE_CONTAINER: 0,
	constants.ORDER_STATE_PENDING_SETTLEMENT:      1,
	constants.ORDER_STATE_COMPLETED:               2,
}

// AddOrder persists a new order, assigning the next order ID. IDs increase
// strictly from 1 and are never reused.
func (svc *ordersService) AddOrder(order *Order) (uint64, error) {
	err := svc.db.Transaction(func(tx *gorm.DB) error {
		var maxID *uint64
		if err := tx.Model(&db.Order{}).Select("MAX(order_id)").Scan(&maxID).Error; err != nil {
			return err
		}

		order.OrderID = 1
		if maxID != nil {
			order.OrderID = *maxID + 1
		}
		if order.Status == "" {
			order.Status = constants.ORDER_STATE_PENDING_IMAGE_CONTAINER
		}
		return tx.Create(order).Error
	})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to create order")
		return 0, err
	}
	return order.OrderID, nil
}

func (svc *ordersService) UpdateOrder(orderID uint64, update OrderUpdate) error {
	return svc.db.Transaction(func(tx *gorm.DB) error {
		var order db.Order
		result := tx.Limit(1).Find(&order, &db.Order{OrderID: orderID})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return NewNotFoundError()
		}

		if update.Status != "" && update.Status != order.Status {
			fromRank, fromKnown := statusRank[order.Status]
			toRank, toKnown := statusRank[update.Status]
			if !fromKnown || !toKnown || toRank != fromRank+1 {
				return NewInvalidTransitionError(order.Status, update.Status)
			}
			order.Status = update.Status
		}
		if update.ImageContainerHash != "" {
			order.ImageContainerHash = update.ImageContainerHash
		}
		if update.SettlementHash != "" {
			order.SettlementHash = update.SettlementHash
		}

		return tx.Save(&order).Error
	})
}

func (svc *ordersService) GetOrder(orderID uint64) (*Order, error) {
	var order db.Order
	result := svc.db.Limit(1).Find(&order, &db.Order{OrderID: orderID})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, NewNotFoundError()
	}
	return &order, nil
}

func (svc *ordersService) ListOrders() ([]Order, error) {
	orders := []Order{}
	err := svc.db.Order("order_id asc").Find(&orders).Error
	return orders, err
}

func (svc *ordersService) ListOrdersByStatus(status string) ([]Order, error) {
	orders := []Order{}
	err := svc.db.Where(&db.Order{Status: status}).Order("order_id asc").Find(&orders).Error
	return orders, err
}

func (svc *ordersService) TotalOrders() (int64, error) {
	var count int64
	err := svc.db.Model(&db.Order{}).Count(&count).Error
	return count, err
}

// LastCheckpoint returns the stored ingestion offset. An empty string means
// start of the address's history.
func (svc *ordersService) LastCheckpoint() (string, error) {
	var checkpoint db.Checkpoint
	result := svc.db.Limit(1).Find(&checkpoint, &db.Checkpoint{ID: 1})
	if result.Error != nil {
		return "", result.Error
	}
	return checkpoint.LastOffsetID, nil
}

// SaveCheckpoint is the single atomic commit point of an ingestion pass.
func (svc *ordersService) SaveCheckpoint(lastOffsetID string) error {
	checkpoint := db.Checkpoint{
		ID:           1,
		LastOffsetID: lastOffsetID,
	}
	return svc.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_offset_id", "updated_at"}),
	}).Create(&checkpoint).Error
}

func (svc *ordersService) hasOrderWithHash(orderHash string) (bool, error) {
	var count int64
	err := svc.db.Model(&db.Order{}).Where(&db.Order{OrderHash: orderHash}).Count(&count).Error
	return count > 0, err
}

// allConfirmed reports whether every requested hash is confirmed. A short
// response means the node does not know all hashes yet, not that the known
// ones suffice.
func allConfirmed(statuses []ledger.TransactionStatus, requested int) bool {
	if len(statuses) == 0 || len(statuses) != requested {
		return false
	}
	for _, status := range statuses {
		if status.Group != constants.TRANSACTION_GROUP_CONFIRMED {
			return false
		}
	}
	return true
}

// IsNotFound reports whether err is the orders not-found error.
func IsNotFound(err error) bool {
	var target *notFoundError
	return errors.As(err, &target)
}

// IsReconciliation reports whether err is a settlement reconciliation error.
func IsReconciliation(err error) bool {
	var target *reconciliationError
	return errors.As(err, &target)
}
