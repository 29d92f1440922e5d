package orders

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/AnthonyLaw/symbol-tomatina-script/db"
)

type Order = db.Order

type IngestSummary struct {
	Transfers int `json:"transfers"`
	Skipped   int `json:"skipped"`
	Rejected  int `json:"rejected"`
	Created   int `json:"created"`
}

type ContainerSummary struct {
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Published int `json:"published"`
}

type SettlementSummary struct {
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Settled   int `json:"settled"`
	Failed    int `json:"failed"`
}

type notFoundError struct {
}

func NewNotFoundError() error {
	return &notFoundError{}
}

func (err *notFoundError) Error() string {
	return "The order requested was not found"
}

type invalidTransitionError struct {
	from string
	to   string
}

func NewInvalidTransitionError(from string, to string) error {
	return &invalidTransitionError{from: from, to: to}
}

func (err *invalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition from %s to %s", err.from, err.to)
}

type reconciliationError struct {
	orderID uint64
	paid    uint64
	costs   uint64
}

// NewReconciliationError marks a settlement whose total costs exceed the amount
// paid. The pricing assumption is violated; the order must not settle.
func NewReconciliationError(orderID uint64, paid uint64, costs uint64) error {
	return &reconciliationError{orderID: orderID, paid: paid, costs: costs}
}

func (err *reconciliationError) Error() string {
	return fmt.Sprintf("order %d costs %d exceed amount paid %d", err.orderID, err.costs, err.paid)
}

// ImageHashes decodes an order's upload batch hash list.
func ImageHashes(order *Order) ([]string, error) {
	if len(order.ImageHashes) == 0 {
		return []string{}, nil
	}
	var hashes []string
	if err := json.Unmarshal(order.ImageHashes, &hashes); err != nil {
		return nil, err
	}
	return hashes, nil
}

func encodeImageHashes(hashes []string) (datatypes.JSON, error) {
	encoded, err := json.Marshal(hashes)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(encoded), nil
}
