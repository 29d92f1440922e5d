package orders

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AnthonyLaw/symbol-tomatina-script/constants"
	"github.com/AnthonyLaw/symbol-tomatina-script/events"
	"github.com/AnthonyLaw/symbol-tomatina-script/ledger"
	"github.com/AnthonyLaw/symbol-tomatina-script/logger"
)

const settlementMessage = "Thank you for your purchase!"

type mosaicMetadata struct {
	RootTransactionHash string `json:"rootTransactionHash"`
	Name                string `json:"name"`
}

// ComputeRemaining reconciles the buyer's change: the amount paid minus the
// ledger fees of all the order's transactions and the fixed mint and metadata
// costs. A negative result means the pricing assumption is violated and must
// fail loudly, never be clamped.
func ComputeRemaining(orderID uint64, paid uint64, ledgerFees uint64) (uint64, error) {
	costs := ledgerFees + constants.MOSAIC_CREATION_FEE + constants.SETTLEMENT_FEE
	if costs > paid {
		return 0, NewReconciliationError(orderID, paid, costs)
	}
	return paid - costs, nil
}

// ProcessSettlements settles orders whose image container is confirmed: it
// transfers the minted mosaic plus the remaining balance to the buyer, tagged
// with a metadata record referencing the container, and completes the order.
func (svc *ordersService) ProcessSettlements(ctx context.Context, node ledger.NodeClient, gateway ledger.Gateway) (*SettlementSummary, error) {
	summary := &SettlementSummary{}

	pending, err := svc.ListOrdersByStatus(constants.ORDER_STATE_PENDING_SETTLEMENT)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		logger.Logger.Info().Msg("No pending settlement")
		return summary, nil
	}
	summary.Pending = len(pending)
	logger.Logger.Info().Int("pending", len(pending)).Msg("Found pending settlement orders")

	nativeMosaicID, err := node.NativeMosaicID(ctx)
	if err != nil {
		return summary, err
	}

	confirmed := []Order{}
	for _, order := range pending {
		statuses, err := node.TransactionStatuses(ctx, []string{order.ImageContainerHash})
		if err != nil {
			logger.Logger.Error().Err(err).Uint64("order_id", order.OrderID).Msg("Failed to query container status")
			return summary, err
		}
		if !allConfirmed(statuses, 1) {
			continue
		}
		confirmed = append(confirmed, order)
	}

	if len(confirmed) == 0 {
		logger.Logger.Info().Msg("Settlement containers not confirmed yet")
		return summary, nil
	}
	summary.Confirmed = len(confirmed)

	networkTime, err := node.NodeTime(ctx)
	if err != nil {
		return summary, err
	}
	deadline := networkTime.AddHours(svc.deadlineHours)

	for _, order := range confirmed {
		settled, err := svc.settleOrder(ctx, order, nativeMosaicID, deadline, node, gateway)
		if err != nil {
			return summary, err
		}
		if settled {
			summary.Settled++
		} else {
			summary.Failed++
		}
	}

	return summary, nil
}

// settleOrder returns (false, nil) for per-order data-integrity failures that
// must not abort the rest of the run.
func (svc *ordersService) settleOrder(ctx context.Context, order Order, nativeMosaicID string, deadline ledger.NetworkTimestamp, node ledger.NodeClient, gateway ledger.Gateway) (bool, error) {
	batchHashes, err := ImageHashes(&order)
	if err != nil {
		return false, err
	}

	// fee total = mosaic creation tx + image container tx + every upload batch
	feeHashes := append([]string{order.MosaicHash, order.ImageContainerHash}, batchHashes...)
	transactions, err := node.ConfirmedTransactions(ctx, feeHashes)
	if err != nil {
		logger.Logger.Error().Err(err).Uint64("order_id", order.OrderID).Msg("Failed to query confirmed transactions")
		return false, err
	}
	if len(transactions) != len(feeHashes) {
		logger.Logger.Error().
			Uint64("order_id", order.OrderID).
			Int("expected", len(feeHashes)).
			Int("returned", len(transactions)).
			Msg("Confirmed transaction count mismatch, skipping settlement")
		return false, nil
	}

	var ledgerFees uint64
	for _, transaction := range transactions {
		ledgerFees += transaction.MaxFee
	}

	remaining, err := ComputeRemaining(order.OrderID, order.Paid, ledgerFees)
	if err != nil {
		// reconciliation failure: the order stays pending for the operator
		logger.Logger.Error().Err(err).Uint64("order_id", order.OrderID).Msg("Settlement reconciliation failed")
		return false, nil
	}

	metadata, err := json.Marshal(&mosaicMetadata{
		RootTransactionHash: order.ImageContainerHash,
		Name:                fmt.Sprintf("Tomatina NFT #%d", order.OrderID),
	})
	if err != nil {
		return false, err
	}

	settlementHash, err := gateway.Settle(ctx, ledger.SettlementRequest{
		MosaicID:  order.MosaicID,
		Metadata:  metadata,
		ScopedKey: constants.MetadataScopedKey(),
		Mosaics: []ledger.Mosaic{
			{MosaicID: order.MosaicID, Amount: constants.MOSAIC_SUPPLY},
			{MosaicID: nativeMosaicID, Amount: remaining},
		},
		BuyerAddress: order.BuyerAddress,
		Message:      settlementMessage,
		Deadline:     deadline,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Uint64("order_id", order.OrderID).Msg("Failed to submit settlement")
		return false, err
	}

	err = svc.UpdateOrder(order.OrderID, OrderUpdate{
		SettlementHash: settlementHash,
		Status:         constants.ORDER_STATE_COMPLETED,
	})
	if err != nil {
		return false, err
	}

	svc.eventPublisher.Publish(&events.Event{
		Event: events.EVENT_ORDER_SETTLED,
		Properties: map[string]interface{}{
			"order_id":        order.OrderID,
			"settlement_hash": settlementHash,
			"remaining":       remaining,
		},
	})
	logger.Logger.Info().
		Uint64("order_id", order.OrderID).
		Str("settlement_hash", settlementHash).
		Uint64("remaining", remaining).
		Msg("Settled order")
	return true, nil
}
