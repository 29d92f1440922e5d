package orders

import (
	"context"
	"os"

	"github.com/AnthonyLaw/symbol-tomatina-script/artwork"
	"github.com/AnthonyLaw/symbol-tomatina-script/constants"
	"github.com/AnthonyLaw/symbol-tomatina-script/events"
	"github.com/AnthonyLaw/symbol-tomatina-script/ledger"
	"github.com/AnthonyLaw/symbol-tomatina-script/logger"
	"github.com/AnthonyLaw/symbol-tomatina-script/utils"
)

// IngestOrders runs one ingestion pass: it fetches incoming transfers since
// the checkpoint, turns valid paid transfers into orders (composing the
// artwork, minting the mosaic and uploading the image in chunked batches),
// and finally advances the checkpoint to the last fetched transfer's offset.
//
// Invalid transfers (no message, wrong mosaic, underpaid, malformed
// selection) are rejected permanently: the checkpoint moves past them and
// they are never revisited. A failed gateway call aborts the pass before the
// checkpoint is written, so the next invocation re-scans the same window;
// re-seen transfers are skipped via their unique order hash.
func (svc *ordersService) IngestOrders(ctx context.Context, node ledger.NodeClient, gateway ledger.Gateway, generator artwork.Generator) (*IngestSummary, error) {
	summary := &IngestSummary{}

	lastCheckpoint, err := svc.LastCheckpoint()
	if err != nil {
		return nil, err
	}

	transfers, err := node.IncomingTransfers(ctx, svc.orderAddress, lastCheckpoint)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to fetch incoming transfers")
		return nil, err
	}

	if len(transfers) == 0 {
		logger.Logger.Info().Msg("No new order")
		return summary, nil
	}
	summary.Transfers = len(transfers)
	logger.Logger.Info().Int("transfers", len(transfers)).Msg("Found incoming transfers")

	nativeMosaicID, err := node.NativeMosaicID(ctx)
	if err != nil {
		return nil, err
	}

	networkTime, err := node.NodeTime(ctx)
	if err != nil {
		return nil, err
	}
	deadline := networkTime.AddHours(svc.deadlineHours)

	for _, transfer := range transfers {
		accepted, err := svc.ingestTransfer(ctx, transfer, nativeMosaicID, deadline, gateway, generator, summary)
		if err != nil {
			// transient-external or persistence failure: abort before the
			// checkpoint moves so the window is re-scanned next run
			return summary, err
		}
		if accepted {
			summary.Created++
		}
	}

	if err := svc.SaveCheckpoint(transfers[len(transfers)-1].OffsetID); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to save checkpoint")
		return summary, err
	}

	logger.Logger.Info().
		Int("transfers", summary.Transfers).
		Int("skipped", summary.Skipped).
		Int("rejected", summary.Rejected).
		Int("created", summary.Created).
		Msg("Ingestion pass complete")
	return summary, nil
}

func (svc *ordersService) ingestTransfer(ctx context.Context, transfer ledger.TransferRecord, nativeMosaicID string, deadline ledger.NetworkTimestamp, gateway ledger.Gateway, generator artwork.Generator, summary *IngestSummary) (bool, error) {
	if transfer.MessageHex == "" || len(transfer.Mosaics) == 0 {
		summary.Skipped++
		return false, nil
	}

	mosaic := transfer.Mosaics[0]
	if mosaic.MosaicID != nativeMosaicID || mosaic.Amount < constants.ORDER_PRICE {
		summary.Skipped++
		return false, nil
	}

	exists, err := svc.hasOrderWithHash(transfer.Hash)
	if err != nil {
		return false, err
	}
	if exists {
		// already stored by an earlier pass over the same window
		summary.Skipped++
		return false, nil
	}

	message, err := utils.DecodeTransferMessage(transfer.MessageHex)
	if err != nil {
		svc.rejectTransfer(transfer, summary, err)
		return false, nil
	}

	selection, err := utils.ParseSelection(message, artwork.LayerCount)
	if err != nil {
		svc.rejectTransfer(transfer, summary, err)
		return false, nil
	}

	logger.Logger.Info().
		Str("buyer", transfer.SignerAddress).
		Str("tx", transfer.Hash).
		Str("message", message).
		Msg("New order")

	imagePath, imageSize, err := generator.Compose(selection)
	if err != nil {
		// an out-of-range layer index names a file that does not exist
		svc.rejectTransfer(transfer, summary, err)
		return false, nil
	}

	mint, err := gateway.MintMosaic(ctx, ledger.MintRequest{
		Supply:   constants.MOSAIC_SUPPLY,
		Deadline: deadline,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Str("tx", transfer.Hash).Msg("Failed to mint mosaic")
		return false, err
	}

	imageBytes, err := os.ReadFile(imagePath)
	if err != nil {
		return false, err
	}

	chunks := utils.ChunkBytes(imageBytes, constants.UPLOAD_CHUNK_SIZE)
	batches := utils.Bundle(chunks, constants.MAX_INNER_TRANSACTIONS)

	batchHashes := make([]string, 0, len(batches))
	for _, batch := range batches {
		// a batch hash is recorded only after its submission succeeded
		hash, err := gateway.UploadBatch(ctx, ledger.UploadBatchRequest{
			Chunks:   batch,
			Deadline: deadline,
		})
		if err != nil {
			logger.Logger.Error().Err(err).Str("tx", transfer.Hash).Msg("Failed to upload image batch")
			return false, err
		}
		batchHashes = append(batchHashes, hash)
	}

	encodedHashes, err := encodeImageHashes(batchHashes)
	if err != nil {
		return false, err
	}

	order := &Order{
		Message:      message,
		OrderHash:    transfer.Hash,
		BuyerAddress: transfer.SignerAddress,
		Paid:         mosaic.Amount,
		MosaicHash:   mint.Hash,
		MosaicID:     mint.MosaicID,
		ImageHashes:  encodedHashes,
		ImageSize:    imageSize,
		Status:       constants.ORDER_STATE_PENDING_IMAGE_CONTAINER,
	}
	orderID, err := svc.AddOrder(order)
	if err != nil {
		return false, err
	}

	svc.eventPublisher.Publish(&events.Event{
		Event:      events.EVENT_ORDER_CREATED,
		Properties: order,
	})
	logger.Logger.Info().Uint64("order_id", orderID).Str("mosaic_id", mint.MosaicID).Msg("Created order")
	return true, nil
}

func (svc *ordersService) rejectTransfer(transfer ledger.TransferRecord, summary *IngestSummary, reason error) {
	summary.Rejected++
	logger.Logger.Warn().
		Err(reason).
		Str("tx", transfer.Hash).
		Str("buyer", transfer.SignerAddress).
		Msg("Rejected incoming transfer")
	svc.eventPublisher.Publish(&events.Event{
		Event: events.EVENT_ORDER_REJECTED,
		Properties: map[string]interface{}{
			"tx":     transfer.Hash,
			"buyer":  transfer.SignerAddress,
			"reason": reason.Error(),
		},
	})
}
