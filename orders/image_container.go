package orders

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AnthonyLaw/symbol-tomatina-script/constants"
	"github.com/AnthonyLaw/symbol-tomatina-script/events"
	"github.com/AnthonyLaw/symbol-tomatina-script/ledger"
	"github.com/AnthonyLaw/symbol-tomatina-script/logger"
)

// garushMeta is the container metadata record understood by garush-compatible
// viewers.
type garushMeta struct {
	Type     string `yaml:"type"`
	Version  int    `yaml:"version"`
	Name     string `yaml:"name"`
	Size     int64  `yaml:"size"`
	Parser   string `yaml:"parser"`
	Mime     string `yaml:"mime"`
	UserData struct {
		MosaicID string `yaml:"mosaicId"`
	} `yaml:"userData"`
}

// ProcessImageContainers advances orders whose mint and upload batches are all
// confirmed: it publishes the image container record (metadata plus the joined
// batch hash list) and moves the order to pending_settlement.
func (svc *ordersService) ProcessImageContainers(ctx context.Context, node ledger.NodeClient, gateway ledger.Gateway) (*ContainerSummary, error) {
	summary := &ContainerSummary{}

	pending, err := svc.ListOrdersByStatus(constants.ORDER_STATE_PENDING_IMAGE_CONTAINER)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		logger.Logger.Info().Msg("No pending image container")
		return summary, nil
	}
	summary.Pending = len(pending)
	logger.Logger.Info().Int("pending", len(pending)).Msg("Found pending image container orders")

	confirmed := []Order{}
	for _, order := range pending {
		batchHashes, err := ImageHashes(&order)
		if err != nil {
			return summary, err
		}

		// the full hash set of this stage: every upload batch plus the mint
		hashes := append(batchHashes, order.MosaicHash)

		statuses, err := node.TransactionStatuses(ctx, hashes)
		if err != nil {
			logger.Logger.Error().Err(err).Uint64("order_id", order.OrderID).Msg("Failed to query transaction statuses")
			return summary, err
		}

		if !allConfirmed(statuses, len(hashes)) {
			continue
		}
		confirmed = append(confirmed, order)
	}

	if len(confirmed) == 0 {
		logger.Logger.Info().Msg("Image container transactions not confirmed yet")
		return summary, nil
	}
	summary.Confirmed = len(confirmed)

	networkTime, err := node.NodeTime(ctx)
	if err != nil {
		return summary, err
	}
	deadline := networkTime.AddHours(svc.deadlineHours)

	for _, order := range confirmed {
		batchHashes, err := ImageHashes(&order)
		if err != nil {
			return summary, err
		}

		meta := garushMeta{
			Type:    "garush",
			Version: 1,
			Name:    fmt.Sprintf("Tomatina 2023 Art #%d", order.OrderID),
			Size:    order.ImageSize,
			Parser:  "generic",
			Mime:    "image/png",
		}
		meta.UserData.MosaicID = order.MosaicID

		metaBytes, err := yaml.Marshal(&meta)
		if err != nil {
			return summary, err
		}

		containerHash, err := gateway.PublishContainer(ctx, ledger.ContainerRequest{
			Meta:     metaBytes,
			HashList: strings.Join(batchHashes, ","),
			Deadline: deadline,
		})
		if err != nil {
			logger.Logger.Error().Err(err).Uint64("order_id", order.OrderID).Msg("Failed to publish image container")
			return summary, err
		}

		err = svc.UpdateOrder(order.OrderID, OrderUpdate{
			ImageContainerHash: containerHash,
			Status:             constants.ORDER_STATE_PENDING_SETTLEMENT,
		})
		if err != nil {
			return summary, err
		}
		summary.Published++

		svc.eventPublisher.Publish(&events.Event{
			Event: events.EVENT_ORDER_CONTAINER_PUBLISHED,
			Properties: map[string]interface{}{
				"order_id":             order.OrderID,
				"image_container_hash": containerHash,
			},
		})
		logger.Logger.Info().Uint64("order_id", order.OrderID).Str("image_container_hash", containerHash).Msg("Processed order")
	}

	return summary, nil
}
