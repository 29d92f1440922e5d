package orders

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AnthonyLaw/symbol-tomatina-script/constants"
	"github.com/AnthonyLaw/symbol-tomatina-script/ledger"
	"github.com/AnthonyLaw/symbol-tomatina-script/tests"
	"github.com/AnthonyLaw/symbol-tomatina-script/tests/mocks"
)

const nativeMosaicID = "6BED913FA20223F8"

func encodeMessage(t *testing.T, message string) string {
	t.Helper()
	// wallets prefix plain messages with a zero type byte
	return hex.EncodeToString(append([]byte{0}, []byte(message)...))
}

func writeTestImage(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "1_1_1_1_1_1.png")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0xAB}, size), 0o644))
	return path
}

func paidTransfer(t *testing.T, offsetID string, hash string) ledger.TransferRecord {
	t.Helper()
	return ledger.TransferRecord{
		OffsetID:      offsetID,
		Hash:          hash,
		SignerAddress: "TBUYER",
		MessageHex:    encodeMessage(t, "1,1,1,1,1,1"),
		Mosaics:       []ledger.Mosaic{{MosaicID: nativeMosaicID, Amount: constants.ORDER_PRICE}},
	}
}

func TestIngestOrders_EmptyBatch(t *testing.T) {
	ctx := context.TODO()

	svc, err := tests.CreateTestService(t)
	require.NoError(t, err)
	defer svc.Remove()

	ordersSvc := NewOrdersService(svc.DB, svc.EventPublisher, "TADDRESS", 2)

	node := mocks.NewMockNodeClient()
	node.On("IncomingTransfers", mock.Anything, "TADDRESS", "").Return([]ledger.TransferRecord{}, nil)

	summary, err := ordersSvc.IngestOrders(ctx, node, mocks.NewMockGateway(), mocks.NewMockGenerator())
	require.NoError(t, err)
	assert.Zero(t, summary.Transfers)
	assert.Zero(t, summary.Created)

	// no store mutation, no checkpoint write
	total, err := ordersSvc.TotalOrders()
	require.NoError(t, err)
	assert.Zero(t, total)
	checkpoint, err := ordersSvc.LastCheckpoint()
	require.NoError(t, err)
	assert.Empty(t, checkpoint)
}

func TestIngestOrders_CreatesOrder(t *testing.T) {
	ctx := context.TODO()

	svc, err := tests.CreateTestService(t)
	require.NoError(t, err)
	defer svc.Remove()

	ordersSvc := NewOrdersService(svc.DB, svc.EventPublisher, "TADDRESS", 2)

	// 150 chunks of 1024 bytes -> two aggregates (100 + 50 inner transfers)
	imageSize := constants.UPLOAD_CHUNK_SIZE * 150
	imagePath := writeTestImage(t, imageSize)

	node := mocks.NewMockNodeClient()
	node.On("IncomingTransfers", mock.Anything, "TADDRESS", "").
		Return([]ledger.TransferRecord{paidTransfer(t, "OFFSET1", "ORDERHASH1")}, nil)
	node.On("NativeMosaicID", mock.Anything).Return(nativeMosaicID, nil)
	node.On("NodeTime", mock.Anything).Return(ledger.NetworkTimestamp(1000), nil)

	generator := mocks.NewMockGenerator()
	generator.On("Compose", []int{1, 1, 1, 1, 1, 1}).Return(imagePath, int64(imageSize), nil)

	gateway := mocks.NewMockGateway()
	gateway.On("MintMosaic", mock.Anything, mock.Anything).
		Return(&ledger.MintResult{Hash: "MINTHASH", MosaicID: "MOSAIC1"}, nil)
	gateway.On("UploadBatch", mock.Anything, mock.MatchedBy(func(req ledger.UploadBatchRequest) bool {
		return len(req.Chunks) == 100
	})).Return("BATCHHASH1", nil).Once()
	gateway.On("UploadBatch", mock.Anything, mock.MatchedBy(func(req ledger.UploadBatchRequest) bool {
		return len(req.Chunks) == 50
	})).Return("BATCHHASH2", nil).Once()

	summary, err := ordersSvc.IngestOrders(ctx, node, gateway, generator)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Transfers)
	assert.Equal(t, 1, summary.Created)

	order, err := ordersSvc.GetOrder(1)
	require.NoError(t, err)
	assert.Equal(t, "1,1,1,1,1,1", order.Message)
	assert.Equal(t, "ORDERHASH1", order.OrderHash)
	assert.Equal(t, "TBUYER", order.BuyerAddress)
	assert.Equal(t, uint64(constants.ORDER_PRICE), order.Paid)
	assert.Equal(t, "MINTHASH", order.MosaicHash)
	assert.Equal(t, "MOSAIC1", order.MosaicID)
	assert.Equal(t, int64(imageSize), order.ImageSize)
	assert.Equal(t, constants.ORDER_STATE_PENDING_IMAGE_CONTAINER, order.Status)
	assert.Empty(t, order.ImageContainerHash)
	assert.Empty(t, order.SettlementHash)

	hashes, err := ImageHashes(order)
	require.NoError(t, err)
	assert.Equal(t, []string{"BATCHHASH1", "BATCHHASH2"}, hashes)

	checkpoint, err := ordersSvc.LastCheckpoint()
	require.NoError(t, err)
	assert.Equal(t, "OFFSET1", checkpoint)

	gateway.AssertExpectations(t)
}

func TestIngestOrders_SkipsInvalidTransfers(t *testing.T) {
	ctx := context.TODO()

	svc, err := tests.CreateTestService(t)
	require.NoError(t, err)
	defer svc.Remove()

	ordersSvc := NewOrdersService(svc.DB, svc.EventPublisher, "TADDRESS", 2)

	transfers := []ledger.TransferRecord{
		// no message
		{OffsetID: "O1", Hash: "H1", Mosaics: []ledger.Mosaic{{MosaicID: nativeMosaicID, Amount: constants.ORDER_PRICE}}},
		// no mosaics
		{OffsetID: "O2", Hash: "H2", MessageHex: encodeMessage(t, "1,1,1,1,1,1")},
		// wrong asset
		{OffsetID: "O3", Hash: "H3", MessageHex: encodeMessage(t, "1,1,1,1,1,1"), Mosaics: []ledger.Mosaic{{MosaicID: "DEADBEEF00000000", Amount: constants.ORDER_PRICE}}},
		// underpaid
		{OffsetID: "O4", Hash: "H4", MessageHex: encodeMessage(t, "1,1,1,1,1,1"), Mosaics: []ledger.Mosaic{{MosaicID: nativeMosaicID, Amount: constants.ORDER_PRICE - 1}}},
	}

	node := mocks.NewMockNodeClient()
	node.On("IncomingTransfers", mock.Anything, "TADDRESS", "").Return(transfers, nil)
	node.On("NativeMosaicID", mock.Anything).Return(nativeMosaicID, nil)
	node.On("NodeTime", mock.Anything).Return(ledger.NetworkTimestamp(1000), nil)

	summary, err := ordersSvc.IngestOrders(ctx, node, mocks.NewMockGateway(), mocks.NewMockGenerator())
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Transfers)
	assert.Equal(t, 4, summary.Skipped)
	assert.Zero(t, summary.Created)

	// skipped transfers are permanently rejected: the checkpoint still moves
	checkpoint, err := ordersSvc.LastCheckpoint()
	require.NoError(t, err)
	assert.Equal(t, "O4", checkpoint)
}

func TestIngestOrders_RejectsMalformedSelection(t *testing.T) {
	ctx := context.TODO()

	svc, err := tests.CreateTestService(t)
	require.NoError(t, err)
	defer svc.Remove()

	ordersSvc := NewOrdersService(svc.DB, svc.EventPublisher, "TADDRESS", 2)

	transfers := []ledger.TransferRecord{
		{OffsetID: "O1", Hash: "H1", MessageHex: encodeMessage(t, "1,2,banana"), Mosaics: []ledger.Mosaic{{MosaicID: nativeMosaicID, Amount: constants.ORDER_PRICE}}},
	}

	node := mocks.NewMockNodeClient()
	node.On("IncomingTransfers", mock.Anything, "TADDRESS", "").Return(transfers, nil)
	node.On("NativeMosaicID", mock.Anything).Return(nativeMosaicID, nil)
	node.On("NodeTime", mock.Anything).Return(ledger.NetworkTimestamp(1000), nil)

	summary, err := ordersSvc.IngestOrders(ctx, node, mocks.NewMockGateway(), mocks.NewMockGenerator())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Rejected)
	assert.Zero(t, summary.Created)

	// never mint an order with invalid selection data
	total, err := ordersSvc.TotalOrders()
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestIngestOrders_IdempotentRescan(t *testing.T) {
	ctx := context.TODO()

	svc, err := tests.CreateTestService(t)
	require.NoError(t, err)
	defer svc.Remove()

	ordersSvc := NewOrdersService(svc.DB, svc.EventPublisher, "TADDRESS", 2)

	imageSize := constants.UPLOAD_CHUNK_SIZE
	imagePath := writeTestImage(t, imageSize)

	transfer := paidTransfer(t, "OFFSET1", "ORDERHASH1")

	node := mocks.NewMockNodeClient()
	// the node serves the same window twice, regardless of the offset sent
	node.On("IncomingTransfers", mock.Anything, "TADDRESS", mock.Anything).Return([]ledger.TransferRecord{transfer}, nil)
	node.On("NativeMosaicID", mock.Anything).Return(nativeMosaicID, nil)
	node.On("NodeTime", mock.Anything).Return(ledger.NetworkTimestamp(1000), nil)

	generator := mocks.NewMockGenerator()
	generator.On("Compose", mock.Anything).Return(imagePath, int64(imageSize), nil)

	gateway := mocks.NewMockGateway()
	gateway.On("MintMosaic", mock.Anything, mock.Anything).
		Return(&ledger.MintResult{Hash: "MINTHASH", MosaicID: "MOSAIC1"}, nil).Once()
	gateway.On("UploadBatch", mock.Anything, mock.Anything).Return("BATCHHASH1", nil).Once()

	_, err = ordersSvc.IngestOrders(ctx, node, gateway, generator)
	require.NoError(t, err)

	// the crash-recovery case: same window served again before the
	// checkpoint moved
	summary, err := ordersSvc.IngestOrders(ctx, node, gateway, generator)
	require.NoError(t, err)
	assert.Zero(t, summary.Created)
	assert.Equal(t, 1, summary.Skipped)

	total, err := ordersSvc.TotalOrders()
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	gateway.AssertExpectations(t)
}

func TestIngestOrders_AbortsBeforeCheckpointOnGatewayFailure(t *testing.T) {
	ctx := context.TODO()

	svc, err := tests.CreateTestService(t)
	require.NoError(t, err)
	defer svc.Remove()

	ordersSvc := NewOrdersService(svc.DB, svc.EventPublisher, "TADDRESS", 2)

	imagePath := writeTestImage(t, constants.UPLOAD_CHUNK_SIZE)

	node := mocks.NewMockNodeClient()
	node.On("IncomingTransfers", mock.Anything, "TADDRESS", "").
		Return([]ledger.TransferRecord{paidTransfer(t, "OFFSET1", "ORDERHASH1")}, nil)
	node.On("NativeMosaicID", mock.Anything).Return(nativeMosaicID, nil)
	node.On("NodeTime", mock.Anything).Return(ledger.NetworkTimestamp(1000), nil)

	generator := mocks.NewMockGenerator()
	generator.On("Compose", mock.Anything).Return(imagePath, int64(constants.UPLOAD_CHUNK_SIZE), nil)

	gateway := mocks.NewMockGateway()
	gateway.On("MintMosaic", mock.Anything, mock.Anything).
		Return(nil, errors.New("node unreachable"))

	_, err = ordersSvc.IngestOrders(ctx, node, gateway, generator)
	require.Error(t, err)

	// window must be re-scanned next run
	checkpoint, err := ordersSvc.LastCheckpoint()
	require.NoError(t, err)
	assert.Empty(t, checkpoint)

	total, err := ordersSvc.TotalOrders()
	require.NoError(t, err)
	assert.Zero(t, total)
}
