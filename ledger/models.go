package ledger

import "context"

// NetworkTimestamp is a node-relative timestamp in milliseconds, used as the
// deadline on submitted transactions.
type NetworkTimestamp uint64

func (ts NetworkTimestamp) AddHours(hours int) NetworkTimestamp {
	return ts + NetworkTimestamp(hours)*60*60*1000
}

type Mosaic struct {
	MosaicID string `json:"id"`
	Amount   uint64 `json:"amount"`
}

// TransferRecord is one confirmed incoming transfer to the order address.
type TransferRecord struct {
	OffsetID        string
	Hash            string
	SignerPublicKey string
	SignerAddress   string
	MessageHex      string
	Mosaics         []Mosaic
}

type TransactionStatus struct {
	Hash  string `json:"hash"`
	Group string `json:"group"`
}

type ConfirmedTransaction struct {
	Hash   string
	MaxFee uint64
}

// NodeClient is the query surface of a ledger node. All calls are blocking
// round trips; timeouts are the client's concern.
type NodeClient interface {
	CurrentHeight(ctx context.Context) (uint64, error)
	NodeTime(ctx context.Context) (NetworkTimestamp, error)
	NativeMosaicID(ctx context.Context) (string, error)
	IncomingTransfers(ctx context.Context, recipientAddress string, sinceOffsetID string) ([]TransferRecord, error)
	TransactionStatuses(ctx context.Context, hashes []string) ([]TransactionStatus, error)
	ConfirmedTransactions(ctx context.Context, hashes []string) ([]ConfirmedTransaction, error)
	Announce(ctx context.Context, signedPayload []byte) error
}

type MintRequest struct {
	Supply   uint64
	Deadline NetworkTimestamp
}

type MintResult struct {
	Hash     string
	MosaicID string
}

// UploadBatchRequest carries one aggregate's worth of artwork chunks. Each
// chunk becomes one inner transfer; the whole batch confirms atomically under
// a single hash.
type UploadBatchRequest struct {
	Chunks   [][]byte
	Deadline NetworkTimestamp
}

// ContainerRequest publishes the image container record: the generated-art
// metadata plus the comma-joined list of upload batch hashes, as two inner
// transfers of one aggregate.
type ContainerRequest struct {
	Meta     []byte
	HashList string
	Deadline NetworkTimestamp
}

// SettlementRequest delivers the minted mosaic and the buyer's change, tagged
// with a mosaic metadata entry, as one aggregate.
type SettlementRequest struct {
	MosaicID     string
	Metadata     []byte
	ScopedKey    uint64
	Mosaics      []Mosaic
	BuyerAddress string
	Message      string
	Deadline     NetworkTimestamp
}

// Gateway builds, signs and announces the pipeline's transactions. Transaction
// construction and signing live entirely behind this interface.
type Gateway interface {
	MintMosaic(ctx context.Context, req MintRequest) (*MintResult, error)
	UploadBatch(ctx context.Context, req UploadBatchRequest) (string, error)
	PublishContainer(ctx context.Context, req ContainerRequest) (string, error)
	Settle(ctx context.Context, req SettlementRequest) (string, error)
}
