package dryrun

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/AnthonyLaw/symbol-tomatina-script/ledger"
	"github.com/AnthonyLaw/symbol-tomatina-script/logger"
)

// gateway is a ledger.Gateway that announces nothing. It logs every request
// and returns deterministic pseudo-hashes, so the pipeline can be exercised
// end to end without a signing key or a funded account.
type gateway struct {
	counter uint64
}

func NewGateway() *gateway {
	return &gateway{}
}

func (g *gateway) MintMosaic(ctx context.Context, req ledger.MintRequest) (*ledger.MintResult, error) {
	hash := g.pseudoHash("mint")
	mosaicID := g.pseudoHash("mosaic")[:16]
	logger.Logger.Info().
		Uint64("supply", req.Supply).
		Str("hash", hash).
		Str("mosaic_id", mosaicID).
		Msg("[dry run] mosaic creation transaction")
	return &ledger.MintResult{Hash: hash, MosaicID: mosaicID}, nil
}

func (g *gateway) UploadBatch(ctx context.Context, req ledger.UploadBatchRequest) (string, error) {
	hash := g.pseudoHash("upload")
	logger.Logger.Info().
		Int("chunks", len(req.Chunks)).
		Str("hash", hash).
		Msg("[dry run] image upload aggregate")
	return hash, nil
}

func (g *gateway) PublishContainer(ctx context.Context, req ledger.ContainerRequest) (string, error) {
	hash := g.pseudoHash("container")
	logger.Logger.Info().
		Int("meta_size", len(req.Meta)).
		Int("batches", strings.Count(req.HashList, ",")+1).
		Str("hash", hash).
		Msg("[dry run] image container aggregate")
	return hash, nil
}

func (g *gateway) Settle(ctx context.Context, req ledger.SettlementRequest) (string, error) {
	hash := g.pseudoHash("settlement")
	logger.Logger.Info().
		Str("buyer", req.BuyerAddress).
		Interface("mosaics", req.Mosaics).
		Str("hash", hash).
		Msg("[dry run] settlement aggregate")
	return hash, nil
}

func (g *gateway) pseudoHash(kind string) string {
	g.counter++
	var seed [8]byte
	binary.LittleEndian.PutUint64(seed[:], g.counter)
	sum := sha256.Sum256(append([]byte(kind), seed[:]...))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
