package symbolnode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/AnthonyLaw/symbol-tomatina-script/ledger"
	"github.com/AnthonyLaw/symbol-tomatina-script/logger"
)

const (
	pageSize = 100
	// transfer_transaction_v1
	transferTransactionType = 16724
)

// AddressResolver converts a signer public key into an account address. The
// conversion is network-specific cryptography and stays outside this client.
type AddressResolver func(signerPublicKey string) (string, error)

type client struct {
	nodeUrl        string
	httpClient     *http.Client
	resolveAddress AddressResolver
	fromHeight     uint64
	nativeMosaicID string
}

// NewClient returns a ledger.NodeClient speaking to a Symbol REST node.
func NewClient(nodeUrl string, timeout time.Duration, fromHeight uint64, resolveAddress AddressResolver) *client {
	return &client{
		nodeUrl:        strings.TrimRight(nodeUrl, "/"),
		httpClient:     &http.Client{Timeout: timeout},
		resolveAddress: resolveAddress,
		fromHeight:     fromHeight,
	}
}

func (c *client) CurrentHeight(ctx context.Context) (uint64, error) {
	var response struct {
		Height string `json:"height"`
	}
	if err := c.get(ctx, "chain/info", &response); err != nil {
		return 0, err
	}
	return strconv.ParseUint(response.Height, 10, 64)
}

func (c *client) NodeTime(ctx context.Context) (ledger.NetworkTimestamp, error) {
	var response struct {
		CommunicationTimestamps struct {
			ReceiveTimestamp string `json:"receiveTimestamp"`
		} `json:"communicationTimestamps"`
	}
	if err := c.get(ctx, "node/time", &response); err != nil {
		return 0, err
	}
	ts, err := strconv.ParseUint(response.CommunicationTimestamps.ReceiveTimestamp, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse node time: %w", err)
	}
	return ledger.NetworkTimestamp(ts), nil
}

func (c *client) NativeMosaicID(ctx context.Context) (string, error) {
	if c.nativeMosaicID != "" {
		return c.nativeMosaicID, nil
	}

	var response struct {
		Chain struct {
			CurrencyMosaicId string `json:"currencyMosaicId"`
		} `json:"chain"`
	}
	if err := c.get(ctx, "network/properties", &response); err != nil {
		return "", err
	}

	// network properties quote the id as 0x6BED'913F'A202'23F8
	id := strings.ReplaceAll(response.Chain.CurrencyMosaicId, "'", "")
	id = strings.TrimPrefix(id, "0x")
	c.nativeMosaicID = strings.ToUpper(id)
	return c.nativeMosaicID, nil
}

type transferPage struct {
	Data []struct {
		ID   string `json:"id"`
		Meta struct {
			Hash          string `json:"hash"`
			AggregateHash string `json:"aggregateHash"`
		} `json:"meta"`
		Transaction struct {
			SignerPublicKey string `json:"signerPublicKey"`
			Message         string `json:"message"`
			Mosaics         []struct {
				ID     string `json:"id"`
				Amount string `json:"amount"`
			} `json:"mosaics"`
		} `json:"transaction"`
	} `json:"data"`
}

func (c *client) IncomingTransfers(ctx context.Context, recipientAddress string, sinceOffsetID string) ([]ledger.TransferRecord, error) {
	records := []ledger.TransferRecord{}
	offset := sinceOffsetID

	for {
		query := url.Values{}
		query.Set("recipientAddress", recipientAddress)
		query.Set("embedded", "true")
		query.Set("fromHeight", strconv.FormatUint(c.fromHeight, 10))
		query.Set("pageSize", strconv.Itoa(pageSize))
		query.Set("order", "asc")
		query.Set("type", strconv.Itoa(transferTransactionType))
		if offset != "" {
			query.Set("offset", offset)
		}

		var page transferPage
		if err := c.get(ctx, "transactions/confirmed?"+query.Encode(), &page); err != nil {
			return nil, err
		}
		if len(page.Data) == 0 {
			break
		}

		for _, entry := range page.Data {
			record := ledger.TransferRecord{
				OffsetID:        entry.ID,
				SignerPublicKey: entry.Transaction.SignerPublicKey,
				MessageHex:      entry.Transaction.Message,
			}

			record.Hash = entry.Meta.Hash
			if record.Hash == "" {
				record.Hash = entry.Meta.AggregateHash
			}

			if c.resolveAddress != nil {
				address, err := c.resolveAddress(entry.Transaction.SignerPublicKey)
				if err != nil {
					logger.Logger.Warn().Err(err).Str("signer", entry.Transaction.SignerPublicKey).Msg("Failed to resolve signer address")
				} else {
					record.SignerAddress = address
				}
			}

			for _, mosaic := range entry.Transaction.Mosaics {
				amount, err := strconv.ParseUint(mosaic.Amount, 10, 64)
				if err != nil {
					return nil, fmt.Errorf("failed to parse mosaic amount %q: %w", mosaic.Amount, err)
				}
				record.Mosaics = append(record.Mosaics, ledger.Mosaic{
					MosaicID: mosaic.ID,
					Amount:   amount,
				})
			}
			records = append(records, record)
		}

		if len(page.Data) < pageSize {
			break
		}
		offset = page.Data[len(page.Data)-1].ID
	}

	return records, nil
}

func (c *client) TransactionStatuses(ctx context.Context, hashes []string) ([]ledger.TransactionStatus, error) {
	payload := map[string][]string{"hashes": hashes}
	statuses := []ledger.TransactionStatus{}
	if err := c.post(ctx, "transactionStatus", payload, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

func (c *client) ConfirmedTransactions(ctx context.Context, hashes []string) ([]ledger.ConfirmedTransaction, error) {
	payload := map[string][]string{"transactionIds": hashes}

	var response []struct {
		Meta struct {
			Hash string `json:"hash"`
		} `json:"meta"`
		Transaction struct {
			MaxFee string `json:"maxFee"`
		} `json:"transaction"`
	}
	if err := c.post(ctx, "transactions/confirmed", payload, &response); err != nil {
		return nil, err
	}

	transactions := make([]ledger.ConfirmedTransaction, 0, len(response))
	for _, entry := range response {
		maxFee, err := strconv.ParseUint(entry.Transaction.MaxFee, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse maxFee %q: %w", entry.Transaction.MaxFee, err)
		}
		transactions = append(transactions, ledger.ConfirmedTransaction{
			Hash:   entry.Meta.Hash,
			MaxFee: maxFee,
		})
	}
	return transactions, nil
}

func (c *client) Announce(ctx context.Context, signedPayload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.nodeUrl+"/transactions", bytes.NewReader(signedPayload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to announce transaction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("node rejected transaction announce: %s %s", resp.Status, string(body))
	}
	return nil
}

func (c *client) get(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.nodeUrl+"/"+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("node request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("node request %s returned %s: %s", path, resp.Status, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

func (c *client) post(ctx context.Context, path string, payload interface{}, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.nodeUrl+"/"+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("node request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		responseBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("node request %s returned %s: %s", path, resp.Status, string(responseBody))
	}
	return json.NewDecoder(resp.Body).Decode(result)
}
