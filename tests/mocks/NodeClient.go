package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/AnthonyLaw/symbol-tomatina-script/ledger"
)

type MockNodeClient struct {
	mock.Mock
}

func NewMockNodeClient() *MockNodeClient {
	return &MockNodeClient{}
}

func (_mock *MockNodeClient) CurrentHeight(ctx context.Context) (uint64, error) {
	ret := _mock.Called(ctx)
	return ret.Get(0).(uint64), ret.Error(1)
}

func (_mock *MockNodeClient) NodeTime(ctx context.Context) (ledger.NetworkTimestamp, error) {
	ret := _mock.Called(ctx)
	return ret.Get(0).(ledger.NetworkTimestamp), ret.Error(1)
}

func (_mock *MockNodeClient) NativeMosaicID(ctx context.Context) (string, error) {
	ret := _mock.Called(ctx)
	return ret.String(0), ret.Error(1)
}

func (_mock *MockNodeClient) IncomingTransfers(ctx context.Context, recipientAddress string, sinceOffsetID string) ([]ledger.TransferRecord, error) {
	ret := _mock.Called(ctx, recipientAddress, sinceOffsetID)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]ledger.TransferRecord), ret.Error(1)
}

func (_mock *MockNodeClient) TransactionStatuses(ctx context.Context, hashes []string) ([]ledger.TransactionStatus, error) {
	ret := _mock.Called(ctx, hashes)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]ledger.TransactionStatus), ret.Error(1)
}

func (_mock *MockNodeClient) ConfirmedTransactions(ctx context.Context, hashes []string) ([]ledger.ConfirmedTransaction, error) {
	ret := _mock.Called(ctx, hashes)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]ledger.ConfirmedTransaction), ret.Error(1)
}

func (_mock *MockNodeClient) Announce(ctx context.Context, signedPayload []byte) error {
	ret := _mock.Called(ctx, signedPayload)
	return ret.Error(0)
}
