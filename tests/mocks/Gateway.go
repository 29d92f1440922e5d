package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/AnthonyLaw/symbol-tomatina-script/ledger"
)

type MockGateway struct {
	mock.Mock
}

func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (_mock *MockGateway) MintMosaic(ctx context.Context, req ledger.MintRequest) (*ledger.MintResult, error) {
	ret := _mock.Called(ctx, req)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(*ledger.MintResult), ret.Error(1)
}

func (_mock *MockGateway) UploadBatch(ctx context.Context, req ledger.UploadBatchRequest) (string, error) {
	ret := _mock.Called(ctx, req)
	return ret.String(0), ret.Error(1)
}

func (_mock *MockGateway) PublishContainer(ctx context.Context, req ledger.ContainerRequest) (string, error) {
	ret := _mock.Called(ctx, req)
	return ret.String(0), ret.Error(1)
}

func (_mock *MockGateway) Settle(ctx context.Context, req ledger.SettlementRequest) (string, error) {
	ret := _mock.Called(ctx, req)
	return ret.String(0), ret.Error(1)
}
