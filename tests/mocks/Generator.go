package mocks

import (
	"github.com/stretchr/testify/mock"
)

type MockGenerator struct {
	mock.Mock
}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

func (_mock *MockGenerator) Compose(selection []int) (string, int64, error) {
	ret := _mock.Called(selection)
	return ret.String(0), ret.Get(1).(int64), ret.Error(2)
}
