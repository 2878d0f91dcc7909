package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"comesapi/internal/ai"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, model string, cfg ai.GenerationConfig, parts ...string) (string, error) {
	callArgs := []interface{}{ctx, model, cfg}
	for _, p := range parts {
		callArgs = append(callArgs, p)
	}
	args := m.Called(callArgs...)
	return args.String(0), args.Error(1)
}
