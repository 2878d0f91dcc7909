package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"comesapi/internal/storage"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Put(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) (storage.ObjectInfo, error) {
	args := m.Called(ctx, key, r, opt)
	return args.Get(0).(storage.ObjectInfo), args.Error(1)
}

func (m *MockStorage) Fetch(ctx context.Context, key string) (string, func(), error) {
	args := m.Called(ctx, key)
	cleanup, _ := args.Get(1).(func())
	if cleanup == nil {
		cleanup = func() {}
	}
	return args.String(0), cleanup, args.Error(2)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
