package verify

import (
	"context"
	"time"

	"membership-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockSlotRepo struct {
	mock.Mock
}

func (m *MockSlotRepo) GetByKey(ctx context.Context, key string) (*domain.AuthorizationSlot, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthorizationSlot), args.Error(1)
}

func (m *MockSlotRepo) FindOneByField(ctx context.Context, field string, value any) (*domain.AuthorizationSlot, error) {
	args := m.Called(ctx, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthorizationSlot), args.Error(1)
}

func (m *MockSlotRepo) Claim(ctx context.Context, key, accountID string, usedAt time.Time) (bool, error) {
	args := m.Called(ctx, key, accountID, usedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockSlotRepo) Reset(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockSlotRepo) FindClaimedBy(ctx context.Context, accountID string) (*domain.AuthorizationSlot, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthorizationSlot), args.Error(1)
}

func (m *MockSlotRepo) ListUsed(ctx context.Context) ([]domain.AuthorizationSlot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuthorizationSlot), args.Error(1)
}

type MockAccountChecker struct {
	mock.Mock
}

func (m *MockAccountChecker) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
