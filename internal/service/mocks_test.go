package service

import (
	"context"
	"time"

	"membership-backend/internal/domain"
	"membership-backend/internal/security"

	"github.com/stretchr/testify/mock"
)

type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepo) GetByMemberID(ctx context.Context, memberID string) (*domain.Account, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepo) Update(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepo) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepo) ListByStatus(ctx context.Context, status domain.AccountStatus) ([]domain.Account, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

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

type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) GenerateAccessToken(accountID, email, role string) (string, error) {
	args := m.Called(accountID, email, role)
	return args.String(0), args.Error(1)
}

func (m *MockTokenManager) GenerateRefreshToken(accountID, email string) (string, error) {
	args := m.Called(accountID, email)
	return args.String(0), args.Error(1)
}

func (m *MockTokenManager) ValidateToken(tokenString string) (*security.UserClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.UserClaims), args.Error(1)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendAccountStatusNotification(ctx context.Context, email, name, status, reason string) error {
	args := m.Called(ctx, email, name, status, reason)
	return args.Error(0)
}

func (m *MockEmailService) SendAdminReviewAlert(ctx context.Context, adminEmail, applicantName, memberID, reason string) error {
	args := m.Called(ctx, adminEmail, applicantName, memberID, reason)
	return args.Error(0)
}
