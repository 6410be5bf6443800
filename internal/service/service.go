package service

import (
	"context"

	"membership-backend/internal/domain"
)

type SignupRequest struct {
	Name     string
	Email    string
	Phone    string
	MemberID string
	Password string
}

type AuthService interface {
	Signup(ctx context.Context, req SignupRequest) (*domain.Account, error)
	// Login returns the account plus access and refresh tokens. Pending and
	// rejected accounts are refused with a state-specific error.
	Login(ctx context.Context, email, password string) (*domain.Account, string, string, error)
}

type AdminService interface {
	ListPendingAccounts(ctx context.Context) ([]domain.Account, error)
	ApproveAccount(ctx context.Context, accountID string) (*domain.Account, error)
	RejectAccount(ctx context.Context, accountID, reason string) (*domain.Account, error)
}

type EmailService interface {
	SendAccountStatusNotification(ctx context.Context, email, name, status, reason string) error
	SendAdminReviewAlert(ctx context.Context, adminEmail, applicantName, memberID, reason string) error
}
