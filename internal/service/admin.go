package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"membership-backend/internal/domain"
	"membership-backend/internal/logger"
	"membership-backend/internal/repository"
	"membership-backend/internal/verify"
)

var ErrAccountNotFound = errors.New("account not found")

type adminService struct {
	accounts repository.AccountRepository
	slots    repository.AuthSlotRepository
	lookup   *verify.RegistryLookup
	emailSvc EmailService
	now      func() time.Time
}

func NewAdminService(
	accounts repository.AccountRepository,
	slots repository.AuthSlotRepository,
	emailSvc EmailService,
) AdminService {
	return &adminService{
		accounts: accounts,
		slots:    slots,
		lookup:   verify.NewRegistryLookup(slots),
		emailSvc: emailSvc,
		now:      time.Now,
	}
}

func (s *adminService) ListPendingAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.accounts.ListByStatus(ctx, domain.AccountStatusPending)
}

// ApproveAccount moves a pending account to approved and, if the registry
// has a matching unclaimed slot, claims it. The claim is best effort here:
// a manual approval stands even when no slot can be secured.
func (s *adminService) ApproveAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	account.Status = domain.AccountStatusApproved
	account.RejectionReason = ""
	if s.claimSlotFor(ctx, account) {
		account.VerificationStatus = domain.VerificationStatusVerified
		account.VerificationNote = ""
	}
	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to approve account: %w", err)
	}

	if err := s.emailSvc.SendAccountStatusNotification(ctx, account.Email, account.Name, string(account.Status), ""); err != nil {
		logger.Warn("approval notification failed", "email", account.Email, "error", err)
	}
	return account, nil
}

// RejectAccount moves a pending account to rejected. A rejected account
// holds no registry claim, so any slot this account had claimed is
// released.
func (s *adminService) RejectAccount(ctx context.Context, accountID, reason string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	account.Status = domain.AccountStatusRejected
	account.RejectionReason = reason
	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to reject account: %w", err)
	}

	if slot, err := s.slots.FindClaimedBy(ctx, account.ID); err != nil {
		logger.Warn("claimed slot lookup failed on rejection", "account_id", account.ID, "error", err)
	} else if slot != nil {
		if err := s.slots.Reset(ctx, slot.ID); err != nil {
			logger.Warn("slot release failed on rejection", "slot_id", slot.ID, "error", err)
		}
	}

	if err := s.emailSvc.SendAccountStatusNotification(ctx, account.Email, account.Name, string(account.Status), reason); err != nil {
		logger.Warn("rejection notification failed", "email", account.Email, "error", err)
	}
	return account, nil
}

func (s *adminService) claimSlotFor(ctx context.Context, account *domain.Account) bool {
	slot, err := s.lookup.FindByMemberID(ctx, account.MemberID)
	if err == nil && slot == nil {
		slot, err = s.lookup.FindByPhone(ctx, account.Phone)
	}
	if err != nil {
		logger.Warn("registry lookup failed during approval", "account_id", account.ID, "error", err)
		return false
	}
	if slot == nil {
		return false
	}
	if slot.IsUsed {
		return slot.UsedByAccountID == account.ID
	}
	claimed, err := s.slots.Claim(ctx, slot.ID, account.ID, s.now())
	if err != nil {
		logger.Warn("slot claim failed during approval", "slot_id", slot.ID, "error", err)
		return false
	}
	return claimed
}
