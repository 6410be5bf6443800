package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"membership-backend/internal/domain"
	"membership-backend/internal/logger"
	"membership-backend/internal/repository"
	"membership-backend/internal/security"
	"membership-backend/internal/verify"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountExists      = errors.New("an approved account already exists for this email or member id")
	ErrAccountPending     = errors.New("account is awaiting admin approval")
	ErrAccountRejected    = errors.New("account registration was rejected")
)

type authService struct {
	accounts    repository.AccountRepository
	engine      *verify.Engine
	tokens      security.TokenManager
	emailSvc    EmailService
	adminEmails map[string]bool
	now         func() time.Time
}

// NewAuthService builds the signup/login service. adminEmails is the
// configured allowlist of addresses that are granted the admin role at
// signup and receive review alerts.
func NewAuthService(
	accounts repository.AccountRepository,
	engine *verify.Engine,
	tokens security.TokenManager,
	emailSvc EmailService,
	adminEmails []string,
) AuthService {
	allow := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		allow[strings.ToLower(strings.TrimSpace(e))] = true
	}
	return &authService{
		accounts:    accounts,
		engine:      engine,
		tokens:      tokens,
		emailSvc:    emailSvc,
		adminEmails: allow,
		now:         time.Now,
	}
}

// Signup runs the full account lifecycle entry: verification decision,
// create-or-reapply, and on auto-approval the conditional slot claim.
func (s *authService) Signup(ctx context.Context, req SignupRequest) (*domain.Account, error) {
	logger.EnterMethod("authService.Signup", "email", req.Email, "member_id", req.MemberID)

	email := strings.ToLower(strings.TrimSpace(req.Email))
	memberID := verify.NormalizeMemberID(req.MemberID)

	existing, err := s.findReapplicable(ctx, email, memberID)
	if err != nil {
		return nil, err
	}

	decision, err := s.engine.Decide(ctx, req.MemberID, req.Phone)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	phone, _ := verify.NormalizePhone(req.Phone)

	now := s.now()
	var account *domain.Account
	if existing != nil {
		// Re-application supersedes the old pending/rejected record in
		// place; no duplicate is created.
		account = existing
		account.Name = req.Name
		account.Email = email
		account.Phone = phone
		account.MemberID = memberID
		account.PasswordHash = string(hash)
		account.Status = domain.AccountStatusPending
		account.VerificationStatus = decision.VerificationStatus
		account.VerificationNote = decision.Reason
		account.RejectionReason = ""
		account.ReappliedAt = &now
		if err := s.accounts.Update(ctx, account); err != nil {
			return nil, fmt.Errorf("failed to update re-application: %w", err)
		}
	} else {
		account = &domain.Account{
			ID:                 uuid.NewString(),
			Name:               req.Name,
			Email:              email,
			Phone:              phone,
			MemberID:           memberID,
			PasswordHash:       string(hash),
			Role:               s.roleFor(email),
			Status:             domain.AccountStatusPending,
			VerificationStatus: decision.VerificationStatus,
			VerificationNote:   decision.Reason,
		}
		if err := s.accounts.Create(ctx, account); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return nil, ErrAccountExists
			}
			return nil, fmt.Errorf("failed to create account: %w", err)
		}
	}

	if decision.Verified {
		if err := s.promote(ctx, account, decision); err != nil {
			return nil, err
		}
	} else {
		s.notifyAdmins(ctx, account)
	}

	logger.ExitMethod("authService.Signup", "account_id", account.ID, "status", account.Status)
	return account, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.Account, string, string, error) {
	account, err := s.accounts.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to look up account: %w", err)
	}
	if account == nil {
		return nil, "", "", ErrInvalidCredentials
	}
	switch account.Status {
	case domain.AccountStatusPending:
		return nil, "", "", ErrAccountPending
	case domain.AccountStatusRejected:
		if account.RejectionReason != "" {
			return nil, "", "", fmt.Errorf("%w: %s", ErrAccountRejected, account.RejectionReason)
		}
		return nil, "", "", ErrAccountRejected
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	access, err := s.tokens.GenerateAccessToken(account.ID, account.Email, string(account.Role))
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(account.ID, account.Email)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return account, access, refresh, nil
}

// findReapplicable returns an existing pending/rejected account carrying
// the same email or member ID. An approved collision is a hard duplicate.
func (s *authService) findReapplicable(ctx context.Context, email, memberID string) (*domain.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing accounts: %w", err)
	}
	if account == nil && memberID != "" {
		account, err = s.accounts.GetByMemberID(ctx, memberID)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing accounts: %w", err)
		}
	}
	if account == nil {
		return nil, nil
	}
	if account.Status == domain.AccountStatusApproved {
		return nil, ErrAccountExists
	}
	return account, nil
}

// promote attempts the conditional slot claim for a verified decision. The
// account was written as pending; it reaches approved only after the claim
// succeeds, so a lost race can never leave an approved account holding a
// slot it does not own.
func (s *authService) promote(ctx context.Context, account *domain.Account, decision *verify.Decision) error {
	claimed, err := s.engine.Claim(ctx, decision.Slot, account.ID)
	if err != nil {
		logger.Error("slot claim failed", "slot_id", decision.Slot.ID, "account_id", account.ID, "error", err)
		claimed = false
	}

	if !claimed {
		account.Status = domain.AccountStatusPending
		account.VerificationStatus = domain.VerificationStatusPendingReview
		account.VerificationNote = verify.ReasonSlotClaimed
		// Re-run the decision as if a live claim had been observed. One
		// cycle only: even a now-verified redecision does not retry the
		// claim.
		redecided, derr := s.engine.Decide(ctx, account.MemberID, account.Phone)
		if derr == nil && !redecided.Verified {
			account.VerificationNote = redecided.Reason
		}
		if err := s.accounts.Update(ctx, account); err != nil {
			return fmt.Errorf("failed to update account after claim race: %w", err)
		}
		s.notifyAdmins(ctx, account)
		return nil
	}

	account.Status = domain.AccountStatusApproved
	account.VerificationStatus = domain.VerificationStatusVerified
	account.VerificationNote = ""
	if err := s.accounts.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to approve account: %w", err)
	}
	if err := s.emailSvc.SendAccountStatusNotification(ctx, account.Email, account.Name, string(account.Status), ""); err != nil {
		logger.Warn("approval notification failed", "email", account.Email, "error", err)
	}
	return nil
}

func (s *authService) roleFor(email string) domain.AccountRole {
	if s.adminEmails[email] {
		return domain.AccountRoleAdmin
	}
	return domain.AccountRoleMember
}

func (s *authService) notifyAdmins(ctx context.Context, account *domain.Account) {
	for adminEmail := range s.adminEmails {
		if err := s.emailSvc.SendAdminReviewAlert(ctx, adminEmail, account.Name, account.MemberID, account.VerificationNote); err != nil {
			logger.Warn("admin review alert failed", "admin_email", adminEmail, "error", err)
		}
	}
}
