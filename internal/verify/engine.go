package verify

import (
	"context"
	"errors"
	"strings"
	"time"

	"membership-backend/internal/domain"
	"membership-backend/internal/logger"
	"membership-backend/internal/repository"
)

var (
	// ErrInvalidPhone means the signup phone could not be canonicalized.
	// Surfaced to the caller; never converted to a pending account.
	ErrInvalidPhone = errors.New("invalid phone number")
	// ErrDuplicateActiveAccount means the matched authorization is already
	// claimed by a live account.
	ErrDuplicateActiveAccount = errors.New("authorization already claimed by an active account")
)

// Review reasons carried on pending decisions.
const (
	ReasonPhoneMissing      = "phone not provided"
	ReasonNotInRegistry     = "not in authorized registry"
	ReasonVerificationError = "verification error"
	ReasonSlotClaimed       = "authorization already claimed"
)

// Decision is data only. The caller writes the account and, on Verified,
// claims the slot; the engine's only persistent write is the best-effort
// stale-lock reset inside ResolveLock.
type Decision struct {
	Verified           bool
	AccountStatus      domain.AccountStatus
	VerificationStatus domain.VerificationStatus
	Reason             string
	Slot               *domain.AuthorizationSlot
}

// Engine reconciles a signup's identifiers against the authorized-member
// registry and decides auto-approve, pending review, or duplicate.
type Engine struct {
	lookup  *RegistryLookup
	arbiter *LockArbiter
	slots   repository.AuthSlotRepository
	now     func() time.Time
}

func NewEngine(slots repository.AuthSlotRepository, accounts AccountChecker) *Engine {
	return &Engine{
		lookup:  NewRegistryLookup(slots),
		arbiter: NewLockArbiter(slots, accounts),
		slots:   slots,
		now:     time.Now,
	}
}

// Decide runs the verification decision for raw signup input.
//
// Phone is mandatory for auto-approval: a missing phone is an immediate
// pending decision, a malformed one an ErrInvalidPhone. Storage trouble
// fails closed — the decision degrades to pending, never to approved.
func (e *Engine) Decide(ctx context.Context, rawMemberID, rawPhone string) (*Decision, error) {
	memberID := NormalizeMemberID(rawMemberID)

	if strings.TrimSpace(rawPhone) == "" {
		return pendingDecision(ReasonPhoneMissing), nil
	}
	phone, ok := NormalizePhone(rawPhone)
	if !ok {
		return nil, ErrInvalidPhone
	}

	decision, err := e.decide(ctx, memberID, phone)
	if err != nil {
		if errors.Is(err, ErrDuplicateActiveAccount) {
			return nil, err
		}
		logger.Error("verification failed closed", "member_id", memberID, "error", err)
		return pendingDecision(ReasonVerificationError), nil
	}
	return decision, nil
}

func (e *Engine) decide(ctx context.Context, memberID, phone string) (*Decision, error) {
	slot, err := e.lookup.FindByMemberID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		slot, err = e.lookup.FindByPhone(ctx, phone)
		if err != nil {
			return nil, err
		}
	}
	if slot == nil {
		return pendingDecision(ReasonNotInRegistry), nil
	}

	if slot.IsUsed {
		state, err := e.arbiter.ResolveLock(ctx, slot)
		if err != nil {
			return nil, err
		}
		if state == LockLiveClaim {
			if Classify(memberID, phone, slot) != MatchNone {
				return nil, ErrDuplicateActiveAccount
			}
			// A fallback phone hit that is not actually this signup's slot.
			return pendingDecision(ReasonNotInRegistry), nil
		}
		// LockStale: the slot was reset; classify it as unused below.
	}

	if Classify(memberID, phone, slot) == MatchExact {
		return &Decision{
			Verified:           true,
			AccountStatus:      domain.AccountStatusApproved,
			VerificationStatus: domain.VerificationStatusVerified,
			Slot:               slot,
		}, nil
	}
	return pendingDecision(MatchDetail(memberID, phone, slot)), nil
}

// Claim marks the decided slot used by the newly created account. A false
// return means another signup won the race; the caller must re-run Decide
// and must not leave the account approved.
func (e *Engine) Claim(ctx context.Context, slot *domain.AuthorizationSlot, accountID string) (bool, error) {
	return e.slots.Claim(ctx, slot.ID, accountID, e.now())
}

func pendingDecision(reason string) *Decision {
	return &Decision{
		AccountStatus:      domain.AccountStatusPending,
		VerificationStatus: domain.VerificationStatusPendingReview,
		Reason:             reason,
	}
}
