package verify

import (
	"context"
	"fmt"

	"membership-backend/internal/domain"
	"membership-backend/internal/logger"
	"membership-backend/internal/repository"
)

type LockState int

const (
	LockUnused LockState = iota
	LockLiveClaim
	LockStale
)

func (s LockState) String() string {
	switch s {
	case LockLiveClaim:
		return "LIVE_CLAIM"
	case LockStale:
		return "STALE"
	default:
		return "UNUSED"
	}
}

// AccountChecker reports whether the account referenced by a claim still
// exists. Satisfied by repository.AccountRepository.
type AccountChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// LockArbiter decides whether a slot's used flag reflects a live claim or a
// lock orphaned by a deleted account. Admins delete accounts without any
// registry cleanup; without this, a deleted user's slot stays unclaimable
// forever.
type LockArbiter struct {
	slots    repository.AuthSlotRepository
	accounts AccountChecker
}

func NewLockArbiter(slots repository.AuthSlotRepository, accounts AccountChecker) *LockArbiter {
	return &LockArbiter{slots: slots, accounts: accounts}
}

// ResolveLock returns the slot's claim state. Stale slots are reset in
// place and the in-memory slot is cleared so the caller can reclassify it
// as unused. The reset is best effort: if it fails, the verdict downgrades
// to LockLiveClaim so the signup fails safe instead of double-claiming.
func (a *LockArbiter) ResolveLock(ctx context.Context, slot *domain.AuthorizationSlot) (LockState, error) {
	if slot == nil || !slot.IsUsed {
		return LockUnused, nil
	}
	if slot.UsedByAccountID != "" {
		exists, err := a.accounts.Exists(ctx, slot.UsedByAccountID)
		if err != nil {
			return LockLiveClaim, fmt.Errorf("failed to check claiming account: %w", err)
		}
		if exists {
			return LockLiveClaim, nil
		}
	}
	if err := a.slots.Reset(ctx, slot.ID); err != nil {
		logger.Warn("stale slot reset failed", "slot_id", slot.ID, "error", err)
		return LockLiveClaim, nil
	}
	logger.Info("stale authorization slot reset", "slot_id", slot.ID, "orphaned_account_id", slot.UsedByAccountID)
	slot.IsUsed = false
	slot.UsedByAccountID = ""
	slot.UsedAt = nil
	return LockStale, nil
}
