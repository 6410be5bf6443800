package jobs

import (
	"context"

	"membership-backend/internal/logger"
	"membership-backend/internal/verify"
)

// ReleaseStaleSlots scans claimed authorization slots and resets those
// whose claiming account has been deleted. Signup-time arbitration catches
// these lazily; the sweep keeps the registry clean even for slots nobody
// re-applies against.
func (jr *JobRunner) ReleaseStaleSlots() {
	jr.runWithRecovery("ReleaseStaleSlots", jr.releaseStaleSlots)
}

func (jr *JobRunner) releaseStaleSlots() {
	ctx := context.Background()
	arbiter := verify.NewLockArbiter(jr.slots, jr.accounts)

	slots, err := jr.slots.ListUsed(ctx)
	if err != nil {
		logger.Error("Failed to list used slots", "error", err)
		return
	}

	released := 0
	for i := range slots {
		state, err := arbiter.ResolveLock(ctx, &slots[i])
		if err != nil {
			logger.Error("Failed to resolve slot lock", "slot_id", slots[i].ID, "error", err)
			continue
		}
		if state == verify.LockStale {
			released++
		}
	}
	logger.Info("Stale slot sweep finished", "scanned", len(slots), "released", released)
}
