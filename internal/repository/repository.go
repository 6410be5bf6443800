package repository

import (
	"context"
	"errors"
	"time"

	"membership-backend/internal/domain"
)

// ErrDuplicateKey is returned when a create collides with a unique index
// (email or member ID).
var ErrDuplicateKey = errors.New("duplicate key")

// Slot lookup fields. Imported registries are inconsistent about which of
// these carries the identifier and whether a normalized shadow copy exists,
// so lookups probe several in order.
const (
	SlotFieldMemberID     = "member_id"
	SlotFieldMemberIDNorm = "member_id_norm"
	SlotFieldPhone        = "phone"
	SlotFieldPhoneNorm    = "phone_norm"
)

// Lookup methods return (nil, nil) when nothing matches.

type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByMemberID(ctx context.Context, memberID string) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
	Exists(ctx context.Context, id string) (bool, error)
	ListByStatus(ctx context.Context, status domain.AccountStatus) ([]domain.Account, error)
}

type AuthSlotRepository interface {
	GetByKey(ctx context.Context, key string) (*domain.AuthorizationSlot, error)
	FindOneByField(ctx context.Context, field string, value any) (*domain.AuthorizationSlot, error)
	// Claim marks the slot used by the given account. It succeeds only when
	// the slot is unused at write time; a false return means the guard
	// failed and the caller must re-evaluate.
	Claim(ctx context.Context, key, accountID string, usedAt time.Time) (bool, error)
	// Reset clears the used flag and owner. Idempotent.
	Reset(ctx context.Context, key string) error
	FindClaimedBy(ctx context.Context, accountID string) (*domain.AuthorizationSlot, error)
	ListUsed(ctx context.Context) ([]domain.AuthorizationSlot, error)
}
