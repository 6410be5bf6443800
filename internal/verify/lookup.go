package verify

import (
	"context"
	"fmt"
	"strconv"

	"membership-backend/internal/domain"
	"membership-backend/internal/repository"
)

// lookupStrategy is one probe against the registry. The fallback order is
// data, not branching: direct key fetch first (handled separately), then a
// string-typed field match, a numeric-typed field match, and finally the
// normalized shadow field if the import wrote one.
type lookupStrategy struct {
	field   string
	numeric bool
}

var memberIDStrategies = []lookupStrategy{
	{field: repository.SlotFieldMemberID},
	{field: repository.SlotFieldMemberID, numeric: true},
	{field: repository.SlotFieldMemberIDNorm},
}

var phoneStrategies = []lookupStrategy{
	{field: repository.SlotFieldPhone},
	{field: repository.SlotFieldPhone, numeric: true},
	{field: repository.SlotFieldPhoneNorm},
}

// RegistryLookup finds at most one authorization slot for a normalized
// identifier. Reads are liberal because imported spreadsheets are not:
// cells end up as strings or numbers at random, and only newer imports
// carry normalized shadow fields.
type RegistryLookup struct {
	slots repository.AuthSlotRepository
}

func NewRegistryLookup(slots repository.AuthSlotRepository) *RegistryLookup {
	return &RegistryLookup{slots: slots}
}

func (l *RegistryLookup) FindByMemberID(ctx context.Context, memberID string) (*domain.AuthorizationSlot, error) {
	return l.find(ctx, memberID, memberIDStrategies)
}

func (l *RegistryLookup) FindByPhone(ctx context.Context, phone string) (*domain.AuthorizationSlot, error) {
	return l.find(ctx, phone, phoneStrategies)
}

func (l *RegistryLookup) find(ctx context.Context, value string, strategies []lookupStrategy) (*domain.AuthorizationSlot, error) {
	if value == "" {
		return nil, nil
	}
	slot, err := l.slots.GetByKey(ctx, value)
	if err != nil {
		return nil, fmt.Errorf("registry key lookup failed: %w", err)
	}
	if slot != nil {
		return slot, nil
	}
	for _, st := range strategies {
		var probe any = value
		if st.numeric {
			n, ok := asNumber(value)
			if !ok {
				continue
			}
			probe = n
		}
		slot, err := l.slots.FindOneByField(ctx, st.field, probe)
		if err != nil {
			return nil, fmt.Errorf("registry field lookup failed (%s): %w", st.field, err)
		}
		if slot != nil {
			return slot, nil
		}
	}
	return nil, nil
}

// asNumber converts all-digit identifiers for probing fields an import
// stored as numbers instead of strings.
func asNumber(s string) (int64, bool) {
	if !IsPlausibleNumber(s) {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
