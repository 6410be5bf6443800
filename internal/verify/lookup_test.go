package verify

import (
	"context"
	"errors"
	"testing"

	"membership-backend/internal/domain"
	"membership-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookup_KeyHitShortCircuits(t *testing.T) {
	slots := new(MockSlotRepo)
	slot := &domain.AuthorizationSlot{ID: "M001", MemberID: "M001"}
	slots.On("GetByKey", ctx(), "M001").Return(slot, nil).Once()

	got, err := NewRegistryLookup(slots).FindByMemberID(ctx(), "M001")

	require.NoError(t, err)
	assert.Equal(t, slot, got)
	slots.AssertExpectations(t)
	slots.AssertNotCalled(t, "FindOneByField")
}

func TestRegistryLookup_FallsBackToStringField(t *testing.T) {
	slots := new(MockSlotRepo)
	slot := &domain.AuthorizationSlot{ID: "row-7", MemberID: "AB-12"}
	slots.On("GetByKey", ctx(), "AB-12").Return(nil, nil).Once()
	slots.On("FindOneByField", ctx(), repository.SlotFieldMemberID, "AB-12").Return(slot, nil).Once()

	got, err := NewRegistryLookup(slots).FindByMemberID(ctx(), "AB-12")

	require.NoError(t, err)
	assert.Equal(t, slot, got)
	slots.AssertExpectations(t)
}

func TestRegistryLookup_NumericProbeForAllDigitIDs(t *testing.T) {
	slots := new(MockSlotRepo)
	slot := &domain.AuthorizationSlot{ID: "row-3", MemberID: "1234"}
	slots.On("GetByKey", ctx(), "1234").Return(nil, nil).Once()
	slots.On("FindOneByField", ctx(), repository.SlotFieldMemberID, "1234").Return(nil, nil).Once()
	slots.On("FindOneByField", ctx(), repository.SlotFieldMemberID, int64(1234)).Return(slot, nil).Once()

	got, err := NewRegistryLookup(slots).FindByMemberID(ctx(), "1234")

	require.NoError(t, err)
	assert.Equal(t, slot, got)
	slots.AssertExpectations(t)
}

func TestRegistryLookup_NumericProbeSkippedForOpaqueIDs(t *testing.T) {
	slots := new(MockSlotRepo)
	shadow := &domain.AuthorizationSlot{ID: "row-9", MemberIDNorm: "AB-12"}
	slots.On("GetByKey", ctx(), "AB-12").Return(nil, nil).Once()
	slots.On("FindOneByField", ctx(), repository.SlotFieldMemberID, "AB-12").Return(nil, nil).Once()
	slots.On("FindOneByField", ctx(), repository.SlotFieldMemberIDNorm, "AB-12").Return(shadow, nil).Once()

	got, err := NewRegistryLookup(slots).FindByMemberID(ctx(), "AB-12")

	require.NoError(t, err)
	assert.Equal(t, shadow, got)
	slots.AssertExpectations(t)
	slots.AssertNotCalled(t, "FindOneByField", ctx(), repository.SlotFieldMemberID, int64(0))
}

func TestRegistryLookup_PhoneStrategies(t *testing.T) {
	slots := new(MockSlotRepo)
	slot := &domain.AuthorizationSlot{ID: "row-2", Phone: "9876543210"}
	slots.On("GetByKey", ctx(), "9876543210").Return(nil, nil).Once()
	slots.On("FindOneByField", ctx(), repository.SlotFieldPhone, "9876543210").Return(nil, nil).Once()
	slots.On("FindOneByField", ctx(), repository.SlotFieldPhone, int64(9876543210)).Return(nil, nil).Once()
	slots.On("FindOneByField", ctx(), repository.SlotFieldPhoneNorm, "9876543210").Return(slot, nil).Once()

	got, err := NewRegistryLookup(slots).FindByPhone(ctx(), "9876543210")

	require.NoError(t, err)
	assert.Equal(t, slot, got)
	slots.AssertExpectations(t)
}

func TestRegistryLookup_NotFound(t *testing.T) {
	slots := new(MockSlotRepo)
	slots.On("GetByKey", ctx(), "9876543210").Return(nil, nil).Once()
	slots.On("FindOneByField", ctx(), repository.SlotFieldPhone, "9876543210").Return(nil, nil).Once()
	slots.On("FindOneByField", ctx(), repository.SlotFieldPhone, int64(9876543210)).Return(nil, nil).Once()
	slots.On("FindOneByField", ctx(), repository.SlotFieldPhoneNorm, "9876543210").Return(nil, nil).Once()

	got, err := NewRegistryLookup(slots).FindByPhone(ctx(), "9876543210")

	require.NoError(t, err)
	assert.Nil(t, got)
	slots.AssertExpectations(t)
}

func TestRegistryLookup_EmptyValueSkipsStorage(t *testing.T) {
	slots := new(MockSlotRepo)

	got, err := NewRegistryLookup(slots).FindByMemberID(ctx(), "")

	require.NoError(t, err)
	assert.Nil(t, got)
	slots.AssertNotCalled(t, "GetByKey")
}

func TestRegistryLookup_PropagatesStorageError(t *testing.T) {
	slots := new(MockSlotRepo)
	slots.On("GetByKey", ctx(), "M001").Return(nil, errors.New("connection reset")).Once()

	got, err := NewRegistryLookup(slots).FindByMemberID(ctx(), "M001")

	require.Error(t, err)
	assert.Nil(t, got)
}

func ctx() context.Context {
	return context.Background()
}
