package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"membership-backend/internal/domain"
	"membership-backend/internal/repository"
)

type authSlotRepository struct {
	client *firestore.Client
}

func NewAuthSlotRepository(client *firestore.Client) repository.AuthSlotRepository {
	return &authSlotRepository{client: client}
}

func (r *authSlotRepository) GetByKey(ctx context.Context, key string) (*domain.AuthorizationSlot, error) {
	doc, err := r.client.Collection(slotsCollection).Doc(key).Get(ctx)
	if err != nil {
		if doc != nil && !doc.Exists() {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch slot %s: %w", key, err)
	}
	return slotFromDoc(doc), nil
}

func (r *authSlotRepository) FindOneByField(ctx context.Context, field string, value any) (*domain.AuthorizationSlot, error) {
	iter := r.client.Collection(slotsCollection).Where(field, "==", value).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query slots by %s: %w", field, err)
	}
	return slotFromDoc(doc), nil
}

// Claim runs as a transaction: the unused guard is re-checked against the
// current document state, so two racing signups cannot both succeed.
func (r *authSlotRepository) Claim(ctx context.Context, key, accountID string, usedAt time.Time) (bool, error) {
	claimed := false
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		claimed = false
		ref := r.client.Collection(slotsCollection).Doc(key)
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		if asBool(doc.Data()["is_used"]) {
			return nil // guard failed, not an error
		}
		claimed = true
		return tx.Update(ref, []firestore.Update{
			{Path: "is_used", Value: true},
			{Path: "used_by_account_id", Value: accountID},
			{Path: "used_at", Value: usedAt},
		})
	})
	if err != nil {
		return false, fmt.Errorf("slot claim transaction failed: %w", err)
	}
	return claimed, nil
}

func (r *authSlotRepository) Reset(ctx context.Context, key string) error {
	_, err := r.client.Collection(slotsCollection).Doc(key).Update(ctx, []firestore.Update{
		{Path: "is_used", Value: false},
		{Path: "used_by_account_id", Value: firestore.Delete},
		{Path: "used_at", Value: firestore.Delete},
	})
	if err != nil {
		return fmt.Errorf("failed to reset slot %s: %w", key, err)
	}
	return nil
}

func (r *authSlotRepository) FindClaimedBy(ctx context.Context, accountID string) (*domain.AuthorizationSlot, error) {
	return r.FindOneByField(ctx, "used_by_account_id", accountID)
}

func (r *authSlotRepository) ListUsed(ctx context.Context) ([]domain.AuthorizationSlot, error) {
	iter := r.client.Collection(slotsCollection).Where("is_used", "==", true).Documents(ctx)
	defer iter.Stop()

	var slots []domain.AuthorizationSlot
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list used slots: %w", err)
		}
		slots = append(slots, *slotFromDoc(doc))
	}
	return slots, nil
}

func slotFromDoc(doc *firestore.DocumentSnapshot) *domain.AuthorizationSlot {
	data := doc.Data()
	return &domain.AuthorizationSlot{
		ID:              doc.Ref.ID,
		MemberID:        asString(data["member_id"]),
		Phone:           asString(data["phone"]),
		MemberIDNorm:    asString(data["member_id_norm"]),
		PhoneNorm:       asString(data["phone_norm"]),
		IsUsed:          asBool(data["is_used"]),
		UsedByAccountID: asString(data["used_by_account_id"]),
		UsedAt:          asTimePtr(data["used_at"]),
	}
}
