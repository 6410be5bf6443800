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

// accountDoc is the Firestore document shape. Accounts are written only by
// this service, so unlike registry slots they decode directly.
type accountDoc struct {
	Name               string     `firestore:"name"`
	Email              string     `firestore:"email"`
	Phone              string     `firestore:"phone"`
	MemberID           string     `firestore:"member_id"`
	PasswordHash       string     `firestore:"password_hash"`
	Role               string     `firestore:"role"`
	Status             string     `firestore:"status"`
	VerificationStatus string     `firestore:"verification_status"`
	VerificationNote   string     `firestore:"verification_note"`
	RejectionReason    string     `firestore:"rejection_reason"`
	ReappliedAt        *time.Time `firestore:"reapplied_at"`
	CreatedOn          time.Time  `firestore:"created_on"`
	UpdatedOn          time.Time  `firestore:"updated_on"`
}

type accountRepository struct {
	client *firestore.Client
}

func NewAccountRepository(client *firestore.Client) repository.AccountRepository {
	return &accountRepository{client: client}
}

func (r *accountRepository) Create(ctx context.Context, a *domain.Account) error {
	// Firestore has no unique indexes; email and member-ID uniqueness is
	// pre-checked by the service and re-checked here before the write.
	for _, probe := range []struct{ field, value string }{
		{"email", a.Email},
		{"member_id", a.MemberID},
	} {
		if probe.value == "" {
			continue
		}
		existing, err := r.findOne(ctx, probe.field, probe.value)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: %s", repository.ErrDuplicateKey, probe.field)
		}
	}

	now := time.Now()
	a.CreatedOn = now
	a.UpdatedOn = now
	_, err := r.client.Collection(accountsCollection).Doc(a.ID).Create(ctx, toDoc(a))
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	doc, err := r.client.Collection(accountsCollection).Doc(id).Get(ctx)
	if err != nil {
		if doc != nil && !doc.Exists() {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch account %s: %w", id, err)
	}
	return fromDoc(doc)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, "email", email)
}

func (r *accountRepository) GetByMemberID(ctx context.Context, memberID string) (*domain.Account, error) {
	return r.findOne(ctx, "member_id", memberID)
}

func (r *accountRepository) Update(ctx context.Context, a *domain.Account) error {
	a.UpdatedOn = time.Now()
	_, err := r.client.Collection(accountsCollection).Doc(a.ID).Set(ctx, toDoc(a))
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", a.ID, err)
	}
	return nil
}

func (r *accountRepository) Exists(ctx context.Context, id string) (bool, error) {
	doc, err := r.client.Collection(accountsCollection).Doc(id).Get(ctx)
	if err != nil {
		if doc != nil && !doc.Exists() {
			return false, nil
		}
		return false, fmt.Errorf("failed to check account %s: %w", id, err)
	}
	return true, nil
}

func (r *accountRepository) ListByStatus(ctx context.Context, status domain.AccountStatus) ([]domain.Account, error) {
	iter := r.client.Collection(accountsCollection).Where("status", "==", string(status)).Documents(ctx)
	defer iter.Stop()

	var accounts []domain.Account
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list accounts: %w", err)
		}
		a, err := fromDoc(doc)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, nil
}

func (r *accountRepository) findOne(ctx context.Context, field, value string) (*domain.Account, error) {
	iter := r.client.Collection(accountsCollection).Where(field, "==", value).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by %s: %w", field, err)
	}
	return fromDoc(doc)
}

func toDoc(a *domain.Account) *accountDoc {
	return &accountDoc{
		Name:               a.Name,
		Email:              a.Email,
		Phone:              a.Phone,
		MemberID:           a.MemberID,
		PasswordHash:       a.PasswordHash,
		Role:               string(a.Role),
		Status:             string(a.Status),
		VerificationStatus: string(a.VerificationStatus),
		VerificationNote:   a.VerificationNote,
		RejectionReason:    a.RejectionReason,
		ReappliedAt:        a.ReappliedAt,
		CreatedOn:          a.CreatedOn,
		UpdatedOn:          a.UpdatedOn,
	}
}

func fromDoc(doc *firestore.DocumentSnapshot) (*domain.Account, error) {
	var d accountDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, fmt.Errorf("failed to decode account %s: %w", doc.Ref.ID, err)
	}
	return &domain.Account{
		ID:                 doc.Ref.ID,
		Name:               d.Name,
		Email:              d.Email,
		Phone:              d.Phone,
		MemberID:           d.MemberID,
		PasswordHash:       d.PasswordHash,
		Role:               domain.AccountRole(d.Role),
		Status:             domain.AccountStatus(d.Status),
		VerificationStatus: domain.VerificationStatus(d.VerificationStatus),
		VerificationNote:   d.VerificationNote,
		RejectionReason:    d.RejectionReason,
		ReappliedAt:        d.ReappliedAt,
		CreatedOn:          d.CreatedOn,
		UpdatedOn:          d.UpdatedOn,
	}, nil
}
