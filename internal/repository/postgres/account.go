package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"membership-backend/internal/domain"
	"membership-backend/internal/repository"

	"github.com/lib/pq"
)

const accountColumns = `id, name, email, phone, member_id, password_hash, role, status,
	       verification_status, COALESCE(verification_note, ''), COALESCE(rejection_reason, ''),
	       reapplied_at, created_on, updated_on`

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (id, name, email, phone, member_id, password_hash, role, status,
	          verification_status, verification_note, rejection_reason, reapplied_at, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	now := time.Now()
	a.CreatedOn = now
	a.UpdatedOn = now
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Name, a.Email, a.Phone, a.MemberID, a.PasswordHash, a.Role, a.Status,
		a.VerificationStatus, a.VerificationNote, a.RejectionReason, a.ReappliedAt, a.CreatedOn, a.UpdatedOn,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", repository.ErrDuplicateKey, pqErr.Constraint)
	}
	return err
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE LOWER(email) = LOWER($1)`
	return r.getOne(ctx, query, email)
}

func (r *accountRepository) GetByMemberID(ctx context.Context, memberID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE member_id = $1 LIMIT 1`
	return r.getOne(ctx, query, memberID)
}

func (r *accountRepository) Update(ctx context.Context, a *domain.Account) error {
	query := `UPDATE accounts SET name=$1, email=$2, phone=$3, member_id=$4, password_hash=$5, role=$6,
	          status=$7, verification_status=$8, verification_note=$9, rejection_reason=$10,
	          reapplied_at=$11, updated_on=$12 WHERE id=$13`
	a.UpdatedOn = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		a.Name, a.Email, a.Phone, a.MemberID, a.PasswordHash, a.Role,
		a.Status, a.VerificationStatus, a.VerificationNote, a.RejectionReason,
		a.ReappliedAt, a.UpdatedOn, a.ID,
	)
	return err
}

func (r *accountRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *accountRepository) ListByStatus(ctx context.Context, status domain.AccountStatus) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE status = $1 ORDER BY created_on`
	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

func (r *accountRepository) getOne(ctx context.Context, query string, arg any) (*domain.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	a := &domain.Account{}
	var reappliedAt sql.NullTime
	err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.Phone, &a.MemberID, &a.PasswordHash, &a.Role, &a.Status,
		&a.VerificationStatus, &a.VerificationNote, &a.RejectionReason,
		&reappliedAt, &a.CreatedOn, &a.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	if reappliedAt.Valid {
		t := reappliedAt.Time
		a.ReappliedAt = &t
	}
	return a, nil
}
