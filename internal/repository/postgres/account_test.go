package postgres

import (
	"context"
	"testing"
	"time"

	"membership-backend/internal/domain"
	"membership-backend/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var accountTestColumns = []string{
	"id", "name", "email", "phone", "member_id", "password_hash", "role", "status",
	"verification_status", "verification_note", "rejection_reason",
	"reapplied_at", "created_on", "updated_on",
}

func accountRow(a *domain.Account) *sqlmock.Rows {
	return sqlmock.NewRows(accountTestColumns).AddRow(
		a.ID, a.Name, a.Email, a.Phone, a.MemberID, a.PasswordHash, a.Role, a.Status,
		a.VerificationStatus, a.VerificationNote, a.RejectionReason,
		timeValue(a.ReappliedAt), a.CreatedOn, a.UpdatedOn,
	)
}

// timeValue unwraps optional timestamps into something the sql layer can
// convert.
func timeValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func testAccount() *domain.Account {
	return &domain.Account{
		ID:                 "acc-1",
		Name:               "Asha Rao",
		Email:              "asha@example.com",
		Phone:              "9876543210",
		MemberID:           "M001",
		PasswordHash:       "hash",
		Role:               domain.AccountRoleMember,
		Status:             domain.AccountStatusPending,
		VerificationStatus: domain.VerificationStatusPendingReview,
		CreatedOn:          time.Now(),
		UpdatedOn:          time.Now(),
	}
}

func TestAccountRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewAccountRepository(db)

	mock.ExpectExec("INSERT INTO accounts").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Create(context.Background(), testAccount())

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Create_DuplicateKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewAccountRepository(db)

	mock.ExpectExec("INSERT INTO accounts").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "accounts_email_key"})

	err = repo.Create(context.Background(), testAccount())

	require.ErrorIs(t, err, repository.ErrDuplicateKey)
	assert.Contains(t, err.Error(), "accounts_email_key")
}

func TestAccountRepository_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewAccountRepository(db)

	want := testAccount()
	mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE LOWER\(email\) = LOWER\(\$1\)`).
		WithArgs("asha@example.com").
		WillReturnRows(accountRow(want))

	got, err := repo.GetByEmail(context.Background(), "asha@example.com")

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.MemberID, got.MemberID)
	assert.Nil(t, got.ReappliedAt)
}

func TestAccountRepository_GetByEmail_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewAccountRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE LOWER\(email\) = LOWER\(\$1\)`).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(accountTestColumns))

	got, err := repo.GetByEmail(context.Background(), "nobody@example.com")

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAccountRepository_GetByID_ReappliedAt(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewAccountRepository(db)

	want := testAccount()
	reapplied := time.Now().Add(-time.Hour)
	want.ReappliedAt = &reapplied
	mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE id = \$1`).
		WithArgs("acc-1").
		WillReturnRows(accountRow(want))

	got, err := repo.GetByID(context.Background(), "acc-1")

	require.NoError(t, err)
	require.NotNil(t, got.ReappliedAt)
	assert.WithinDuration(t, reapplied, *got.ReappliedAt, time.Second)
}

func TestAccountRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewAccountRepository(db)

	mock.ExpectExec("UPDATE accounts SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Update(context.Background(), testAccount())

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Exists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewAccountRepository(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("acc-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), "acc-1")

	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAccountRepository_ListByStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewAccountRepository(db)

	first := testAccount()
	second := testAccount()
	second.ID = "acc-2"
	second.Email = "ravi@example.com"
	rows := accountRow(first).AddRow(
		second.ID, second.Name, second.Email, second.Phone, second.MemberID, second.PasswordHash,
		second.Role, second.Status, second.VerificationStatus, second.VerificationNote,
		second.RejectionReason, timeValue(second.ReappliedAt), second.CreatedOn, second.UpdatedOn,
	)
	mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE status = \$1 ORDER BY created_on`).
		WithArgs(domain.AccountStatusPending).
		WillReturnRows(rows)

	got, err := repo.ListByStatus(context.Background(), domain.AccountStatusPending)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "acc-1", got[0].ID)
	assert.Equal(t, "acc-2", got[1].ID)
}
