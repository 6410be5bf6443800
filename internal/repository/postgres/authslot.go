package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"membership-backend/internal/domain"
	"membership-backend/internal/logger"
	"membership-backend/internal/repository"
)

const slotColumns = `id, COALESCE(member_id, ''), COALESCE(phone, ''),
	       COALESCE(member_id_norm, ''), COALESCE(phone_norm, ''),
	       is_used, COALESCE(used_by_account_id, ''), used_at`

// Lookup fields are mapped through a whitelist; the field name never
// reaches the SQL text unchecked.
var slotFieldColumns = map[string]string{
	repository.SlotFieldMemberID:     "member_id",
	repository.SlotFieldMemberIDNorm: "member_id_norm",
	repository.SlotFieldPhone:        "phone",
	repository.SlotFieldPhoneNorm:    "phone_norm",
}

type authSlotRepository struct {
	db *sql.DB
}

func NewAuthSlotRepository(db *sql.DB) repository.AuthSlotRepository {
	return &authSlotRepository{db: db}
}

func (r *authSlotRepository) GetByKey(ctx context.Context, key string) (*domain.AuthorizationSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM auth_slots WHERE id = $1`
	return r.getOne(ctx, query, key)
}

func (r *authSlotRepository) FindOneByField(ctx context.Context, field string, value any) (*domain.AuthorizationSlot, error) {
	column, ok := slotFieldColumns[field]
	if !ok {
		return nil, fmt.Errorf("unknown slot lookup field: %s", field)
	}
	// Columns are text; numeric probes compare against their string form.
	query := `SELECT ` + slotColumns + ` FROM auth_slots WHERE ` + column + ` = $1 LIMIT 1`
	return r.getOne(ctx, query, fmt.Sprint(value))
}

func (r *authSlotRepository) Claim(ctx context.Context, key, accountID string, usedAt time.Time) (bool, error) {
	query := `UPDATE auth_slots SET is_used = TRUE, used_by_account_id = $1, used_at = $2
	          WHERE id = $3 AND is_used = FALSE`
	logger.DatabaseCall("UPDATE", "auth_slots claim", "slot_id", key, "account_id", accountID)
	res, err := r.db.ExecContext(ctx, query, accountID, usedAt, key)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "slot_id", key)
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	logger.DatabaseResult("UPDATE", affected, nil, "slot_id", key)
	return affected == 1, nil
}

func (r *authSlotRepository) Reset(ctx context.Context, key string) error {
	query := `UPDATE auth_slots SET is_used = FALSE, used_by_account_id = NULL, used_at = NULL WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, key)
	return err
}

func (r *authSlotRepository) FindClaimedBy(ctx context.Context, accountID string) (*domain.AuthorizationSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM auth_slots WHERE used_by_account_id = $1 LIMIT 1`
	return r.getOne(ctx, query, accountID)
}

func (r *authSlotRepository) ListUsed(ctx context.Context) ([]domain.AuthorizationSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM auth_slots WHERE is_used = TRUE`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []domain.AuthorizationSlot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, *s)
	}
	return slots, rows.Err()
}

func (r *authSlotRepository) getOne(ctx context.Context, query string, arg any) (*domain.AuthorizationSlot, error) {
	s, err := scanSlot(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func scanSlot(row rowScanner) (*domain.AuthorizationSlot, error) {
	s := &domain.AuthorizationSlot{}
	var usedAt sql.NullTime
	err := row.Scan(
		&s.ID, &s.MemberID, &s.Phone, &s.MemberIDNorm, &s.PhoneNorm,
		&s.IsUsed, &s.UsedByAccountID, &usedAt,
	)
	if err != nil {
		return nil, err
	}
	if usedAt.Valid {
		t := usedAt.Time
		s.UsedAt = &t
	}
	return s, nil
}
