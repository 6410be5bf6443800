package domain

import "time"

// AuthorizationSlot is one pre-imported authorized-member entry. At least
// one of MemberID/Phone is present. The slot's storage key is the canonical
// member ID when the import had one, otherwise assigned at import time.
//
// If IsUsed is set, UsedByAccountID either references a live account or the
// slot is stale and must be reset before it can be claimed again.
type AuthorizationSlot struct {
	ID              string     `json:"id"`
	MemberID        string     `json:"member_id"`
	Phone           string     `json:"phone"`
	MemberIDNorm    string     `json:"member_id_norm"` // shadow copy written by newer imports
	PhoneNorm       string     `json:"phone_norm"`
	IsUsed          bool       `json:"is_used"`
	UsedByAccountID string     `json:"used_by_account_id,omitempty"`
	UsedAt          *time.Time `json:"used_at,omitempty"`
}
