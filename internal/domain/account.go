package domain

import "time"

type AccountStatus string

const (
	AccountStatusPending  AccountStatus = "PENDING"
	AccountStatusApproved AccountStatus = "APPROVED"
	AccountStatusRejected AccountStatus = "REJECTED"
)

type AccountRole string

const (
	AccountRoleMember AccountRole = "MEMBER"
	AccountRoleAdmin  AccountRole = "ADMIN"
)

type VerificationStatus string

const (
	VerificationStatusVerified      VerificationStatus = "VERIFIED"
	VerificationStatusPendingReview VerificationStatus = "PENDING_REVIEW"
)

// Account is one registrant. MemberID is unique among non-rejected accounts;
// a pending or rejected account may be overwritten in place by a
// re-application carrying the same member ID or email.
type Account struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Email              string             `json:"email"`
	Phone              string             `json:"phone"` // canonical 10 digits, may be empty
	MemberID           string             `json:"member_id"`
	PasswordHash       string             `json:"-"`
	Role               AccountRole        `json:"role"`
	Status             AccountStatus      `json:"status"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	VerificationNote   string             `json:"verification_note,omitempty"`
	RejectionReason    string             `json:"rejection_reason,omitempty"`
	ReappliedAt        *time.Time         `json:"reapplied_at,omitempty"`
	CreatedOn          time.Time          `json:"created_on"`
	UpdatedOn          time.Time          `json:"updated_on"`
}
