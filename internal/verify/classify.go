package verify

import (
	"strings"

	"membership-backend/internal/domain"
)

type MatchLevel int

const (
	MatchNone MatchLevel = iota
	MatchPartial
	MatchExact
)

func (m MatchLevel) String() string {
	switch m {
	case MatchExact:
		return "EXACT"
	case MatchPartial:
		return "PARTIAL"
	default:
		return "NONE"
	}
}

// Classify compares a signup's canonical identifiers against a registry
// slot. MatchExact requires both member ID and phone to be present and
// equal on both sides; a lone matching field — including the case where the
// registry record simply lacks the other field — is at best MatchPartial
// and never auto-approves.
func Classify(memberID, phone string, slot *domain.AuthorizationSlot) MatchLevel {
	if slot == nil {
		return MatchNone
	}
	idMatch, phoneMatch := fieldMatches(memberID, phone, slot)
	switch {
	case idMatch && phoneMatch:
		return MatchExact
	case idMatch || phoneMatch:
		return MatchPartial
	default:
		return MatchNone
	}
}

// MatchDetail spells out the per-field comparison for the admin review
// queue.
func MatchDetail(memberID, phone string, slot *domain.AuthorizationSlot) string {
	if slot == nil {
		return "no registry record"
	}
	idMatch, phoneMatch := fieldMatches(memberID, phone, slot)

	var parts []string
	switch {
	case slotMemberID(slot) == "":
		parts = append(parts, "member id not on file")
	case idMatch:
		parts = append(parts, "member id matched")
	default:
		parts = append(parts, "member id mismatched")
	}
	switch {
	case slotPhone(slot) == "":
		parts = append(parts, "phone not on file")
	case phoneMatch:
		parts = append(parts, "phone matched")
	default:
		parts = append(parts, "phone mismatched")
	}
	return strings.Join(parts, ", ")
}

func fieldMatches(memberID, phone string, slot *domain.AuthorizationSlot) (idMatch, phoneMatch bool) {
	sid := slotMemberID(slot)
	sphone := slotPhone(slot)
	idMatch = memberID != "" && sid != "" && memberID == sid
	phoneMatch = phone != "" && sphone != "" && phone == sphone
	return idMatch, phoneMatch
}

func slotMemberID(slot *domain.AuthorizationSlot) string {
	if slot.MemberIDNorm != "" {
		return slot.MemberIDNorm
	}
	return NormalizeMemberID(slot.MemberID)
}

// Slot-side phones get the lenient normalizer: legacy registry rows carry
// country-code noise that strict validation would reject.
func slotPhone(slot *domain.AuthorizationSlot) string {
	if slot.PhoneNorm != "" {
		return slot.PhoneNorm
	}
	return NormalizePhoneLenient(slot.Phone)
}
