package enums

import "fmt"

// PointsEntryKind maps to the points_entry_kind column of the points ledger.
type PointsEntryKind string

const (
	PointsEntryKindAccrual    PointsEntryKind = "accrual"
	PointsEntryKindRedemption PointsEntryKind = "redemption"
)

var validPointsEntryKinds = []PointsEntryKind{
	PointsEntryKindAccrual,
	PointsEntryKindRedemption,
}

// IsValid reports whether the value matches a canonical points entry kind.
func (k PointsEntryKind) IsValid() bool {
	for _, candidate := range validPointsEntryKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParsePointsEntryKind converts raw input into PointsEntryKind.
func ParsePointsEntryKind(value string) (PointsEntryKind, error) {
	for _, candidate := range validPointsEntryKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid points entry kind %q", value)
}
