package enums

import "fmt"

// DeliveryMode describes how a finalized order reaches the customer.
type DeliveryMode string

const (
	DeliveryModeStorePickup DeliveryMode = "store_pickup"
	DeliveryModeHome        DeliveryMode = "home"
)

// IsValid reports whether the value matches a known delivery mode.
func (m DeliveryMode) IsValid() bool {
	return m == DeliveryModeStorePickup || m == DeliveryModeHome
}

// ParseDeliveryMode converts raw input into DeliveryMode.
func ParseDeliveryMode(value string) (DeliveryMode, error) {
	mode := DeliveryMode(value)
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid delivery mode %q", value)
	}
	return mode, nil
}
