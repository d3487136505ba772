package btsonicare

import "context"

// CharacteristicInfo describes a single GATT characteristic exposed by a
// connected device
type CharacteristicInfo struct {
	ID          string
	CanRead     bool
	CanIndicate bool
	CanNotify   bool
}

// NotifyFunc receives characteristic value change notifications. Indicate and
// notify subscriptions are treated identically.
type NotifyFunc func(id string, value []byte)

// Connection denotes an established link to a device
type Connection interface {

	// Characteristics lists the GATT characteristics in discovery order
	Characteristics() []CharacteristicInfo

	// Read performs a one-shot read of the characteristic value
	Read(ctx context.Context, id string) ([]byte, error)

	// Subscribe registers fn to receive value changes of the characteristic
	// until the connection ends
	Subscribe(id string, fn NotifyFunc) error

	// Close terminates the connection
	Close() error
}

// Transport denotes the BLE central used to reach a device. Connection
// retry / reconnect policy is the transport's concern, not the caller's.
type Transport interface {

	// Connect establishes (or reuses) a connection to the device at address
	Connect(ctx context.Context, address string) (Connection, error)
}
