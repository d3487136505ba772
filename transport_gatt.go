package btsonicare

import (
	"context"
	"encoding/binary"
	"fmt"
	"strings"
	"sync"

	"github.com/fako1024/gatt"
)

var defaultBTClientOptions = []gatt.Option{
	gatt.LnxMaxConnections(1),
	gatt.LnxDeviceID(-1, true),
}

// AdvertisementFunc receives the source address and the manufacturer data
// (split by company identifier) of every observed advertisement
type AdvertisementFunc func(address string, manufacturerData map[uint16][]byte)

// GATTTransport implements Transport on top of a gatt central device. It scans
// continuously, surfaces advertisements to an optional handler and serves
// connection requests for discovered peripherals.
type GATTTransport struct {
	mu      sync.Mutex
	pending map[string]chan connectResult

	advHandler AdvertisementFunc

	btDevice gatt.Device

	logger Logger
}

type connectResult struct {
	conn *gattConnection
	err  error
}

// NewGATTTransport instantiates a new GATT transport, executing functional
// options, if any, then initializes the HCI device and starts scanning
func NewGATTTransport(options ...func(*GATTTransport)) (*GATTTransport, error) {

	t := &GATTTransport{
		pending: make(map[string]chan connectResult),
		logger:  &NullLogger{},
	}

	// Execute functional options (if any)
	for _, option := range options {
		option(t)
	}

	// Initialize a new GATT device (if not provided as option)
	if t.btDevice == nil {
		btDevice, err := gatt.NewDevice(defaultBTClientOptions...)
		if err != nil {
			return nil, err
		}
		t.btDevice = btDevice
	}

	// Register handlers
	t.btDevice.Handle(
		gatt.AddPeripheralDiscovered(t.onPeriphDiscovered),
		gatt.AddPeripheralConnected(t.onPeriphConnected),
		gatt.AddPeripheralDisconnected(t.onPeriphDisconnected),
	)

	// Initialize the device
	return t, t.btDevice.Init(t.onStateChanged)
}

// WithGATTDevice sets the Bluetooth device
func WithGATTDevice(btDevice gatt.Device) func(*GATTTransport) {
	return func(t *GATTTransport) {
		t.btDevice = btDevice
	}
}

// WithGATTLogger sets a logger
func WithGATTLogger(logger Logger) func(*GATTTransport) {
	return func(t *GATTTransport) {
		t.logger = logger
	}
}

// WithAdvertisementHandler sets a handler that is called for every observed
// advertisement carrying manufacturer data
func WithAdvertisementHandler(fn AdvertisementFunc) func(*GATTTransport) {
	return func(t *GATTTransport) {
		t.advHandler = fn
	}
}

// Connect establishes a connection to the peripheral at address, waiting for
// it to be (re)discovered by the ongoing scan
func (t *GATTTransport) Connect(ctx context.Context, address string) (Connection, error) {

	key := strings.ToLower(address)
	ch := make(chan connectResult, 1)

	t.mu.Lock()
	if _, ok := t.pending[key]; ok {
		t.mu.Unlock()
		return nil, fmt.Errorf("connection to `%s` already in progress", address)
	}
	t.pending[key] = ch
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		delete(t.pending, key)
		t.mu.Unlock()
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			return nil, res.err
		}
		return res.conn, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Stop terminates scanning and releases the HCI device
func (t *GATTTransport) Stop() error {
	t.btDevice.StopScanning()
	return t.btDevice.RemoveAllServices()
}

////////////////////////////////////////////////////////////////////////////////

func (t *GATTTransport) onStateChanged(d gatt.Device, s gatt.State) {
	switch s {
	case gatt.StatePoweredOn:
		if err := d.Scan([]gatt.UUID{}, true); err != nil {
			t.logger.Warnf("failed to enable initial scanning: %s", err)
		}
		return
	case gatt.StatePoweredOff:
		return
	default:
		if err := d.StopScanning(); err != nil {
			t.logger.Warnf("failed to stop initial scanning: %s", err)
		}
	}
}

func (t *GATTTransport) onPeriphDiscovered(p gatt.Peripheral, a *gatt.Advertisement, rssi int) {

	if t.advHandler != nil {
		if data := splitManufacturerData(a.ManufacturerData); len(data) > 0 {
			t.advHandler(p.ID(), data)
		}
	}

	t.mu.Lock()
	_, wanted := t.pending[strings.ToLower(p.ID())]
	t.mu.Unlock()
	if !wanted {
		return
	}

	t.logger.Debugf("connecting device `%s/%s`", p.Name(), p.ID())

	// Stop scanning once we've got the peripheral we're looking for.
	if err := p.Device().StopScanning(); err != nil {
		t.logger.Warnf("failed to stop scanning before connect: %s", err)
	}
	if err := p.Device().Connect(p); err != nil {
		t.logger.Errorf("Failed to connect device `%s/%s`: %s", p.Name(), p.ID(), err)
		t.deliver(p.ID(), connectResult{err: err})
	}
}

func (t *GATTTransport) onPeriphConnected(p gatt.Peripheral, connErr error) {

	if connErr != nil {
		t.deliver(p.ID(), connectResult{err: connErr})
		return
	}

	t.logger.Debugf("connected peripheral `%s/%s`", p.Name(), p.ID())

	conn, err := newGATTConnection(p, t.logger)
	if err != nil {
		p.Device().CancelConnection(p)
		t.deliver(p.ID(), connectResult{err: err})
		return
	}

	t.deliver(p.ID(), connectResult{conn: conn})
}

func (t *GATTTransport) onPeriphDisconnected(p gatt.Peripheral, err error) {

	t.logger.Debugf("disconnected peripheral `%s/%s`", p.Name(), p.ID())

	if err := t.btDevice.Scan([]gatt.UUID{}, true); err != nil {
		t.logger.Warnf("failed to re-enable scanning after disconnect: %s", err)
	}
}

func (t *GATTTransport) deliver(address string, res connectResult) {
	t.mu.Lock()
	ch := t.pending[strings.ToLower(address)]
	t.mu.Unlock()

	if ch == nil {
		return
	}
	select {
	case ch <- res:
	default:
	}
}

////////////////////////////////////////////////////////////////////////////////

// gattConnection adapts a connected gatt peripheral to the Connection interface
type gattConnection struct {
	btPeripheral gatt.Peripheral

	infos []CharacteristicInfo
	chars map[string]*gatt.Characteristic

	logger Logger
}

func newGATTConnection(p gatt.Peripheral, logger Logger) (*gattConnection, error) {

	conn := &gattConnection{
		btPeripheral: p,
		chars:        make(map[string]*gatt.Characteristic),
		logger:       logger,
	}

	// Discover all services and their characteristics, preserving discovery order
	ss, err := p.DiscoverServices(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to discover services: %w", err)
	}
	for _, s := range ss {
		cs, err := p.DiscoverCharacteristics(nil, s)
		if err != nil {
			return nil, fmt.Errorf("failed to discover characteristics of service `%s`: %w", s.UUID().String(), err)
		}
		for _, c := range cs {

			// Discover descriptors (required for subscriptions); failure to do
			// so only affects the characteristic at hand
			if _, err := p.DiscoverDescriptors(nil, c); err != nil {
				logger.Debugf("failed to discover descriptors of characteristic `%s`: %s", c.UUID().String(), err)
				continue
			}

			id := c.UUID().String()
			props := c.Properties()
			conn.infos = append(conn.infos, CharacteristicInfo{
				ID:          id,
				CanRead:     props&gatt.CharRead != 0,
				CanIndicate: props&gatt.CharIndicate != 0,
				CanNotify:   props&gatt.CharNotify != 0,
			})
			conn.chars[id] = c
		}
	}

	return conn, nil
}

// Characteristics lists the GATT characteristics in discovery order
func (c *gattConnection) Characteristics() []CharacteristicInfo {
	return append([]CharacteristicInfo(nil), c.infos...)
}

// Read performs a one-shot read of the characteristic value
func (c *gattConnection) Read(_ context.Context, id string) ([]byte, error) {
	char, ok := c.chars[id]
	if !ok {
		return nil, fmt.Errorf("unknown characteristic `%s`", id)
	}

	return c.btPeripheral.ReadCharacteristic(char)
}

// Subscribe registers fn to receive value changes of the characteristic
func (c *gattConnection) Subscribe(id string, fn NotifyFunc) error {
	char, ok := c.chars[id]
	if !ok {
		return fmt.Errorf("unknown characteristic `%s`", id)
	}

	return c.btPeripheral.SetNotifyValue(char, func(ch *gatt.Characteristic, data []byte, err error) {
		if err != nil || len(data) == 0 {
			return
		}
		fn(ch.UUID().String(), data)
	})
}

// Close terminates the connection
func (c *gattConnection) Close() error {
	c.btPeripheral.Device().CancelConnection(c.btPeripheral)
	return nil
}

////////////////////////////////////////////////////////////////////////////////

// splitManufacturerData splits a raw AD manufacturer data element into its
// company identifier (little endian prefix) and payload
func splitManufacturerData(data []byte) map[uint16][]byte {
	if len(data) < 2 {
		return nil
	}

	return map[uint16][]byte{
		binary.LittleEndian.Uint16(data[0:2]): data[2:],
	}
}
