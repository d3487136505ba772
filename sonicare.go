package btsonicare

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Sonicare denotes a tracked Sonicare bluetooth toothbrush handle. It owns the
// reading accumulator and the poll cadence state for that handle across its
// whole tracking lifetime.
type Sonicare struct {
	mu sync.Mutex

	address    string
	state      CadenceState
	conn       Connection
	subscribed map[string]struct{}

	acc     *Accumulator
	cadence CadenceConfig

	transport Transport

	timeNow func() time.Time

	logger Logger
}

// New instantiates a new Sonicare handle tracker, executing functional
// options, if any
func New(options ...func(*Sonicare)) (*Sonicare, error) {

	// Initialize a new instance of a Sonicare tracker
	s := &Sonicare{
		acc:     NewAccumulator(),
		cadence: DefaultCadenceConfig(),
		timeNow: time.Now,
		logger:  &NullLogger{},
	}

	// Execute functional options (if any), see options.go for implementation
	for _, option := range options {
		option(s)
	}

	// Initialize a new GATT transport (if not provided as option)
	if s.transport == nil {
		transport, err := NewGATTTransport(WithGATTLogger(s.logger))
		if err != nil {
			return nil, err
		}
		s.transport = transport
	}

	return s, nil
}

// Address returns the BLE address of the tracked handle (empty until set via
// option or learned from a resolved advertisement)
func (s *Sonicare) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.address
}

// Identity returns the resolved device identity, if any
func (s *Sonicare) Identity() (DeviceIdentity, bool) {
	return s.acc.Identity()
}

// State returns a copy of the current poll cadence state
func (s *Sonicare) State() CadenceState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// HandleAdvertisement feeds the manufacturer data of an observed advertisement
// into the identity resolver. It reports whether the advertisement belongs to
// the Sonicare product family; unrelated or malformed advertisements are
// silently ignored.
func (s *Sonicare) HandleAdvertisement(manufacturerData map[uint16][]byte, address string) bool {
	identity, ok := ResolveAdvertisement(manufacturerData, address)
	if !ok {
		return false
	}

	s.mu.Lock()
	if s.address == "" {
		s.address = address
	}
	s.mu.Unlock()

	s.acc.RecordIdentity(identity)
	s.logger.Debugf("resolved advertisement for `%s`", identity.DisplayTitle)

	return true
}

// PollDue reports whether a new poll should be issued at now, given the time
// of the last poll (zero value if never polled)
func (s *Sonicare) PollDue(lastPoll, now time.Time) bool {
	s.mu.Lock()
	state := s.state
	cadence := s.cadence
	s.mu.Unlock()

	return cadence.PollDue(lastPoll, state, now)
}

// Poll connects to the handle (or reuses the existing connection) and
// refreshes all readings: readable characteristics are read once, indicate /
// notify capable ones are subscribed so future changes keep flowing into the
// accumulator. Only connection establishment can fail; per-characteristic
// errors are logged and skipped. The returned snapshot reflects everything
// recorded up to this poll, including notification data from prior cycles.
func (s *Sonicare) Poll(ctx context.Context) (DeviceSnapshot, error) {

	s.mu.Lock()
	address := s.address
	conn := s.conn
	s.mu.Unlock()

	if address == "" {
		return DeviceSnapshot{}, fmt.Errorf("cannot poll before the device address is known")
	}

	if conn == nil {
		newConn, err := s.transport.Connect(ctx, address)
		if err != nil {
			return DeviceSnapshot{}, fmt.Errorf("failed to connect device `%s`: %w", address, err)
		}

		s.mu.Lock()
		s.conn = newConn
		s.subscribed = make(map[string]struct{})
		s.mu.Unlock()

		conn = newConn
	}

	for _, c := range conn.Characteristics() {
		if c.CanRead {
			value, err := conn.Read(ctx, c.ID)
			if err != nil {
				s.logger.Debugf("failed to read characteristic `%s`: %s", c.ID, err)
			} else {
				s.processValue(c.ID, value)
			}
		}

		if (c.CanIndicate || c.CanNotify) && !s.isSubscribed(c.ID) {
			if err := conn.Subscribe(c.ID, s.processValue); err != nil {
				s.logger.Debugf("failed to subscribe to characteristic `%s`: %s", c.ID, err)
			} else {
				s.markSubscribed(c.ID)
			}
		}
	}

	return s.acc.Finalize(), nil
}

// Snapshot finalizes the accumulator without polling, picking up any readings
// recorded by notifications since the last poll
func (s *Sonicare) Snapshot() DeviceSnapshot {
	return s.acc.Finalize()
}

// Close releases the device connection, if any
func (s *Sonicare) Close() error {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.subscribed = nil
	s.mu.Unlock()

	if conn == nil {
		return nil
	}

	return conn.Close()
}

////////////////////////////////////////////////////////////////////////////////

// processValue is the single decode pipeline shared by one-shot reads and
// notification callbacks
func (s *Sonicare) processValue(id string, value []byte) {
	decoded := Decode(id, value)
	if decoded.Kind == KindUnrecognized {
		s.logger.Debugf("unknown characteristic `%s` (value: %x)", id, value)
		return
	}

	reading := decoded.Reading
	s.acc.RecordSensor(reading.Key, reading.Unit, reading.Value, reading.DeviceClass, reading.Label)

	if decoded.Kind == KindHandleSessionState {
		brushing := decoded.State == sessionStateBrushing
		s.acc.RecordBinarySensor(BinarySensorBrushing, brushing)

		s.mu.Lock()
		s.state.Brushing = brushing
		if brushing {
			s.state.LastBrush = s.timeNow()
		}
		s.mu.Unlock()
	}
}

func (s *Sonicare) isSubscribed(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.subscribed[id]
	return ok
}

func (s *Sonicare) markSubscribed(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subscribed == nil {
		s.subscribed = make(map[string]struct{})
	}
	s.subscribed[id] = struct{}{}
}
