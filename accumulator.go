package btsonicare

import "sync"

// Accumulator collects the most recent reading per sensor of a single device.
// It is long-lived: readings persist and merge across poll cycles until they
// are overwritten. Notification callbacks may record values concurrently with
// Finalize; each key update is independent and last-write-wins.
type Accumulator struct {
	mu sync.Mutex

	identity    DeviceIdentity
	hasIdentity bool

	sensors     map[Sensor]SensorReading
	sensorOrder []Sensor

	binarySensors     map[BinarySensor]BinarySensorReading
	binarySensorOrder []BinarySensor
}

// NewAccumulator instantiates an empty Accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{
		sensors:       make(map[Sensor]SensorReading),
		binarySensors: make(map[BinarySensor]BinarySensorReading),
	}
}

// RecordIdentity stores the device identity, replacing any prior one
func (a *Accumulator) RecordIdentity(identity DeviceIdentity) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.identity = identity
	a.hasIdentity = true
}

// Identity returns the recorded device identity, if any
func (a *Accumulator) Identity() (DeviceIdentity, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.identity, a.hasIdentity
}

// RecordSensor stores the most recent value for key, overwriting any prior
// value. First-time keys keep their insertion order for deterministic
// enumeration.
func (a *Accumulator) RecordSensor(key Sensor, unit Unit, value interface{}, deviceClass DeviceClass, label string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.sensors[key]; !ok {
		a.sensorOrder = append(a.sensorOrder, key)
	}
	a.sensors[key] = SensorReading{
		Key:         key,
		Unit:        unit,
		Value:       value,
		DeviceClass: deviceClass,
		Label:       label,
	}
}

// RecordBinarySensor stores the most recent value for key, overwriting any
// prior value
func (a *Accumulator) RecordBinarySensor(key BinarySensor, value bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.binarySensors[key]; !ok {
		a.binarySensorOrder = append(a.binarySensorOrder, key)
	}
	a.binarySensors[key] = BinarySensorReading{
		Key:   key,
		Value: value,
	}
}

// Finalize produces an immutable snapshot of all readings recorded so far.
// Internal state is retained, so calling Finalize again without intervening
// records yields an identical snapshot.
func (a *Accumulator) Finalize() DeviceSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snapshot := DeviceSnapshot{
		Identity:         a.identity,
		Sensors:          make(map[Sensor]SensorReading, len(a.sensors)),
		SensorKeys:       append([]Sensor(nil), a.sensorOrder...),
		BinarySensors:    make(map[BinarySensor]BinarySensorReading, len(a.binarySensors)),
		BinarySensorKeys: append([]BinarySensor(nil), a.binarySensorOrder...),
	}
	for key, reading := range a.sensors {
		snapshot.Sensors[key] = reading
	}
	for key, reading := range a.binarySensors {
		snapshot.BinarySensors[key] = reading
	}

	return snapshot
}
