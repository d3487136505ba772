package btsonicare

import (
	"fmt"
	"strings"
)

// Sensor denotes a named sensor exposed by a toothbrush handle
type Sensor string

const (

	// SensorBatteryLevel denotes the battery charge of the handle
	SensorBatteryLevel Sensor = "battery_level"

	// SensorBrushingTime denotes the accumulated brushing time of the current session
	SensorBrushingTime Sensor = "brushing_time"

	// SensorHandleTime denotes the internal clock of the handle
	SensorHandleTime Sensor = "handle_time"

	// SensorHandleSessionState denotes the current operating state of the handle
	SensorHandleSessionState Sensor = "handle_session_state"

	// SensorBrushingSessionID denotes the identifier of the current brushing session
	SensorBrushingSessionID Sensor = "brushing_session_id"

	// SensorLoadedSessionID denotes the identifier of the session loaded on the handle
	SensorLoadedSessionID Sensor = "loaded_session_id"

	// SensorIntensity denotes the selected brushing intensity
	SensorIntensity Sensor = "intensity"

	// SensorAvailableBrushingRoutine denotes the routine available on the handle
	SensorAvailableBrushingRoutine Sensor = "available_brushing_routine"

	// SensorRoutineLength denotes the length of the selected routine
	SensorRoutineLength Sensor = "routine_length"

	// SensorSignalStrength denotes the RSSI of the last received advertisement
	SensorSignalStrength Sensor = "signal_strength"
)

// BinarySensor denotes a named boolean sensor exposed by a toothbrush handle
type BinarySensor string

// BinarySensorBrushing is active while the handle reports a brushing session
const BinarySensorBrushing BinarySensor = "brushing"

// Unit denotes the physical unit of a sensor reading
type Unit string

const (

	// UnitNone denotes a dimensionless reading
	UnitNone Unit = ""

	// UnitPercentage denotes a reading in percent
	UnitPercentage Unit = "%"
)

// DeviceClass denotes the semantic classification of a sensor reading
type DeviceClass string

const (

	// DeviceClassNone denotes an unclassified reading
	DeviceClassNone DeviceClass = ""

	// DeviceClassBattery denotes a battery charge reading
	DeviceClassBattery DeviceClass = "battery"
)

// DeviceIdentity denotes the identity of a toothbrush handle as derived from
// its advertisements
type DeviceIdentity struct {
	ModelName    string
	ShortAddress string
	DisplayTitle string
}

// SensorReading denotes the most recent value of a single sensor
type SensorReading struct {
	Key         Sensor
	Unit        Unit
	Value       interface{}
	DeviceClass DeviceClass
	Label       string
}

// BinarySensorReading denotes the most recent value of a single binary sensor
type BinarySensorReading struct {
	Key   BinarySensor
	Value bool
}

// DeviceSnapshot denotes an immutable point-in-time aggregate of all known
// readings and the identity of one device. The key slices preserve the order
// in which the readings were first recorded.
type DeviceSnapshot struct {
	Identity DeviceIdentity

	Sensors    map[Sensor]SensorReading
	SensorKeys []Sensor

	BinarySensors    map[BinarySensor]BinarySensorReading
	BinarySensorKeys []BinarySensor
}

// String fulfils the Stringer interface
func (s DeviceSnapshot) String() string {
	title := s.Identity.DisplayTitle
	if title == "" {
		title = "unknown device"
	}

	parts := make([]string, 0, len(s.SensorKeys)+len(s.BinarySensorKeys))
	for _, key := range s.SensorKeys {
		reading := s.Sensors[key]
		parts = append(parts, fmt.Sprintf("%s=%v%s", key, reading.Value, reading.Unit))
	}
	for _, key := range s.BinarySensorKeys {
		parts = append(parts, fmt.Sprintf("%s=%t", key, s.BinarySensors[key].Value))
	}

	return title + ": " + strings.Join(parts, ", ")
}
