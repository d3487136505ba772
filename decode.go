package btsonicare

import "fmt"

// GATT characteristic UUIDs exposed by the handle (as reported by the
// transport: lower-case hex, no dashes, standard UUIDs in short form)
const (
	CharacteristicBatteryLevel = "2a19"

	CharacteristicBrushingTime             = "477ea600a26011e4ae370002a5d54010"
	CharacteristicIntensity                = "477ea600a26011e4ae370002a5d54050"
	CharacteristicLoadedSessionID          = "477ea600a26011e4ae370002a5d54060"
	CharacteristicAvailableBrushingRoutine = "477ea600a26011e4ae370002a5d54080"
	CharacteristicHandleSessionState       = "477ea600a26011e4ae370002a5d54090"
	CharacteristicRoutineLength            = "477ea600a26011e4ae370002a5d540b0"
)

// Kind tags the decoded variant of a characteristic value
type Kind int

const (

	// KindUnrecognized denotes a value of an unknown characteristic (to be ignored)
	KindUnrecognized Kind = iota

	// KindBatteryLevel denotes a battery charge percentage
	KindBatteryLevel

	// KindHandleSessionState denotes an operating state of the handle
	KindHandleSessionState

	// KindBrushingTime denotes a brushing time count
	KindBrushingTime

	// KindAvailableBrushingRoutine denotes an available routine count
	KindAvailableBrushingRoutine

	// KindRoutineLength denotes a routine length count
	KindRoutineLength

	// KindIntensity denotes a brushing intensity count
	KindIntensity

	// KindLoadedSessionID denotes a loaded session identifier
	KindLoadedSessionID
)

// DecodedValue denotes the typed result of decoding a single characteristic
// value. State carries the session state label for KindHandleSessionState.
type DecodedValue struct {
	Kind    Kind
	Reading SensorReading
	State   string
}

// sessionStates maps the raw handle session state byte to its label
var sessionStates = map[byte]string{
	0: "off",
	1: "standby",
	2: "brushing",
	3: "charging",
	4: "shutdown",
	5: "validate",
	6: "unknown6",
	7: "unknown7",
}

const sessionStateBrushing = "brushing"

type decodeFunc func(raw []byte) DecodedValue

// decoders maps each known characteristic to its decode rule. Every rule only
// consumes raw[0] for now; none of the known characteristics has been
// confirmed to carry multi-byte values.
var decoders = map[string]decodeFunc{
	CharacteristicBatteryLevel:             decodeBatteryLevel,
	CharacteristicHandleSessionState:       decodeHandleSessionState,
	CharacteristicBrushingTime:             decodeCount(KindBrushingTime, SensorBrushingTime, "Brushing time"),
	CharacteristicAvailableBrushingRoutine: decodeCount(KindAvailableBrushingRoutine, SensorAvailableBrushingRoutine, "Available brushing routine"),
	CharacteristicRoutineLength:            decodeCount(KindRoutineLength, SensorRoutineLength, "Routine length"),
	CharacteristicIntensity:                decodeCount(KindIntensity, SensorIntensity, "Intensity"),
	CharacteristicLoadedSessionID:          decodeCount(KindLoadedSessionID, SensorLoadedSessionID, "Loaded session id"),
}

// Decode maps a characteristic identifier and its raw value to a typed
// reading. Unknown characteristics and empty values yield an Unrecognized
// result, never an error; callers are expected to skip those and continue.
func Decode(characteristicID string, raw []byte) DecodedValue {
	fn, ok := decoders[characteristicID]
	if !ok || len(raw) == 0 {
		return DecodedValue{Kind: KindUnrecognized}
	}

	return fn(raw)
}

func decodeBatteryLevel(raw []byte) DecodedValue {
	return DecodedValue{
		Kind: KindBatteryLevel,
		Reading: SensorReading{
			Key:         SensorBatteryLevel,
			Unit:        UnitPercentage,
			Value:       int(raw[0]),
			DeviceClass: DeviceClassBattery,
			Label:       "Battery",
		},
	}
}

func decodeHandleSessionState(raw []byte) DecodedValue {
	state, ok := sessionStates[raw[0]]
	if !ok {
		// Out-of-range codes must never abort decoding
		state = fmt.Sprintf("unknown state value %d", raw[0])
	}

	return DecodedValue{
		Kind:  KindHandleSessionState,
		State: state,
		Reading: SensorReading{
			Key:   SensorHandleSessionState,
			Value: state,
			Label: "Handle session state",
		},
	}
}

// decodeCount generates the decode rule for a plain single-byte count
func decodeCount(kind Kind, key Sensor, label string) decodeFunc {
	return func(raw []byte) DecodedValue {
		return DecodedValue{
			Kind: kind,
			Reading: SensorReading{
				Key:   key,
				Value: int(raw[0]),
				Label: label,
			},
		}
	}
}
