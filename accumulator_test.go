package btsonicare

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulatorLatestWins(t *testing.T) {
	acc := NewAccumulator()

	acc.RecordSensor(SensorBatteryLevel, UnitPercentage, 80, DeviceClassBattery, "Battery")
	acc.RecordSensor(SensorBatteryLevel, UnitPercentage, 45, DeviceClassBattery, "Battery")

	snapshot := acc.Finalize()
	require.Len(t, snapshot.Sensors, 1)
	assert.Equal(t, 45, snapshot.Sensors[SensorBatteryLevel].Value)
}

func TestAccumulatorBinaryLatestWins(t *testing.T) {
	acc := NewAccumulator()

	acc.RecordBinarySensor(BinarySensorBrushing, true)
	acc.RecordBinarySensor(BinarySensorBrushing, false)

	snapshot := acc.Finalize()
	require.Len(t, snapshot.BinarySensors, 1)
	assert.False(t, snapshot.BinarySensors[BinarySensorBrushing].Value)
}

func TestAccumulatorFinalizeIdempotent(t *testing.T) {
	acc := NewAccumulator()

	acc.RecordIdentity(DeviceIdentity{
		ModelName:    "HX6340",
		ShortAddress: "EE:FF",
		DisplayTitle: "HX6340 EE:FF",
	})
	acc.RecordSensor(SensorBatteryLevel, UnitPercentage, 80, DeviceClassBattery, "Battery")
	acc.RecordSensor(SensorHandleSessionState, UnitNone, "brushing", DeviceClassNone, "Handle session state")
	acc.RecordBinarySensor(BinarySensorBrushing, true)

	first := acc.Finalize()
	second := acc.Finalize()

	assert.Equal(t, first, second)
}

func TestAccumulatorPreservesInsertionOrder(t *testing.T) {
	acc := NewAccumulator()

	acc.RecordSensor(SensorHandleSessionState, UnitNone, "standby", DeviceClassNone, "Handle session state")
	acc.RecordSensor(SensorBatteryLevel, UnitPercentage, 80, DeviceClassBattery, "Battery")
	acc.RecordSensor(SensorIntensity, UnitNone, 2, DeviceClassNone, "Intensity")

	// Overwriting must not change the order
	acc.RecordSensor(SensorBatteryLevel, UnitPercentage, 45, DeviceClassBattery, "Battery")

	snapshot := acc.Finalize()
	assert.Equal(t, []Sensor{
		SensorHandleSessionState,
		SensorBatteryLevel,
		SensorIntensity,
	}, snapshot.SensorKeys)
}

func TestAccumulatorSnapshotIsolation(t *testing.T) {
	acc := NewAccumulator()

	acc.RecordSensor(SensorBatteryLevel, UnitPercentage, 80, DeviceClassBattery, "Battery")
	snapshot := acc.Finalize()

	// Later records must not leak into an already finalized snapshot
	acc.RecordSensor(SensorBatteryLevel, UnitPercentage, 45, DeviceClassBattery, "Battery")
	acc.RecordSensor(SensorIntensity, UnitNone, 2, DeviceClassNone, "Intensity")
	acc.RecordBinarySensor(BinarySensorBrushing, true)

	assert.Equal(t, 80, snapshot.Sensors[SensorBatteryLevel].Value)
	assert.Len(t, snapshot.Sensors, 1)
	assert.Empty(t, snapshot.BinarySensors)

	next := acc.Finalize()
	assert.Equal(t, 45, next.Sensors[SensorBatteryLevel].Value)
	assert.Len(t, next.Sensors, 2)
}

func TestAccumulatorConcurrentRecordAndFinalize(t *testing.T) {
	acc := NewAccumulator()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(val int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				acc.RecordSensor(SensorBatteryLevel, UnitPercentage, val, DeviceClassBattery, "Battery")
				acc.RecordBinarySensor(BinarySensorBrushing, val%2 == 0)
				_ = acc.Finalize()
			}
		}(i)
	}
	wg.Wait()

	snapshot := acc.Finalize()
	require.Contains(t, snapshot.Sensors, SensorBatteryLevel)
	assert.Equal(t, []Sensor{SensorBatteryLevel}, snapshot.SensorKeys)
}

func TestAccumulatorString(t *testing.T) {
	acc := NewAccumulator()

	assert.Contains(t, acc.Finalize().String(), "unknown device")

	acc.RecordIdentity(DeviceIdentity{ModelName: "HX6340", ShortAddress: "EE:FF", DisplayTitle: "HX6340 EE:FF"})
	acc.RecordSensor(SensorBatteryLevel, UnitPercentage, 80, DeviceClassBattery, "Battery")
	acc.RecordBinarySensor(BinarySensorBrushing, true)

	str := acc.Finalize().String()
	assert.Contains(t, str, "HX6340 EE:FF")
	assert.Contains(t, str, "battery_level=80%")
	assert.Contains(t, str, "brushing=true")
}
