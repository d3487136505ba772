package btsonicare

import "strings"

// SonicareManufacturerID is the Bluetooth SIG company identifier (0x01DD)
// carried in Sonicare advertisements
const SonicareManufacturerID uint16 = 477

const modelNameHX6340 = "HX6340"

// advertisementLengths enumerates the accepted manufacturer payload lengths.
// 9 is what the handles emit in the field; 999 is carried over from the
// protocol notes and kept until independently confirmed.
var advertisementLengths = map[int]struct{}{
	9:   {},
	999: {},
}

// ResolveAdvertisement derives the device identity from the manufacturer data
// of a single advertisement. It reports false for advertisements that do not
// carry the Sonicare manufacturer ID or whose payload length is not one of the
// accepted values; such advertisements are simply ignored.
func ResolveAdvertisement(manufacturerData map[uint16][]byte, address string) (DeviceIdentity, bool) {
	data, ok := manufacturerData[SonicareManufacturerID]
	if !ok {
		return DeviceIdentity{}, false
	}
	if _, ok := advertisementLengths[len(data)]; !ok {
		return DeviceIdentity{}, false
	}

	// Only a single model is known so far. Once payload bytes can be mapped
	// to concrete models this is the place to branch on them.
	short := ShortAddress(address)

	return DeviceIdentity{
		ModelName:    modelNameHX6340,
		ShortAddress: short,
		DisplayTitle: modelNameHX6340 + " " + short,
	}, true
}

// ShortAddress returns the deterministic short form of a BLE address: the last
// two octets, colon-joined and upper-cased
func ShortAddress(address string) string {
	parts := strings.Split(strings.ReplaceAll(address, "-", ":"), ":")
	if len(parts) < 2 {
		return strings.ToUpper(address)
	}

	return strings.ToUpper(parts[len(parts)-2] + ":" + parts[len(parts)-1])
}
