package btsonicare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitManufacturerData(t *testing.T) {

	// Company identifier 477 (0x01DD), little endian prefix
	data := splitManufacturerData([]byte{0xDD, 0x01, 1, 2, 3, 4, 5, 6, 7, 8, 9})
	require.Len(t, data, 1)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}, data[SonicareManufacturerID])
}

func TestSplitManufacturerDataShortInput(t *testing.T) {
	assert.Nil(t, splitManufacturerData(nil))
	assert.Nil(t, splitManufacturerData([]byte{0xDD}))
}

func TestSplitManufacturerDataEmptyPayload(t *testing.T) {
	data := splitManufacturerData([]byte{0xDD, 0x01})
	require.Len(t, data, 1)
	assert.Empty(t, data[SonicareManufacturerID])
}
