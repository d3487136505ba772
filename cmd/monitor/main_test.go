package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fako1024/btsonicare"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCadenceConfigDefaults(t *testing.T) {
	cadence, err := loadCadenceConfig("")
	require.NoError(t, err)
	assert.Equal(t, btsonicare.DefaultCadenceConfig(), cadence)
}

func TestLoadCadenceConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cadence.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"brushing_interval_seconds: 10\nidle_interval_seconds: 120\n",
	), 0644))

	cadence, err := loadCadenceConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cadence.BrushingInterval)
	assert.Equal(t, 2*time.Minute, cadence.IdleInterval)

	// Unset values keep their defaults
	assert.Equal(t, btsonicare.DefaultRecentBrushingTimeout, cadence.RecentBrushingTimeout)
}

func TestLoadCadenceConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cadence.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0644))

	_, err := loadCadenceConfig(path)
	assert.Error(t, err)
}

func TestLoadCadenceConfigMissingFile(t *testing.T) {
	_, err := loadCadenceConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
