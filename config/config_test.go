package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openretro/bridge/adapter"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bridge.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "OpenRetro Bridge", cfg.Name)
	assert.Equal(t, TransportUART, cfg.Transport.Kind)
	assert.Equal(t, uint(921600), cfg.Transport.UARTBaud)

	sys, err := cfg.System()
	require.NoError(t, err)
	assert.Equal(t, adapter.Dreamcast, sys)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
name: Cabinet 3
log_level: debug
storage_dir: /tmp/bridge
target: JVS
transport:
  kind: hci
  hci_index: 1
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Cabinet 3", cfg.Name)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, TransportHCI, cfg.Transport.Kind)
	assert.Equal(t, 1, cfg.Transport.HCIIndex)

	sys, err := cfg.System()
	require.NoError(t, err)
	assert.Equal(t, adapter.JVS, sys)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"unknown target", "target: saturn"},
		{"unknown transport", "transport: {kind: spi}"},
		{"missing uart path", "transport: {kind: uart, uart_path: \"\"}"},
		{"empty storage dir", "storage_dir: \"\""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestValidateFillsBaud(t *testing.T) {
	cfg := Default()
	cfg.Transport.UARTBaud = 0
	require.NoError(t, cfg.Validate())
	assert.Equal(t, uint(921600), cfg.Transport.UARTBaud)
}
