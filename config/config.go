// Package config loads and validates the bridge's YAML configuration.
package config

import (
	"io/ioutil"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/openretro/bridge/adapter"
)

// Transport kinds.
const (
	TransportUART = "uart"
	TransportHCI  = "hci"
)

// Transport selects how the bridge reaches the Bluetooth controller.
type Transport struct {
	Kind string `yaml:"kind"`

	// UART settings, used when Kind is "uart".
	UARTPath string `yaml:"uart_path"`
	UARTBaud uint   `yaml:"uart_baud"`

	// HCIIndex is the hciN device number, used when Kind is "hci".
	HCIIndex int `yaml:"hci_index"`
}

// Config is the top level bridge configuration.
type Config struct {
	// Name is the Bluetooth device name advertised to pairing devices.
	Name string `yaml:"name"`

	// LogLevel is a logrus level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// StorageDir holds the pairing keys and the programmed address.
	StorageDir string `yaml:"storage_dir"`

	// DevicesFile optionally overrides the builtin device table.
	DevicesFile string `yaml:"devices_file"`

	// Target is the wired system to impersonate, "dc" or "jvs".
	Target string `yaml:"target"`

	Transport Transport `yaml:"transport"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Name:       "OpenRetro Bridge",
		LogLevel:   "info",
		StorageDir: "/var/lib/openretro",
		Target:     "dc",
		Transport: Transport{
			Kind:     TransportUART,
			UARTPath: "/dev/ttyUSB0",
			UARTBaud: 921600,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result. An
// empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config")
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, errors.Wrap(err, "parse config")
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes the configuration and rejects unusable values.
func (c *Config) Validate() error {
	c.Target = strings.ToLower(c.Target)
	if _, err := c.System(); err != nil {
		return err
	}

	c.Transport.Kind = strings.ToLower(c.Transport.Kind)
	switch c.Transport.Kind {
	case TransportUART:
		if c.Transport.UARTPath == "" {
			return errors.New("transport: uart_path is required")
		}
		if c.Transport.UARTBaud == 0 {
			c.Transport.UARTBaud = 921600
		}
	case TransportHCI:
		if c.Transport.HCIIndex < 0 {
			return errors.Errorf("transport: bad hci_index %d", c.Transport.HCIIndex)
		}
	default:
		return errors.Errorf("transport: unknown kind %q", c.Transport.Kind)
	}

	if c.Name == "" {
		c.Name = Default().Name
	}
	if len(c.Name) > 248 {
		return errors.New("name: longer than 248 bytes")
	}
	if c.StorageDir == "" {
		return errors.New("storage_dir is required")
	}
	return nil
}

// System maps the target name onto the wired system.
func (c *Config) System() (adapter.System, error) {
	switch c.Target {
	case "dc", "dreamcast":
		return adapter.Dreamcast, nil
	case "jvs":
		return adapter.JVS, nil
	default:
		return 0, errors.Errorf("unknown target %q", c.Target)
	}
}
