// Package device maps a device configuration onto a parameter registry.
// Both ends of an exchange call DefineSchema with the same defaults, then
// use Write on the sending side and Load on the receiving side.
package device

import (
	"fmt"

	"github.com/artpar/paramset/core/param"
	"github.com/artpar/paramset/core/registry"
	"github.com/artpar/paramset/core/schema"
)

// Parameter keys (network settings are namespaced by a dotted prefix).
const (
	KeySpeed            = "speed"
	KeyTemperatureLimit = "temperature_limit"
	KeyMode             = "mode"
	KeyEnabled          = "enabled"

	KeyNetworkDHCPEnabled = "network.dhcp_enabled"
	KeyNetworkIPAddress   = "network.ip_address"
	KeyNetworkNetmask     = "network.netmask"
)

// Operating modes.
const (
	ModeAuto   = "AUTO"
	ModeManual = "MANUAL"
)

// Limits enforced by the schema.
const (
	MaxSpeed            = 200
	MaxTemperatureLimit = 100.0

	// Dotted-quad IPv4 text is 7 to 15 characters long.
	minAddressLength = 7
	maxAddressLength = 15
)

// Network holds the network settings of a device.
type Network struct {
	DHCPEnabled bool   `json:"dhcp_enabled"`
	IPAddress   string `json:"ip_address"`
	Netmask     string `json:"netmask"`
}

// Config is the full device configuration.
type Config struct {
	Speed            int64   `json:"speed"`
	TemperatureLimit float64 `json:"temperature_limit"`
	Mode             string  `json:"mode"`
	Enabled          bool    `json:"enabled"`
	Network          Network `json:"network"`
}

// Defaults returns the factory configuration.
func Defaults() Config {
	return Config{
		Speed:            50,
		TemperatureLimit: 60.0,
		Mode:             ModeAuto,
		Enabled:          true,
		Network: Network{
			DHCPEnabled: true,
			IPAddress:   "192.168.1.100",
			Netmask:     "255.255.255.0",
		},
	}
}

func addressLength() param.Text {
	return param.Length(minAddressLength, maxAddressLength)
}

// DefineSchema defines every device parameter in r, using defaults as the
// initial values.
func DefineSchema(r *registry.Registry, defaults Config) error {
	if _, err := r.AddInt(KeySpeed, defaults.Speed, param.Between[int64](0, MaxSpeed)); err != nil {
		return err
	}
	if _, err := r.AddFloat(KeyTemperatureLimit, defaults.TemperatureLimit, param.Between(0.0, MaxTemperatureLimit)); err != nil {
		return err
	}
	if _, err := r.AddString(KeyMode, defaults.Mode, param.OneOf(ModeAuto, ModeManual)); err != nil {
		return err
	}
	if _, err := r.AddBool(KeyEnabled, defaults.Enabled); err != nil {
		return err
	}
	if _, err := r.AddBool(KeyNetworkDHCPEnabled, defaults.Network.DHCPEnabled); err != nil {
		return err
	}
	if _, err := r.AddString(KeyNetworkIPAddress, defaults.Network.IPAddress, addressLength()); err != nil {
		return err
	}
	if _, err := r.AddString(KeyNetworkNetmask, defaults.Network.Netmask, addressLength()); err != nil {
		return err
	}
	return nil
}

// Document returns the device schema as a declarative document, equivalent
// to DefineSchema with the same defaults.
func Document(defaults Config) schema.Document {
	minLen, maxLen := minAddressLength, maxAddressLength
	return schema.Document{
		Name:        "device",
		Description: "Device configuration",
		Params: []schema.Field{
			{Name: KeySpeed, Type: "int", Default: defaults.Speed, Min: 0, Max: MaxSpeed},
			{Name: KeyTemperatureLimit, Type: "float", Default: defaults.TemperatureLimit, Min: 0.0, Max: MaxTemperatureLimit},
			{Name: KeyMode, Type: "string", Default: defaults.Mode, Allowed: []string{ModeAuto, ModeManual}},
			{Name: KeyEnabled, Type: "bool", Default: defaults.Enabled},
			{Name: KeyNetworkDHCPEnabled, Type: "bool", Default: defaults.Network.DHCPEnabled},
			{Name: KeyNetworkIPAddress, Type: "string", Default: defaults.Network.IPAddress, MinLength: &minLen, MaxLength: &maxLen},
			{Name: KeyNetworkNetmask, Type: "string", Default: defaults.Network.Netmask, MinLength: &minLen, MaxLength: &maxLen},
		},
	}
}

// Load reads a Config out of r. It fails when a key is missing or holds a
// different type.
func Load(r *registry.Registry) (Config, error) {
	var (
		cfg Config
		err error
	)
	if cfg.Speed, err = registry.Get[int64](r, KeySpeed); err != nil {
		return Config{}, fmt.Errorf("load device config: %w", err)
	}
	if cfg.TemperatureLimit, err = registry.Get[float64](r, KeyTemperatureLimit); err != nil {
		return Config{}, fmt.Errorf("load device config: %w", err)
	}
	if cfg.Mode, err = registry.Get[string](r, KeyMode); err != nil {
		return Config{}, fmt.Errorf("load device config: %w", err)
	}
	if cfg.Enabled, err = registry.Get[bool](r, KeyEnabled); err != nil {
		return Config{}, fmt.Errorf("load device config: %w", err)
	}
	if cfg.Network.DHCPEnabled, err = registry.Get[bool](r, KeyNetworkDHCPEnabled); err != nil {
		return Config{}, fmt.Errorf("load device config: %w", err)
	}
	if cfg.Network.IPAddress, err = registry.Get[string](r, KeyNetworkIPAddress); err != nil {
		return Config{}, fmt.Errorf("load device config: %w", err)
	}
	if cfg.Network.Netmask, err = registry.Get[string](r, KeyNetworkNetmask); err != nil {
		return Config{}, fmt.Errorf("load device config: %w", err)
	}
	return cfg, nil
}

// Write assigns cfg to r field by field. It stops at the first value that
// fails validation; fields written before it keep their new values.
func Write(r *registry.Registry, cfg Config) error {
	if err := registry.Set(r, KeySpeed, cfg.Speed); err != nil {
		return err
	}
	if err := registry.Set(r, KeyTemperatureLimit, cfg.TemperatureLimit); err != nil {
		return err
	}
	if err := registry.Set(r, KeyMode, cfg.Mode); err != nil {
		return err
	}
	if err := registry.Set(r, KeyEnabled, cfg.Enabled); err != nil {
		return err
	}
	if err := registry.Set(r, KeyNetworkDHCPEnabled, cfg.Network.DHCPEnabled); err != nil {
		return err
	}
	if err := registry.Set(r, KeyNetworkIPAddress, cfg.Network.IPAddress); err != nil {
		return err
	}
	return registry.Set(r, KeyNetworkNetmask, cfg.Network.Netmask)
}
