// Package config holds the CLI configuration types and the TOML profile
// loader.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Profile stores all parameters needed to open a session with one server.
type Profile struct {
	Addr        string        // server address in host:port form
	Password    string        // rcon password
	SafeCommand string        // optional command with exactly one response packet
	Timeout     time.Duration // connect timeout; zero means none
}

// Default returns the baseline profile that file values are overlaid onto.
func Default() Profile {
	return Profile{}
}

// fileProfile is the config.toml key mapping for one [profiles.<name>] table.
type fileProfile struct {
	Addr           string `toml:"addr"`
	Password       string `toml:"password"`
	SafeCommand    string `toml:"safe_command"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// configFile is the top-level shape of a profile file.
type configFile struct {
	Profiles map[string]fileProfile `toml:"profiles"`
}

// LoadProfile reads the named profile from a TOML file, overlaying only the
// keys actually present in the file onto the defaults.
func LoadProfile(path, name string) (Profile, error) {
	cfg := Default()

	var raw configFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Profile{}, fmt.Errorf("load profile file: %w", err)
	}

	p, ok := raw.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile %q not found in %s", name, path)
	}

	if meta.IsDefined("profiles", name, "addr") {
		cfg.Addr = strings.TrimSpace(p.Addr)
	}
	if meta.IsDefined("profiles", name, "password") {
		cfg.Password = p.Password
	}
	if meta.IsDefined("profiles", name, "safe_command") {
		cfg.SafeCommand = strings.TrimSpace(p.SafeCommand)
	}
	if meta.IsDefined("profiles", name, "timeout_seconds") {
		if p.TimeoutSeconds < 0 {
			return Profile{}, fmt.Errorf("profile %q: timeout_seconds must not be negative", name)
		}
		cfg.Timeout = time.Duration(p.TimeoutSeconds) * time.Second
	}

	return cfg, nil
}
