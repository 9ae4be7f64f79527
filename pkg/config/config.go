// Package config loads the kernel runtime configuration from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"able/kernel-go/pkg/list"
)

// FaultPolicy decides what happens when generated code misuses a container.
type FaultPolicy string

const (
	// FaultAbort prints a diagnostic and terminates the process.
	FaultAbort FaultPolicy = "abort"
	// FaultError returns the typed runtime error to the caller.
	FaultError FaultPolicy = "error"
)

// Config holds the resolved runtime settings.
type Config struct {
	Path string

	ListGrowth    list.Growth
	ListMaxLen    int
	StringMaxLen  int
	FaultPolicy   FaultPolicy
	FaultExitCode int
}

// Default returns the settings used when no file is supplied.
func Default() Config {
	return Config{
		ListGrowth:    list.GrowDoubling,
		FaultPolicy:   FaultAbort,
		FaultExitCode: 1,
	}
}

type configDisk struct {
	List   listDisk   `yaml:"list"`
	String stringDisk `yaml:"string"`
	Faults faultsDisk `yaml:"faults"`
}

type listDisk struct {
	Growth string `yaml:"growth"`
	MaxLen *int   `yaml:"max_len"`
}

type stringDisk struct {
	MaxLen *int `yaml:"max_len"`
}

type faultsDisk struct {
	Policy   string `yaml:"policy"`
	ExitCode *int   `yaml:"exit_code"`
}

// Load parses the configuration file at path.
func Load(path string) (Config, error) {
	return LoadOver(path, Default())
}

// LoadOver parses the configuration file at path on top of base. Keys the
// file does not set keep the values from base.
func LoadOver(path string, base Config) (Config, error) {
	if path == "" {
		return Config{}, fmt.Errorf("config: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", abs, err)
	}
	cfg, err := ParseOver(data, base)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	cfg.Path = abs
	return cfg, nil
}

// Parse decodes YAML configuration. Unknown keys are rejected and missing
// keys keep their defaults.
func Parse(data []byte) (Config, error) {
	return ParseOver(data, Default())
}

// ParseOver decodes YAML configuration on top of base.
func ParseOver(data []byte, base Config) (Config, error) {
	var raw configDisk
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	cfg, err := raw.apply(base)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (raw configDisk) apply(cfg Config) (Config, error) {
	if name := strings.TrimSpace(raw.List.Growth); name != "" {
		growth, err := list.ParseGrowth(name)
		if err != nil {
			return Config{}, err
		}
		cfg.ListGrowth = growth
	}
	if raw.List.MaxLen != nil {
		cfg.ListMaxLen = *raw.List.MaxLen
	}
	if raw.String.MaxLen != nil {
		cfg.StringMaxLen = *raw.String.MaxLen
	}
	if policy := strings.TrimSpace(raw.Faults.Policy); policy != "" {
		cfg.FaultPolicy = FaultPolicy(policy)
	}
	if raw.Faults.ExitCode != nil {
		cfg.FaultExitCode = *raw.Faults.ExitCode
	}
	return cfg, nil
}

// Validate reports settings the kernel cannot honour.
func (c Config) Validate() error {
	switch c.FaultPolicy {
	case FaultAbort, FaultError:
	default:
		return fmt.Errorf("unknown fault policy %q", c.FaultPolicy)
	}
	if c.ListMaxLen < 0 {
		return fmt.Errorf("list max_len must be non-negative, got %d", c.ListMaxLen)
	}
	if c.StringMaxLen < 0 {
		return fmt.Errorf("string max_len must be non-negative, got %d", c.StringMaxLen)
	}
	if c.FaultPolicy == FaultAbort && (c.FaultExitCode < 1 || c.FaultExitCode > 255) {
		return fmt.Errorf("fault exit_code must be within 1..255, got %d", c.FaultExitCode)
	}
	return nil
}

// Marshal renders the configuration back to YAML.
func (c Config) Marshal() ([]byte, error) {
	code := c.FaultExitCode
	listMax, stringMax := c.ListMaxLen, c.StringMaxLen
	disk := configDisk{
		List:   listDisk{Growth: c.ListGrowth.String(), MaxLen: &listMax},
		String: stringDisk{MaxLen: &stringMax},
		Faults: faultsDisk{Policy: string(c.FaultPolicy), ExitCode: &code},
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(disk); err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("config: encoder close: %w", err)
	}
	return buf.Bytes(), nil
}
