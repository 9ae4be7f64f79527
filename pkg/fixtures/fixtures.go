// Package fixtures replays YAML container scenarios against a kernel. The
// same files drive the package tests and the kernel-fixture command.
package fixtures

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"able/kernel-go/pkg/config"
)

// Op names a kernel entry point.
type Op string

const (
	OpListNew      Op = "list_new"
	OpListAppend   Op = "list_append"
	OpListAt       Op = "list_at"
	OpListLen      Op = "list_len"
	OpStringNew    Op = "string_new"
	OpStringAdd    Op = "string_add"
	OpStringConcat Op = "string_concat"
	OpStringLength Op = "string_length"
	OpStringAt     Op = "string_at"
)

// File is one fixture document.
type File struct {
	Path      string
	Scenarios []*Scenario
}

// Scenario is an ordered list of steps run against a fresh kernel.
type Scenario struct {
	Name   string
	Config config.Config
	Steps  []Step
	// HasInlineConfig reports whether Config came from the scenario itself.
	HasInlineConfig bool
}

// Step is one kernel call plus its expectations.
type Step struct {
	Op     Op         `yaml:"op"`
	Ref    string     `yaml:"ref,omitempty"`
	Target string     `yaml:"target,omitempty"`
	Other  string     `yaml:"other,omitempty"`
	Index  int        `yaml:"index,omitempty"`
	Text   string     `yaml:"text,omitempty"`
	Value  *ValueSpec `yaml:"value,omitempty"`

	Expect       *ValueSpec `yaml:"expect,omitempty"`
	ExpectInt    *int       `yaml:"expect_int,omitempty"`
	ExpectByte   string     `yaml:"expect_byte,omitempty"`
	ExpectText   *string    `yaml:"expect_text,omitempty"`
	ExpectError  string     `yaml:"expect_error,omitempty"`
	ExpectStderr string     `yaml:"expect_stderr,omitempty"`
}

// ValueSpec describes a runtime value in YAML. Exactly one field is set.
type ValueSpec struct {
	Nil    bool   `yaml:"nil,omitempty"`
	Bool   *bool  `yaml:"bool,omitempty"`
	Int    *int64 `yaml:"int,omitempty"`
	Byte   string `yaml:"byte,omitempty"`
	List   string `yaml:"list,omitempty"`
	String string `yaml:"string,omitempty"`
	Host   string `yaml:"host,omitempty"`
}

type fileDisk struct {
	Scenarios []scenarioDisk `yaml:"scenarios"`
}

type scenarioDisk struct {
	Name   string    `yaml:"name"`
	Config yaml.Node `yaml:"config"`
	Steps  []Step    `yaml:"steps"`
}

// LoadFile parses a fixture file from disk.
func LoadFile(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("fixtures: read %s: %w", abs, err)
	}
	file, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fixtures: parse %s: %w", abs, err)
	}
	file.Path = abs
	return file, nil
}

// LoadDir parses every *.yml and *.yaml file in dir, sorted by name.
func LoadDir(dir string) ([]*File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("fixtures: read dir %s: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yml", ".yaml":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	files := make([]*File, 0, len(names))
	for _, name := range names {
		file, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

// Parse decodes a fixture document.
func Parse(data []byte) (*File, error) {
	var raw fileDisk
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	file := &File{}
	seen := make(map[string]bool)
	for idx, sd := range raw.Scenarios {
		name := strings.TrimSpace(sd.Name)
		if name == "" {
			return nil, fmt.Errorf("scenario %d: missing name", idx)
		}
		if seen[name] {
			return nil, fmt.Errorf("scenario %s: duplicate name", name)
		}
		seen[name] = true
		cfg, err := scenarioConfig(sd.Config)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: config: %w", name, err)
		}
		for stepIdx, step := range sd.Steps {
			if err := step.validate(); err != nil {
				return nil, fmt.Errorf("scenario %s: step %d: %w", name, stepIdx, err)
			}
		}
		file.Scenarios = append(file.Scenarios, &Scenario{
			Name:            name,
			Config:          cfg,
			Steps:           sd.Steps,
			HasInlineConfig: sd.Config.Kind != 0,
		})
	}
	return file, nil
}

// scenarioConfig decodes an inline config block. Scenarios default to the
// error policy so that a bad index is reported rather than ending the run.
func scenarioConfig(node yaml.Node) (config.Config, error) {
	base := config.Default()
	base.FaultPolicy = config.FaultError
	if node.Kind == 0 {
		return base, nil
	}
	data, err := yaml.Marshal(&node)
	if err != nil {
		return config.Config{}, err
	}
	return config.ParseOver(data, base)
}

func (s Step) validate() error {
	switch s.Op {
	case OpListNew, OpStringNew:
		if s.Ref == "" {
			return fmt.Errorf("%s requires ref", s.Op)
		}
	case OpListAppend:
		if s.Target == "" || s.Value == nil {
			return fmt.Errorf("%s requires target and value", s.Op)
		}
	case OpStringAdd:
		if s.Target == "" || s.Ref == "" {
			return fmt.Errorf("%s requires target and ref", s.Op)
		}
	case OpStringConcat:
		if s.Target == "" || s.Other == "" || s.Ref == "" {
			return fmt.Errorf("%s requires target, other and ref", s.Op)
		}
	case OpListAt, OpListLen, OpStringLength, OpStringAt:
		if s.Target == "" {
			return fmt.Errorf("%s requires target", s.Op)
		}
	default:
		return fmt.Errorf("unknown op %q", s.Op)
	}
	if s.ExpectByte != "" && len(s.ExpectByte) != 1 {
		return fmt.Errorf("expect_byte must be a single byte, got %q", s.ExpectByte)
	}
	switch s.ExpectError {
	case "", "index", "allocation", "handle", "exit":
	default:
		return fmt.Errorf("unknown expect_error %q", s.ExpectError)
	}
	return nil
}
