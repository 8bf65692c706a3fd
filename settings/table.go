package settings

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Spec describes one setting: its default value and the accepted values.
type Spec struct {
	Key     string   `yaml:"key"`
	Default string   `yaml:"default"`
	Enum    []string `yaml:"enum"`
	Toggle  bool     `yaml:"toggle"`
	Doc     string   `yaml:"doc"`
}

// Table is an immutable defaults table.
type Table struct {
	specs []Spec
	index map[string]int
}

var (
	defaultsOnce  sync.Once
	defaultsTable Table
	defaultsErr   error
)

// Defaults returns the built-in defaults table.
// It panics if the embedded table is malformed, which is a build defect.
func Defaults() Table {
	defaultsOnce.Do(func() {
		var specs []Spec
		if err := yaml.Unmarshal(defaultsYAML, &specs); err != nil {
			defaultsErr = fmt.Errorf("parsing embedded defaults: %w", err)
			return
		}
		defaultsTable, defaultsErr = NewTable(specs)
	})
	if defaultsErr != nil {
		panic(defaultsErr)
	}
	return defaultsTable
}

// NewTable builds a defaults table, validating that keys are unique and
// that toggle and enum defaults are acceptable values.
func NewTable(specs []Spec) (Table, error) {
	t := Table{index: make(map[string]int, len(specs))}
	for _, s := range specs {
		s.Key = NormalizeKey(s.Key)
		if s.Key == "" {
			return Table{}, fmt.Errorf("setting with an empty key")
		}
		if _, dup := t.index[s.Key]; dup {
			return Table{}, fmt.Errorf("duplicate setting %q", s.Key)
		}
		if s.Toggle {
			if _, ok := parseToggle(s.Default); !ok {
				return Table{}, fmt.Errorf("setting %q: invalid toggle default %q", s.Key, s.Default)
			}
		}
		if len(s.Enum) > 0 && !contains(s.Enum, s.Default) {
			return Table{}, fmt.Errorf("setting %q: default %q not in %v", s.Key, s.Default, s.Enum)
		}
		t.index[s.Key] = len(t.specs)
		t.specs = append(t.specs, s)
	}
	return t, nil
}

// Spec returns the description of a setting.
func (t Table) Spec(key string) (Spec, bool) {
	i, ok := t.index[NormalizeKey(key)]
	if !ok {
		return Spec{}, false
	}
	s := t.specs[i]
	s.Enum = append([]string(nil), s.Enum...)
	return s, true
}

// Len returns the number of settings in the table.
func (t Table) Len() int {
	return len(t.specs)
}

// Settings returns the settings holding only the default values.
func (t Table) Settings() Settings {
	s := newSettings()
	for _, spec := range t.specs {
		if spec.Toggle {
			on, _ := parseToggle(spec.Default)
			s.set(spec.Key, BoolValue(on))
			continue
		}
		s.set(spec.Key, StringValue(spec.Default))
	}
	return s
}

// NormalizeKey lowercases a key and converts '_' and blanks to '-'.
func NormalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	return strings.Map(func(r rune) rune {
		if r == '_' || r == ' ' {
			return '-'
		}
		return r
	}, key)
}

func parseToggle(v string) (bool, bool) {
	switch strings.ToLower(v) {
	case "show", "true":
		return true, true
	case "hide", "false":
		return false, true
	}
	return false, false
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
