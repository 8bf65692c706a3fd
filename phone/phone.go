// Package phone builds the country calling code options of telephone fields.
package phone

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed countries.yaml
var countriesYAML []byte

// Entry is a country of the registry.
type Entry struct {
	ISOCode     string `yaml:"iso"`
	CallingCode string `yaml:"code"`
	Example     string `yaml:"example"`
}

// Option is a country offered in the calling code selector.
type Option struct {
	ISOCode     string `json:"isoCode"`
	CallingCode string `json:"callingCode"`
	Placeholder string `json:"placeholder"`
	Selected    bool   `json:"selected"`
}

type registry struct {
	entries []Entry
	index   map[string]int
}

var (
	registryOnce sync.Once
	reg          registry
)

func load() registry {
	registryOnce.Do(func() {
		var entries []Entry
		if err := yaml.Unmarshal(countriesYAML, &entries); err != nil {
			panic(fmt.Errorf("parsing embedded country registry: %w", err))
		}
		reg = registry{entries: entries, index: make(map[string]int, len(entries))}
		for i, e := range entries {
			reg.index[strings.ToUpper(e.ISOCode)] = i
		}
	})
	return reg
}

// Registry returns a copy of the registry in canonical order.
func Registry() []Entry {
	return append([]Entry(nil), load().entries...)
}

// Lookup finds a country by its ISO code, ignoring case.
func Lookup(iso string) (Entry, bool) {
	r := load()
	i, ok := r.index[strings.ToUpper(strings.TrimSpace(iso))]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Options returns the countries to offer, with selected marked.
//
// With an empty restriction the whole registry is returned. Otherwise only
// the restricted countries are returned, in the given order and without
// duplicates or unknown codes. When selected is not one of them, its entry
// is put first so the current value is always visible.
func Options(selected string, restriction []string) []Option {
	selected = strings.ToUpper(strings.TrimSpace(selected))

	if len(restriction) == 0 {
		entries := load().entries
		opts := make([]Option, 0, len(entries))
		for _, e := range entries {
			opts = append(opts, newOption(e, selected))
		}
		return opts
	}

	// Normalize the restriction, preserving the order
	seen := map[string]bool{}
	var set []Entry
	for _, iso := range restriction {
		e, ok := Lookup(iso)
		if !ok || seen[e.ISOCode] {
			continue
		}
		seen[e.ISOCode] = true
		set = append(set, e)
	}

	var opts []Option
	if selected != "" && !seen[selected] {
		if e, ok := Lookup(selected); ok {
			opts = append(opts, newOption(e, selected))
		}
	}
	for _, e := range set {
		opts = append(opts, newOption(e, selected))
	}
	return opts
}

func newOption(e Entry, selected string) Option {
	return Option{
		ISOCode:     e.ISOCode,
		CallingCode: e.CallingCode,
		Placeholder: e.Example,
		Selected:    e.ISOCode == selected,
	}
}
