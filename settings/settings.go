// Package settings parses the "#! key = value" lines that configure a
// document, on top of a table of defaults.
package settings

import (
	"strings"

	"github.com/hesusruiz/formrite/diag"
	"github.com/hesusruiz/formrite/lines"
	"github.com/hesusruiz/formrite/sliceedit"
)

// Prefix starts every settings line.
const Prefix = "#!"

// Value is a string or boolean setting.
type Value struct {
	Str    string
	Bool   bool
	IsBool bool
}

func StringValue(s string) Value { return Value{Str: s} }

func BoolValue(b bool) Value { return Value{Bool: b, IsBool: true} }

// String returns the value as written in a document.
func (v Value) String() string {
	if !v.IsBool {
		return v.Str
	}
	if v.Bool {
		return "show"
	}
	return "hide"
}

// Settings is an ordered map of setting values.
type Settings struct {
	keys   []string
	values map[string]Value
}

func newSettings() Settings {
	return Settings{values: map[string]Value{}}
}

func (s *Settings) set(key string, v Value) {
	if s.values == nil {
		s.values = map[string]Value{}
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = v
}

// Get returns the value of a setting.
func (s Settings) Get(key string) (Value, bool) {
	v, ok := s.values[NormalizeKey(key)]
	return v, ok
}

// String returns a setting as a string, or "" when it does not exist.
func (s Settings) String(key string) string {
	v, _ := s.Get(key)
	return v.String()
}

// Bool returns a show/hide setting. A string setting is true when it is
// one of "show" or "true".
func (s Settings) Bool(key string) bool {
	v, ok := s.Get(key)
	if !ok {
		return false
	}
	if v.IsBool {
		return v.Bool
	}
	on, _ := parseToggle(v.Str)
	return on
}

func (s Settings) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Keys returns the keys in definition order: defaults first, then
// unknown keys in the order they appear in the document.
func (s Settings) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Map returns the settings for use in templates, with booleans as bool.
func (s Settings) Map() map[string]any {
	m := make(map[string]any, len(s.keys))
	for _, k := range s.keys {
		v := s.values[k]
		if v.IsBool {
			m[k] = v.Bool
		} else {
			m[k] = v.Str
		}
	}
	return m
}

// Parse extracts the settings lines of src, returning the resulting
// settings, the body with those lines blanked and the problems found.
// Lines inside code fences and data blocks are never settings.
func Parse(src string, defaults Table) (Settings, string, diag.List) {
	var errs diag.List

	st := defaults.Settings()
	ed := sliceedit.NewBuffer(src)

	s := lines.NewScanner(src)
	for l := s.ReadLine(); l != nil; l = s.ReadLine() {
		if l.Fenced || l.Block != "" {
			continue
		}

		trimmed := strings.TrimLeft(l.Text, " \t")
		if !strings.HasPrefix(trimmed, Prefix) {
			continue
		}

		// The line is blanked even when it is malformed, keeping the
		// line numbers of the body
		ed.Replace(l.Start, l.Start+len(l.Text), "")

		col := len(l.Text) - len(trimmed) + 1
		pos := diag.Pos{Line: l.Num, Column: col}

		decl := trimmed[len(Prefix):]
		eq := strings.IndexByte(decl, '=')
		if eq < 0 {
			errs.Add(diag.Errorf(pos, "malformed setting %q: expected key = value", strings.TrimSpace(decl)))
			continue
		}

		key := NormalizeKey(decl[:eq])
		if key == "" {
			errs.Add(diag.Errorf(pos, "malformed setting: empty key"))
			continue
		}
		raw := strings.TrimSpace(decl[eq+1:])

		// Resolve the fallback chain "a || b || c"
		val := raw
		if strings.Contains(raw, "||") {
			val = ""
			for _, operand := range strings.Split(raw, "||") {
				if operand = strings.TrimSpace(operand); operand != "" {
					val = operand
					break
				}
			}
			if val == "" {
				errs.Add(diag.Errorf(pos, "malformed fallback for setting %q: all operands are empty", key))
				continue
			}
		}

		spec, known := defaults.Spec(key)
		switch {
		case !known:
			st.set(key, StringValue(val))

		case spec.Toggle:
			on, ok := parseToggle(val)
			if !ok {
				errs.Add(diag.Errorf(pos, "invalid value %q for setting %q: expected show or hide", val, key))
				continue
			}
			st.set(key, BoolValue(on))

		case len(spec.Enum) > 0:
			if !contains(spec.Enum, strings.ToLower(val)) {
				errs.Add(diag.Errorf(pos, "invalid value %q for setting %q: expected one of %s", val, key, strings.Join(spec.Enum, ", ")))
				continue
			}
			st.set(key, StringValue(strings.ToLower(val)))

		default:
			st.set(key, StringValue(val))
		}
	}

	return st, ed.String(), errs
}
