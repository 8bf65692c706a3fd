// Package i18n translates the fixed strings of the generated markup.
package i18n

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when a key is missing in the requested locale.
const DefaultLocale = "en"

var ErrMissingTranslation = errors.New("missing translation")

// Translator resolves a translation key for a locale.
type Translator interface {
	Translate(locale, key string) (string, error)
}

//go:embed translations.yaml
var translationsYAML []byte

// Catalog is an immutable in-memory Translator.
type Catalog struct {
	tables map[string]map[string]string
}

// NewCatalog builds a catalog from per-locale tables. The tables are copied.
func NewCatalog(tables map[string]map[string]string) *Catalog {
	c := &Catalog{tables: make(map[string]map[string]string, len(tables))}
	for locale, table := range tables {
		t := make(map[string]string, len(table))
		for k, v := range table {
			t[k] = v
		}
		c.tables[normalizeLocale(locale)] = t
	}
	return c
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		var tables map[string]map[string]string
		if err := yaml.Unmarshal(translationsYAML, &tables); err != nil {
			panic(fmt.Errorf("parsing embedded translations: %w", err))
		}
		defaultCatalog = NewCatalog(tables)
	})
	return defaultCatalog
}

// Translate looks the key up in the locale, then in its base language
// ("es" for "es-MX").
func (c *Catalog) Translate(locale, key string) (string, error) {
	locale = normalizeLocale(locale)
	for _, l := range []string{locale, baseLanguage(locale)} {
		if v, ok := c.tables[l][key]; ok {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %s/%s", ErrMissingTranslation, locale, key)
}

// Locales returns the locales in the catalog.
func (c *Catalog) Locales() []string {
	var out []string
	for l := range c.tables {
		out = append(out, l)
	}
	return out
}

// Text translates key, falling back to the default locale and then to
// the key itself, so it always returns something printable.
func Text(t Translator, locale, key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if t == nil {
		t = Default()
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}

	result, err = t.Translate(DefaultLocale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return key
}

// Format translates key and replaces the {name} placeholders with args,
// given as name, value pairs.
func Format(t Translator, locale, key string, args ...string) string {
	s := Text(t, locale, key)
	for i := 0; i+1 < len(args); i += 2 {
		s = strings.ReplaceAll(s, "{"+args[i]+"}", args[i+1])
	}
	return s
}

func normalizeLocale(locale string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(locale), "_", "-"))
}

func baseLanguage(locale string) string {
	if i := strings.IndexByte(locale, '-'); i > 0 {
		return locale[:i]
	}
	return locale
}
