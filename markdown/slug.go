package markdown

import (
	"html"
	"strconv"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shurcooL/sanitized_anchor_name"
)

// defaultSlug is used for headings without any letter or digit
const defaultSlug = "section"

var (
	strictOnce   sync.Once
	strictPolicy *bluemonday.Policy
)

func strict() *bluemonday.Policy {
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// PlainText removes the tags of s and decodes its entities.
func PlainText(s string) string {
	return html.UnescapeString(strict().Sanitize(s))
}

// Slug converts text to an anchor name: tags are removed, letters are
// lowercased and every run of other characters becomes a single '-'.
func Slug(text string) string {
	return sanitized_anchor_name.Create(PlainText(text))
}

// Slugger hands out slugs that are unique within a document.
// It is not safe for concurrent use.
type Slugger struct {
	used map[string]int
}

func NewSlugger() *Slugger {
	return &Slugger{used: map[string]int{}}
}

// Unique returns the slug of text, with a numeric suffix if it was
// already used: intro, intro-1, intro-2...
func (s *Slugger) Unique(text string) string {
	base := Slug(text)
	if base == "" {
		base = defaultSlug
	}
	if _, taken := s.used[base]; !taken {
		s.used[base] = 0
		return base
	}
	for {
		s.used[base]++
		candidate := base + "-" + strconv.Itoa(s.used[base])
		if _, taken := s.used[candidate]; !taken {
			s.used[candidate] = 0
			return candidate
		}
	}
}

// Reserve registers an explicit id so that later slugs do not collide with it.
// An id already in use gets a numeric suffix and ok is false.
func (s *Slugger) Reserve(id string) (string, bool) {
	if _, taken := s.used[id]; !taken {
		s.used[id] = 0
		return id, true
	}
	for {
		s.used[id]++
		candidate := id + "-" + strconv.Itoa(s.used[id])
		if _, taken := s.used[candidate]; !taken {
			s.used[candidate] = 0
			return candidate, false
		}
	}
}
