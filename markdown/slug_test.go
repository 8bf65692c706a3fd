package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello-world"},
		{"<em>Tom</em> &amp; Jerry", "tom-jerry"},
		{"  Spaces   everywhere ", "spaces-everywhere"},
		{"Año 2024", "año-2024"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.in))
		})
	}
}

func TestSluggerUnique(t *testing.T) {
	s := NewSlugger()
	assert.Equal(t, "intro", s.Unique("Intro"))
	assert.Equal(t, "intro-1", s.Unique("Intro"))
	assert.Equal(t, "intro-2", s.Unique("intro"))
	assert.Equal(t, "section", s.Unique("???"))
	assert.Equal(t, "section-1", s.Unique(""))
}

func TestSluggerReserve(t *testing.T) {
	s := NewSlugger()
	s.Reserve("intro")
	assert.Equal(t, "intro-1", s.Unique("Intro"))

	// A slug already handed out that looks like a suffixed one
	s.Reserve("setup-1")
	assert.Equal(t, "setup", s.Unique("Setup"))
	assert.Equal(t, "setup-2", s.Unique("Setup"))
}

func TestSluggerReserveTaken(t *testing.T) {
	s := NewSlugger()
	assert.Equal(t, "foo", s.Unique("Foo"))

	id, ok := s.Reserve("foo")
	assert.False(t, ok)
	assert.Equal(t, "foo-1", id)

	id, ok = s.Reserve("bar")
	assert.True(t, ok)
	assert.Equal(t, "bar", id)
	assert.Equal(t, "foo-2", s.Unique("Foo"))
}
