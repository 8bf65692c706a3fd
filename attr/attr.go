// Package attr implements the bracketed attribute blocks that decorate
// headings, paragraphs, lists, code fences, tables and fields:
//
//	[#id .class .xs:col-8 key="value" other='value']
package attr

import (
	"html"
	"strings"
)

// Pair is a key/value attribute.
type Pair struct {
	Key string
	Val string
}

// Block is a parsed attribute block.
type Block struct {
	ID      string
	Classes []string
	Attrs   []Pair
}

// Parse scans an attribute block starting at s[i], which must be '['.
// It returns the block, the index just after the closing ']' and true,
// or false when the text is not a valid attribute block, in which case
// it must be treated as normal text.
func Parse(s string, i int) (Block, int, bool) {
	if i < 0 || i >= len(s) || s[i] != '[' {
		return Block{}, i, false
	}

	b := Block{}
	j := i + 1
	for {
		j = skipWhiteSpace(s, j)

		// Unterminated before the end of the line
		if j >= len(s) || s[j] == '\n' || s[j] == '\r' {
			return Block{}, i, false
		}

		switch s[j] {
		case ']':
			return b, j + 1, true

		case '#':
			word, next := readWord(s, j+1)
			if word == "" {
				return Block{}, i, false
			}
			// The last id wins
			b.ID = word
			j = next

		case '.':
			word, next := readWord(s, j+1)
			if word == "" {
				return Block{}, i, false
			}
			b.AddClass(word)
			j = next

		default:
			key, val, next, ok := readKeyValue(s, j)
			if !ok {
				return Block{}, i, false
			}
			b.Set(key, val)
			j = next
		}
	}
}

// ParseLine matches when the whole line, ignoring surrounding whitespace,
// is a single attribute block.
func ParseLine(line string) (Block, bool) {
	t := strings.TrimSpace(line)
	if len(t) == 0 || t[0] != '[' {
		return Block{}, false
	}
	b, end, ok := Parse(t, 0)
	if !ok || end != len(t) {
		return Block{}, false
	}
	return b, true
}

// Leading matches an attribute block at the start of line (after
// indentation) followed by more text. It returns the block and the
// remaining text with the separating whitespace removed.
func Leading(line string) (Block, string, bool) {
	start := skipWhiteSpace(line, 0)
	b, end, ok := Parse(line, start)
	if !ok {
		return Block{}, line, false
	}
	rest := line[skipWhiteSpace(line, end):]
	return b, rest, true
}

// AddClass appends a class unless it is already present.
func (b *Block) AddClass(class string) {
	for _, c := range b.Classes {
		if c == class {
			return
		}
	}
	b.Classes = append(b.Classes, class)
}

// HasClass reports whether the block has the class.
func (b Block) HasClass(class string) bool {
	for _, c := range b.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// Set sets an attribute, overwriting a previous value in place.
func (b *Block) Set(key, val string) {
	for i := range b.Attrs {
		if b.Attrs[i].Key == key {
			b.Attrs[i].Val = val
			return
		}
	}
	b.Attrs = append(b.Attrs, Pair{Key: key, Val: val})
}

// Get returns the value of an attribute.
func (b Block) Get(key string) (string, bool) {
	for _, p := range b.Attrs {
		if p.Key == key {
			return p.Val, true
		}
	}
	return "", false
}

// IsEmpty reports whether the block has nothing to render.
func (b Block) IsEmpty() bool {
	return b.ID == "" && len(b.Classes) == 0 && len(b.Attrs) == 0
}

// Merge returns a new block with other applied on top of b: a non-empty id
// of other replaces ours, classes are appended and attributes overwritten.
func (b Block) Merge(other Block) Block {
	m := Block{ID: b.ID}
	m.Classes = append(m.Classes, b.Classes...)
	m.Attrs = append(m.Attrs, b.Attrs...)

	if other.ID != "" {
		m.ID = other.ID
	}
	for _, c := range other.Classes {
		m.AddClass(c)
	}
	for _, p := range other.Attrs {
		m.Set(p.Key, p.Val)
	}
	return m
}

// Render writes the block as HTML attributes, each one preceded by a space.
// Every class is prefixed with prefix. The result is empty for an empty block.
func (b Block) Render(prefix string) string {
	if b.IsEmpty() {
		return ""
	}

	var sb strings.Builder
	if b.ID != "" {
		sb.WriteString(` id="`)
		sb.WriteString(html.EscapeString(b.ID))
		sb.WriteByte('"')
	}
	if len(b.Classes) > 0 {
		sb.WriteString(` class="`)
		for i, c := range b.Classes {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(html.EscapeString(prefix + c))
		}
		sb.WriteByte('"')
	}
	for _, p := range b.Attrs {
		sb.WriteByte(' ')
		sb.WriteString(html.EscapeString(p.Key))
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(p.Val))
		sb.WriteByte('"')
	}
	return sb.String()
}

func skipWhiteSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

// readWord reads an id or class token, which ends on whitespace or ']'
func readWord(s string, i int) (string, int) {
	start := i
	for i < len(s) {
		c := s[i]
		if c == ' ' || c == '\t' || c == ']' || c == '\n' || c == '\r' {
			break
		}
		// Quotes and brackets are never part of a token
		if c == '"' || c == '\'' || c == '[' {
			return "", start
		}
		i++
	}
	return s[start:i], i
}

// readKeyValue reads key="value" or key='value'
func readKeyValue(s string, i int) (key, val string, next int, ok bool) {

	// Select the key, made of letters, digits, '-', '_' and ':'
	start := i
	for i < len(s) && isKeyChar(s[i], i == start) {
		i++
	}
	if i == start {
		return "", "", i, false
	}
	key = s[start:i]

	// The '=' sign must follow, optionally surrounded by blanks
	i = skipWhiteSpace(s, i)
	if i >= len(s) || s[i] != '=' {
		return "", "", i, false
	}
	i = skipWhiteSpace(s, i+1)

	// This must be the quotation mark
	if i >= len(s) || (s[i] != '"' && s[i] != '\'') {
		return "", "", i, false
	}
	quote := s[i]
	i++

	// The value is the literal run up to the matching quote, on the same line
	vstart := i
	for i < len(s) && s[i] != quote {
		if s[i] == '\n' {
			return "", "", i, false
		}
		i++
	}
	if i >= len(s) {
		return "", "", i, false
	}
	val = s[vstart:i]
	i++

	// The value must be followed by whitespace or the end of the block
	if i < len(s) && s[i] != ' ' && s[i] != '\t' && s[i] != ']' {
		return "", "", i, false
	}

	return key, val, i, true
}

func isKeyChar(c byte, first bool) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case first:
		return false
	case c >= '0' && c <= '9', c == '-', c == '_', c == ':':
		return true
	}
	return false
}
