// Package field parses and renders the form field declarations:
//
//	name* = ChoiceInput(
//	  | question = Favourite colour?
//	  | choices = Red, Green, Blue
//	  | checked = green
//	)
//
// A '*' after the name makes the field required. Options go after the '(',
// separated by '|', either on the same line or on continuation lines that
// start with '|'. The declaration ends with ')', at the end of the last
// option or on a line of its own.
package field

import (
	"fmt"
	"strings"

	"github.com/hesusruiz/formrite/attr"
	"github.com/hesusruiz/formrite/diag"
)

// Field is a parsed field declaration.
type Field struct {
	Name     string
	Required bool
	Kind     Kind
	Common   Common
	Options  Options

	// Attrs is the attribute block that precedes the declaration, if any
	Attrs attr.Block

	// Pos is the position of the first character of the declaration
	Pos diag.Pos
}

// ControlID is the id of the control, derived from the name.
func (f *Field) ControlID() string {
	return "id_" + f.Name
}

type param struct {
	key   string
	value string
	bare  bool
	pos   diag.Pos
}

func (p param) errorf(format string, args ...any) *diag.SyntaxError {
	return diag.Errorf(p.pos, format, args...)
}

// header is the part of a declaration up to the '('
type header struct {
	name     string
	required bool
	keyword  string
	kwCol    int
	open     int
}

// IsHeader reports whether line starts a field declaration.
func IsHeader(line string) bool {
	_, ok := scanHeader(line)
	return ok
}

// IsComplete reports whether the trimmed line ends a declaration.
func IsComplete(line string) bool {
	return strings.HasSuffix(strings.TrimSpace(line), ")")
}

// IsContinuation reports whether line continues an open declaration,
// either with more options or with the closing ')'.
func IsContinuation(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "|") || t == ")"
}

// scanHeader scans: name ['*'] '=' Keyword '('
func scanHeader(line string) (header, bool) {
	h := header{}
	i := skipBlanks(line, 0)

	// The name
	start := i
	for i < len(line) && isNameChar(line[i], i == start) {
		i++
	}
	if i == start {
		return h, false
	}
	h.name = line[start:i]

	// The required marker must follow the name without spaces
	if i < len(line) && line[i] == '*' {
		h.required = true
		i++
	}

	i = skipBlanks(line, i)
	if i >= len(line) || line[i] != '=' {
		return h, false
	}
	i = skipBlanks(line, i+1)

	// The type keyword
	start = i
	for i < len(line) && isNameChar(line[i], i == start) {
		i++
	}
	if i == start {
		return h, false
	}
	h.keyword = line[start:i]
	h.kwCol = start

	i = skipBlanks(line, i)
	if i >= len(line) || line[i] != '(' {
		return h, false
	}
	h.open = i
	return h, true
}

// ParseDeclaration parses the lines of a declaration. pos is the position
// of the first character of lines[0]; the other lines are full source lines.
// Errors are *diag.SyntaxError.
func ParseDeclaration(lines []string, pos diag.Pos) (*Field, error) {
	if len(lines) == 0 {
		return nil, diag.Errorf(pos, "empty field declaration")
	}

	h, ok := scanHeader(lines[0])
	if !ok {
		return nil, diag.Errorf(pos, "malformed field declaration: expected name = Type(")
	}

	f := &Field{Name: h.name, Required: h.required, Pos: pos}

	kind, ok := LookupKind(h.keyword)
	if !ok {
		return nil, diag.Errorf(diag.Pos{Line: pos.Line, Column: pos.Column + h.kwCol},
			"unknown field type %q", h.keyword)
	}
	f.Kind = kind

	raw, err := splitParams(lines, pos, h.open)
	if err != nil {
		return nil, err
	}

	p, err := validate(kind, raw)
	if err != nil {
		return nil, err
	}

	f.Common = buildCommon(p)
	f.Options, err = buildOptions(kind, p)
	if err != nil {
		return nil, err
	}

	return f, nil
}

// chunk is a piece of source text with the position of its first byte
type chunk struct {
	text string
	line int
	col  int
}

func splitParams(lines []string, pos diag.Pos, open int) ([]param, error) {

	// The text after the '(' and then each continuation line
	chunks := []chunk{{text: lines[0][open+1:], line: pos.Line, col: pos.Column + open + 1}}
	for i, l := range lines[1:] {
		chunks = append(chunks, chunk{text: l, line: pos.Line + i + 1, col: 1})
	}

	// Remove the closing ')' of the last line
	last := &chunks[len(chunks)-1]
	trimmed := strings.TrimRight(last.text, " \t\r")
	if !strings.HasSuffix(trimmed, ")") {
		return nil, diag.Errorf(pos, "unterminated field declaration %q: missing ')'", strings.TrimSpace(lines[0]))
	}
	last.text = trimmed[:len(trimmed)-1]

	var params []param
	for i, c := range chunks {
		if i > 0 {
			t := strings.TrimSpace(c.text)
			if t != "" && t[0] != '|' {
				return nil, diag.Errorf(diag.Pos{Line: c.line, Column: c.col + skipBlanks(c.text, 0)},
					"expected '|' at the start of a field option")
			}
		}
		for _, piece := range splitPipes(c) {
			prm, ok, err := parseParam(piece)
			if err != nil {
				return nil, err
			}
			if ok {
				params = append(params, prm)
			}
		}
	}
	return params, nil
}

// splitPipes splits a chunk on the '|' not escaped with a backslash
func splitPipes(c chunk) []chunk {
	var out []chunk
	var sb strings.Builder
	start := 0
	for i := 0; i < len(c.text); i++ {
		switch {
		case c.text[i] == '\\' && i+1 < len(c.text) && c.text[i+1] == '|':
			sb.WriteByte('|')
			i++
		case c.text[i] == '|':
			out = append(out, chunk{text: sb.String(), line: c.line, col: c.col + start})
			sb.Reset()
			start = i + 1
		default:
			sb.WriteByte(c.text[i])
		}
	}
	return append(out, chunk{text: sb.String(), line: c.line, col: c.col + start})
}

func parseParam(c chunk) (param, bool, error) {
	lead := skipBlanks(c.text, 0)
	t := strings.TrimSpace(c.text)
	if t == "" {
		return param{}, false, nil
	}
	prm := param{pos: diag.Pos{Line: c.line, Column: c.col + lead}}

	key, value, found := strings.Cut(t, "=")
	key = strings.TrimSpace(key)
	if !validKey(key) {
		return prm, false, prm.errorf("malformed field option %q", t)
	}
	prm.key = normalizeWord(key)
	if !found {
		prm.bare = true
		return prm, true, nil
	}
	prm.value = strings.TrimSpace(value)
	return prm, true, nil
}

func validKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		if !isNameChar(key[i], i == 0) {
			return false
		}
	}
	return true
}

func isNameChar(c byte, first bool) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		return true
	case first:
		return false
	case c >= '0' && c <= '9', c == '-':
		return true
	}
	return false
}

func skipBlanks(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

// DuplicateError is the error for a name declared twice in a slide.
func DuplicateError(f *Field, first diag.Pos) *diag.SyntaxError {
	return diag.Errorf(f.Pos, "duplicate field name %q, first declared at line %d", f.Name, first.Line)
}

func (f *Field) String() string {
	req := ""
	if f.Required {
		req = "*"
	}
	return fmt.Sprintf("%s%s = %s(...)", f.Name, req, f.Kind)
}
