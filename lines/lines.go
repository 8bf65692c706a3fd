// Package lines scans a document one line at a time, keeping track of
// fenced code blocks and ::: data blocks so that the stages that work on
// raw source lines never look inside them.
package lines

import "strings"

// BlockOpener is the prefix of a data block delimiter line.
const BlockOpener = ":::"

// Line is a source line plus the state of the scanner when it was read.
type Line struct {
	// Num is the 1-based line number in the source
	Num int

	// Text is the line without the trailing newline (and carriage return)
	Text string

	// Start and End are the byte offsets of the line, with End just past the newline
	Start int
	End   int

	// Fenced is true for the lines of a code fence, including both fence lines
	Fenced bool

	// Block is the header of the enclosing data block (eg. ":::data"), or empty.
	// It is set on both delimiter lines too.
	Block string
}

// Scanner reads lines from a string.
type Scanner struct {
	src string
	pos int
	num int

	// Current open fence, if any
	fence     *fence
	fenceLine int

	// Current open data block, if any
	block     string
	blockLine int

	// To support one-level backtracking
	buffered *Line
}

func NewScanner(src string) *Scanner {
	return &Scanner{src: src}
}

// ReadLine returns the next line, or nil at the end of the source.
func (s *Scanner) ReadLine() *Line {

	// Return the buffered line if there is one
	if s.buffered != nil {
		l := s.buffered
		s.buffered = nil
		return l
	}

	if s.pos >= len(s.src) {
		return nil
	}

	// Cut the next line
	start := s.pos
	end := strings.IndexByte(s.src[start:], '\n')
	if end == -1 {
		end = len(s.src)
	} else {
		end = start + end + 1
	}
	s.pos = end
	s.num++

	text := strings.TrimRight(s.src[start:end], "\r\n")
	l := &Line{Num: s.num, Text: text, Start: start, End: end}

	// Inside a fence only the closing fence matters
	if s.fence != nil {
		l.Fenced = true
		if s.fence.closedBy(text) {
			s.fence = nil
		}
		return l
	}

	// Inside a data block only the closing delimiter matters
	if s.block != "" {
		l.Block = s.block
		if IsBlockCloser(text) {
			s.block = ""
		}
		return l
	}

	if f, ok := openFence(text); ok {
		s.fence = &f
		s.fenceLine = l.Num
		l.Fenced = true
		return l
	}

	if header, ok := BlockHeader(text); ok {
		s.block = header
		s.blockLine = l.Num
		l.Block = header
	}

	return l
}

// UnreadLine pushes back a line so the next ReadLine returns it again.
func (s *Scanner) UnreadLine(l *Line) {
	s.buffered = l
}

// OpenFence returns the line where a code fence was opened and never closed.
func (s *Scanner) OpenFence() (int, bool) {
	if s.fence == nil {
		return 0, false
	}
	return s.fenceLine, true
}

// OpenBlock returns the header and line of a data block that was never closed.
func (s *Scanner) OpenBlock() (string, int, bool) {
	if s.block == "" {
		return "", 0, false
	}
	return s.block, s.blockLine, true
}

// All reads the whole source.
func All(src string) []*Line {
	var all []*Line
	s := NewScanner(src)
	for l := s.ReadLine(); l != nil; l = s.ReadLine() {
		all = append(all, l)
	}
	return all
}

// BlockHeader reports whether text opens a data block, returning the
// trimmed header like ":::data" or ":::csv people".
func BlockHeader(text string) (string, bool) {
	t, ok := trimIndent(text)
	if !ok || !strings.HasPrefix(t, BlockOpener) {
		return "", false
	}
	t = strings.TrimSpace(t)
	rest := strings.TrimSpace(t[len(BlockOpener):])
	if rest == "" || rest[0] == ':' {
		return "", false
	}
	return BlockOpener + rest, true
}

// IsBlockCloser reports whether text is a bare ::: line.
func IsBlockCloser(text string) bool {
	return strings.TrimSpace(text) == BlockOpener
}

// IsFence reports whether text opens a code fence.
func IsFence(text string) bool {
	_, ok := openFence(text)
	return ok
}

type fence struct {
	char byte
	size int
}

func openFence(text string) (fence, bool) {
	t, ok := trimIndent(text)
	if !ok || len(t) < 3 {
		return fence{}, false
	}

	c := t[0]
	if c != '`' && c != '~' {
		return fence{}, false
	}

	// Count the fence characters
	n := 0
	for n < len(t) && t[n] == c {
		n++
	}
	if n < 3 {
		return fence{}, false
	}

	// An info string of a backtick fence can not contain backticks
	if c == '`' && strings.IndexByte(t[n:], '`') >= 0 {
		return fence{}, false
	}

	return fence{char: c, size: n}, true
}

func (f *fence) closedBy(text string) bool {
	t, ok := trimIndent(text)
	if !ok {
		return false
	}
	n := 0
	for n < len(t) && t[n] == f.char {
		n++
	}
	if n < f.size {
		return false
	}
	return strings.TrimSpace(t[n:]) == ""
}

// trimIndent removes up to three spaces of indentation. It fails when the
// line is indented four or more spaces, which makes it an indented code line.
func trimIndent(text string) (string, bool) {
	i := 0
	for i < len(text) && text[i] == ' ' {
		i++
	}
	if i > 3 {
		return "", false
	}
	return text[i:], true
}
