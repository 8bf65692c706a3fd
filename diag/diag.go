// Package diag holds the positioned syntax errors produced by every
// compiler stage.
package diag

import (
	"errors"
	"fmt"
	"strings"
)

// Severity tells whether compilation can continue after an error.
type Severity int

const (
	// Recoverable errors are replaced by a placeholder or a default value.
	Recoverable Severity = iota
	// Fatal errors abort the compilation.
	Fatal
)

func (s Severity) String() string {
	if s == Fatal {
		return "fatal"
	}
	return "recoverable"
}

// ErrFatal is wrapped by every error that aborts a compilation.
var ErrFatal = errors.New("fatal syntax error")

// Pos is a 1-based position in the source document.
type Pos struct {
	Line   int
	Column int
}

type SyntaxError struct {
	File     string
	Line     int
	Column   int
	Msg      string
	Severity Severity
}

func (e *SyntaxError) Error() string {
	file := e.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d: %s", file, e.Line, e.Column, e.Msg)
}

// Unwrap makes errors.Is(err, ErrFatal) true for fatal errors.
func (e *SyntaxError) Unwrap() error {
	if e.Severity == Fatal {
		return ErrFatal
	}
	return nil
}

// Errorf builds a recoverable SyntaxError at pos.
func Errorf(pos Pos, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Line:   pos.Line,
		Column: pos.Column,
		Msg:    fmt.Sprintf(format, args...),
	}
}

// Fatalf builds a fatal SyntaxError at pos.
func Fatalf(pos Pos, format string, args ...any) *SyntaxError {
	se := Errorf(pos, format, args...)
	se.Severity = Fatal
	return se
}

// List is an ordered collection of syntax errors.
type List []*SyntaxError

func (l *List) Add(se *SyntaxError) {
	if se != nil {
		*l = append(*l, se)
	}
}

func (l *List) Append(other List) {
	*l = append(*l, other...)
}

// HasFatal reports whether any error in the list is fatal.
func (l List) HasFatal() bool {
	for _, se := range l {
		if se.Severity == Fatal {
			return true
		}
	}
	return false
}

// Err returns the first fatal error of the list, or nil.
func (l List) Err() error {
	for _, se := range l {
		if se.Severity == Fatal {
			return se
		}
	}
	return nil
}

// WithFile sets the file name on every error that does not have one.
func (l List) WithFile(name string) List {
	for _, se := range l {
		if se.File == "" {
			se.File = name
		}
	}
	return l
}

// Shift moves every error down by the given number of lines.
// It is used when a stage works on a fragment of the document.
func (l List) Shift(lines int) List {
	for _, se := range l {
		se.Line += lines
	}
	return l
}

func (l List) Error() string {
	msgs := make([]string, 0, len(l))
	for _, se := range l {
		msgs = append(msgs, se.Error())
	}
	return strings.Join(msgs, "\n")
}
