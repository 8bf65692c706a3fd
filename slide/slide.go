// Package slide splits a document into slides and wraps the rendered
// slides with the navigation scaffolding used by the runtime.
package slide

import (
	"strconv"
	"strings"

	"github.com/hesusruiz/formrite/diag"
	"github.com/hesusruiz/formrite/field"
	"github.com/hesusruiz/formrite/lines"
	"github.com/hesusruiz/formrite/sliceedit"
)

// DefaultDelimiter separates slides when the document does not set one
const DefaultDelimiter = "---"

// Directive prefixes, only recognized at the top of a slide
const (
	progressDirective = "|>"
	jumpDirective     = "->"
	noPrevDirective   = "<<"
)

// Options configure the segmentation.
type Options struct {
	// Delimiter is the line that separates slides
	Delimiter string
}

// Segment is the source of one slide.
type Segment struct {
	Index int

	// Source is the markdown of the slide, with the directives blanked out
	Source string

	// FirstLine is the document line where Source starts
	FirstLine int

	PageProgress    *int
	JumpExpression  string
	DisablePrevious bool
}

// Split cuts body into segments at the delimiter lines that are not inside
// a code fence or a field declaration. An unterminated code fence is fatal.
func Split(body string, opts Options) ([]Segment, diag.List, error) {
	delim := strings.TrimSpace(opts.Delimiter)
	if delim == "" {
		delim = DefaultDelimiter
	}

	var diags diag.List
	var segs []Segment

	start, firstLine := 0, 1
	fieldOpen := false

	cut := func(end int) {
		segs = append(segs, Segment{Source: body[start:end], FirstLine: firstLine})
	}

	s := lines.NewScanner(body)
	for l := s.ReadLine(); l != nil; l = s.ReadLine() {
		if l.Fenced || l.Block != "" {
			continue
		}

		isDelimiter := strings.TrimSpace(l.Text) == delim

		if fieldOpen {
			if field.IsContinuation(l.Text) {
				if strings.TrimSpace(l.Text) == ")" {
					fieldOpen = false
				}
				continue
			}
			fieldOpen = false
			if isDelimiter {
				// Never split inside a declaration
				continue
			}
		}

		if field.IsHeader(l.Text) && !field.IsComplete(l.Text) {
			fieldOpen = true
			continue
		}

		if isDelimiter {
			cut(l.Start)
			start, firstLine = l.End, l.Num+1
		}
	}

	if line, open := s.OpenFence(); open {
		err := diag.Fatalf(diag.Pos{Line: line, Column: 1}, "unterminated code fence")
		diags.Add(err)
		return nil, diags, err
	}
	cut(len(body))

	// Drop the empty slides, like the one after a trailing delimiter
	var result []Segment
	for _, seg := range segs {
		if strings.TrimSpace(seg.Source) == "" {
			continue
		}
		diags.Append(seg.directives())
		seg.Index = len(result)
		result = append(result, seg)
	}
	if len(result) == 0 {
		result = append(result, Segment{FirstLine: 1})
	}

	return result, diags, nil
}

// directives extracts the directive lines at the top of the segment,
// replacing them with blank lines so that line numbers do not change
func (seg *Segment) directives() diag.List {
	var diags diag.List
	buf := sliceedit.NewBuffer(seg.Source)

	s := lines.NewScanner(seg.Source)
	for l := s.ReadLine(); l != nil; l = s.ReadLine() {
		text := strings.TrimSpace(l.Text)
		if text == "" {
			continue
		}
		if l.Fenced || l.Block != "" {
			break
		}

		pos := diag.Pos{Line: seg.FirstLine + l.Num - 1, Column: strings.Index(l.Text, text) + 1}

		switch {
		case strings.HasPrefix(text, progressDirective):
			arg := strings.TrimSpace(text[len(progressDirective):])
			p, err := parseProgress(arg)
			if err != nil {
				diags.Add(diag.Errorf(pos, "invalid page progress %q: expected a percentage between 0 and 100", arg))
			} else {
				seg.PageProgress = &p
			}

		case strings.HasPrefix(text, jumpDirective):
			expr := strings.TrimSpace(text[len(jumpDirective):])
			if expr == "" {
				diags.Add(diag.Errorf(pos, "empty jump expression"))
			} else {
				seg.JumpExpression = expr
			}

		case text == noPrevDirective:
			seg.DisablePrevious = true

		default:
			seg.Source = buf.String()
			return diags
		}

		// Keep the newline
		buf.Replace(l.Start, l.Start+len(l.Text), "")
	}

	seg.Source = buf.String()
	return diags
}

func parseProgress(arg string) (int, error) {
	arg = strings.TrimSpace(strings.TrimSuffix(arg, "%"))
	p, err := strconv.Atoi(arg)
	if err != nil {
		return 0, err
	}
	if p < 0 || p > 100 {
		return 0, strconv.ErrRange
	}
	return p, nil
}
