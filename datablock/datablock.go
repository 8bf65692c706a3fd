// Package datablock extracts the data blocks of a document.
//
// A data block holds HCL attributes:
//
//	:::data
//	name = "Ana"
//	tags = ["a", "b"]
//	:::
//
// and a table block holds comma or tab separated text, which becomes a
// data entry with the given name:
//
//	:::csv people
//	name,age
//	Ana,31
//	:::
package datablock

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/hesusruiz/formrite/delimited"
	"github.com/hesusruiz/formrite/diag"
	"github.com/hesusruiz/formrite/lines"
	"github.com/hesusruiz/formrite/sliceedit"
)

// Data is the merged content of all the data blocks of a document.
type Data map[string]any

// Keys returns the keys in lexical order.
func (d Data) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Block kinds
const (
	kindData = "data"
	kindCSV  = "csv"
	kindTSV  = "tsv"
)

type block struct {
	kind   string
	name   string
	header *lines.Line
	body   []*lines.Line
}

// Parse extracts the data blocks of src, returning the merged data, the
// body with the blocks blanked and the problems found. A block with errors is
// dropped without affecting the others.
func Parse(src string) (Data, string, diag.List) {
	var errs diag.List
	data := Data{}
	ed := sliceedit.NewBuffer(src)

	s := lines.NewScanner(src)
	var current *block
	for l := s.ReadLine(); l != nil; l = s.ReadLine() {
		if l.Block == "" {
			continue
		}

		// The opening line
		if current == nil {
			current = &block{header: l}
			fields := strings.Fields(strings.TrimPrefix(l.Block, lines.BlockOpener))
			current.kind = strings.ToLower(fields[0])
			if len(fields) > 1 {
				current.name = fields[1]
			}
			continue
		}

		// The closing line
		if lines.IsBlockCloser(l.Text) {
			blank(ed, src, current.header.Start, l.End)
			errs.Append(current.decode(data))
			current = nil
			continue
		}

		current.body = append(current.body, l)
	}

	// An unterminated block loses only its opening line, so the rest of
	// the document is still processed
	if current != nil {
		errs.Add(diag.Errorf(diag.Pos{Line: current.header.Num, Column: 1},
			"unterminated data block %q", current.header.Text))
		ed.Replace(current.header.Start, current.header.Start+len(current.header.Text), "")
	}

	return data, ed.String(), errs
}

// blank replaces the lines in src[start:end] with empty lines
func blank(ed *sliceedit.Buffer, src string, start, end int) {
	ed.Replace(start, end, strings.Repeat("\n", strings.Count(src[start:end], "\n")))
}

func (b *block) text() string {
	var sb strings.Builder
	for _, l := range b.body {
		sb.WriteString(l.Text)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (b *block) decode(data Data) diag.List {
	pos := diag.Pos{Line: b.header.Num, Column: 1}

	switch b.kind {
	case kindData:
		values, errs := decodeHCL(b.text(), b.header.Num+1)
		if len(errs) > 0 {
			return errs
		}
		for k, v := range values {
			data[k] = v
		}
		return nil

	case kindCSV, kindTSV:
		if b.name == "" {
			return diag.List{diag.Errorf(pos, "%s block without a name", b.kind)}
		}
		delim := ','
		if b.kind == kindTSV {
			delim = '\t'
		}
		data[b.name] = delimited.Normalize(b.text(), delim, delimited.WithQuotes()).Data()
		return nil

	default:
		return diag.List{diag.Errorf(pos, "unknown block type %q", b.kind)}
	}
}

// decodeHCL evaluates the literal attributes of an HCL body whose first
// line is firstLine in the document.
func decodeHCL(src string, firstLine int) (map[string]any, diag.List) {
	file, hdiags := hclsyntax.ParseConfig([]byte(src), "data", hcl.Pos{Line: firstLine, Column: 1, Byte: 0})
	if hdiags.HasErrors() {
		return nil, fromHCL(hdiags, firstLine)
	}

	attrs, hdiags := file.Body.JustAttributes()
	if hdiags.HasErrors() {
		return nil, fromHCL(hdiags, firstLine)
	}

	values := make(map[string]any, len(attrs))
	var errs diag.List
	for name, a := range attrs {

		// Values must be literals: no variables or functions are defined
		v, hdiags := a.Expr.Value(nil)
		if hdiags.HasErrors() {
			errs.Append(fromHCL(hdiags, firstLine))
			continue
		}

		native, err := toNative(v)
		if err != nil {
			errs.Add(diag.Errorf(diag.Pos{Line: a.Range.Start.Line, Column: a.Range.Start.Column},
				"attribute %q: %v", name, err))
			continue
		}
		values[name] = native
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return values, nil
}

func fromHCL(hdiags hcl.Diagnostics, firstLine int) diag.List {
	var errs diag.List
	for _, d := range hdiags {
		if d.Severity != hcl.DiagError {
			continue
		}
		pos := diag.Pos{Line: firstLine, Column: 1}
		if d.Subject != nil {
			pos = diag.Pos{Line: d.Subject.Start.Line, Column: d.Subject.Start.Column}
		}
		msg := d.Summary
		if d.Detail != "" {
			msg = fmt.Sprintf("%s: %s", d.Summary, d.Detail)
		}
		errs.Add(diag.Errorf(pos, "%s", msg))
	}
	return errs
}
