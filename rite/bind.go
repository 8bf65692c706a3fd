package rite

import (
	"strconv"
	"strings"

	"github.com/hesusruiz/formrite/diag"
	"github.com/hesusruiz/formrite/lines"
	"github.com/hesusruiz/formrite/sliceedit"
)

// Binding point delimiters
const (
	bindOpen  = "{$"
	bindClose = "$}"
)

// extractBinds replaces every {$ ... $} fragment outside code fences with
// an empty binding point, returning the fragments keyed by their reference.
// A fragment must open and close in the same line.
func extractBinds(body, prefix string) (string, map[string]string, diag.List) {
	var diags diag.List
	binds := map[string]string{}
	ed := sliceedit.NewBuffer(body)

	s := lines.NewScanner(body)
	for l := s.ReadLine(); l != nil; l = s.ReadLine() {
		if l.Fenced || l.Block != "" {
			continue
		}

		i := 0
		for {
			open := strings.Index(l.Text[i:], bindOpen)
			if open < 0 {
				break
			}
			open += i
			end := strings.Index(l.Text[open+len(bindOpen):], bindClose)
			if end < 0 {
				diags.Add(diag.Errorf(diag.Pos{Line: l.Num, Column: open + 1}, "unterminated binding: missing %q", bindClose))
				break
			}
			end += open + len(bindOpen)

			ref := "bind-" + strconv.Itoa(len(binds)+1)
			binds[ref] = strings.TrimSpace(l.Text[open+len(bindOpen) : end])
			span := `<span class="` + prefix + `bind" data-` + prefix + `bind="` + ref + `"></span>`
			ed.Replace(l.Start+open, l.Start+end+len(bindClose), span)

			i = end + len(bindClose)
		}
	}

	return ed.String(), binds, diags
}
