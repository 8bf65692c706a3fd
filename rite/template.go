package rite

import (
	"errors"
	"strconv"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/hesusruiz/formrite/datablock"
	"github.com/hesusruiz/formrite/diag"
	"github.com/hesusruiz/formrite/lines"
	"github.com/hesusruiz/formrite/settings"
	"github.com/hesusruiz/formrite/sliceedit"
)

// Tags that would let a document read files
var bannedTags = []string{"include", "import", "extends", "ssi"}

// Fenced lines are hidden from the template engine behind these markers
const (
	fenceMarkerStart = "\x1a"
	fenceMarkerEnd   = "\x1b"
)

// isTemplate reports whether body uses the template syntax
func isTemplate(body string) bool {
	return strings.Contains(body, "{{") || strings.Contains(body, "{%") || strings.Contains(body, "{#")
}

// newTemplateSet returns a template set that cannot reach the file system
func newTemplateSet(name string) (*pongo2.TemplateSet, error) {
	set := pongo2.NewSet(name, pongo2.NewFSLoader(templatesFS))
	for _, tag := range bannedTags {
		if err := set.BanTag(tag); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// applyTemplate renders body as a template with the data of the document
// and its settings. The code fences are left untouched.
// When the template fails the body is returned unchanged with a diagnostic.
func applyTemplate(body string, data datablock.Data, st settings.Settings) (string, diag.List) {
	if !isTemplate(body) {
		return body, nil
	}

	hidden, fenced := hideFences(body)

	set, err := newTemplateSet("document")
	if err != nil {
		return body, diag.List{diag.Errorf(diag.Pos{Line: 1, Column: 1}, "preparing template: %v", err)}
	}
	set.Options.TrimBlocks = true
	set.Options.LStripBlocks = true

	tpl, err := set.FromString(hidden)
	if err != nil {
		return body, diag.List{templateError(err)}
	}

	ctx := pongo2.Context{}
	for k, v := range data {
		ctx[k] = v
	}
	ctx["settings"] = st.Map()

	out, err := tpl.Execute(ctx)
	if err != nil {
		return body, diag.List{templateError(err)}
	}

	return restoreFences(out, fenced), nil
}

// hideFences replaces each fenced line with a marker holding its index
func hideFences(body string) (string, []string) {
	var fenced []string
	ed := sliceedit.NewBuffer(body)

	s := lines.NewScanner(body)
	for l := s.ReadLine(); l != nil; l = s.ReadLine() {
		if !l.Fenced {
			continue
		}
		ed.Replace(l.Start, l.Start+len(l.Text), fenceMarkerStart+strconv.Itoa(len(fenced))+fenceMarkerEnd)
		fenced = append(fenced, l.Text)
	}
	if len(fenced) == 0 {
		return body, nil
	}
	return ed.String(), fenced
}

func restoreFences(out string, fenced []string) string {
	if len(fenced) == 0 {
		return out
	}
	pairs := make([]string, 0, 2*len(fenced))
	for i, text := range fenced {
		pairs = append(pairs, fenceMarkerStart+strconv.Itoa(i)+fenceMarkerEnd, text)
	}
	return strings.NewReplacer(pairs...).Replace(out)
}

func templateError(err error) *diag.SyntaxError {
	pos := diag.Pos{Line: 1, Column: 1}
	msg := err.Error()

	var perr *pongo2.Error
	if errors.As(err, &perr) {
		if perr.Line > 0 {
			pos = diag.Pos{Line: perr.Line, Column: perr.Column}
		}
		if perr.OrigError != nil {
			msg = perr.OrigError.Error()
		}
	}
	return diag.Errorf(pos, "template: %s", msg)
}
