package rite

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates
var templatesFS embed.FS

const defaultPageTemplate = "templates/page.html"

// Settings exported to the page as CSS custom properties
var cssSettings = []string{
	"accent",
	"accent-foreground",
	"background-color",
	"color",
	"background-image",
	"backdrop-opacity",
	"font-family",
	"rounded",
}

type cssVar struct {
	Name  string
	Value string
}

// PageOptions customize the standalone page.
type PageOptions struct {
	// Template is the source of a pongo2 template used instead of the
	// built-in page
	Template string
}

// Metadata is the information handed to the runtime, in the page and in
// the JSON output.
type Metadata struct {
	Settings      map[string]any    `json:"settings"`
	Data          map[string]any    `json:"data"`
	Slides        []SlideMetadata   `json:"slides"`
	BindTemplates map[string]string `json:"bindTemplates"`
	Diagnostics   []string          `json:"diagnostics,omitempty"`
}

// SlideMetadata is a slide without its markup.
type SlideMetadata struct {
	Index           int      `json:"index"`
	FormBearing     bool     `json:"formBearing"`
	PageProgress    *int     `json:"pageProgress,omitempty"`
	JumpExpression  string   `json:"jumpExpression,omitempty"`
	DisablePrevious bool     `json:"disablePrevious,omitempty"`
	CTA             string   `json:"cta"`
	FieldNames      []string `json:"fieldNames,omitempty"`
}

// Metadata returns the information about the document needed by the runtime.
func (r *Result) Metadata() Metadata {
	m := Metadata{
		Settings:      r.Settings.Map(),
		Data:          map[string]any(r.Data),
		Slides:        make([]SlideMetadata, 0, len(r.Slides)),
		BindTemplates: r.BindTemplates,
	}
	if m.Data == nil {
		m.Data = map[string]any{}
	}
	for _, s := range r.Slides {
		m.Slides = append(m.Slides, SlideMetadata{
			Index:           s.Index,
			FormBearing:     s.FormBearing,
			PageProgress:    s.PageProgress,
			JumpExpression:  s.JumpExpression,
			DisablePrevious: s.DisablePrevious,
			CTA:             string(s.CTA),
			FieldNames:      s.FieldNames,
		})
	}
	for _, d := range r.Diagnostics {
		m.Diagnostics = append(m.Diagnostics, d.Error())
	}
	return m
}

// RenderPage builds a standalone HTML page with the compiled slides.
func (r *Result) RenderPage(opts PageOptions) (string, error) {
	set, err := newTemplateSet("page")
	if err != nil {
		return "", err
	}

	var tpl *pongo2.Template
	if opts.Template != "" {
		tpl, err = set.FromString(opts.Template)
	} else {
		tpl, err = set.FromFile(defaultPageTemplate)
	}
	if err != nil {
		return "", fmt.Errorf("loading page template: %w", err)
	}

	metadata, err := json.Marshal(r.Metadata())
	if err != nil {
		return "", fmt.Errorf("encoding metadata: %w", err)
	}

	st := r.Settings
	var vars []cssVar
	for _, key := range cssSettings {
		if v := st.String(key); v != "" {
			vars = append(vars, cssVar{Name: key, Value: v})
		}
	}

	title := st.String("title")
	if title == "" {
		title = "formrite"
	}

	ctx := pongo2.Context{
		"lang":         r.Locale,
		"dir":          st.String("dir"),
		"title":        title,
		"id":           st.String("id"),
		"mode":         st.String("page"),
		"colorScheme":  st.String("color-scheme"),
		"brand":        st.String("brand"),
		"header":       st.Bool("header"),
		"footer":       st.Bool("footer"),
		"pageProgress": st.Bool("page-progress"),
		"prefix":       r.Prefix,
		"cssVars":      vars,
		"settings":     st.Map(),
		"slides":       r.Slides,
		"metadata":     string(metadata),
	}

	out, err := tpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("rendering page: %w", err)
	}
	return out, nil
}
