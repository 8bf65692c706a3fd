// Package rite compiles a formrite document into slides.
//
// The stages run in order over the source: settings, data blocks, binding
// points, templates, slide segmentation and finally the markdown of each
// slide, which is wrapped with its navigation scaffolding.
package rite

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/hesusruiz/formrite/datablock"
	"github.com/hesusruiz/formrite/diag"
	"github.com/hesusruiz/formrite/i18n"
	"github.com/hesusruiz/formrite/markdown"
	"github.com/hesusruiz/formrite/settings"
	"github.com/hesusruiz/formrite/slide"
)

// DefaultClassPrefix is prepended to the generated class names
const DefaultClassPrefix = "fr-"

// Config controls a compilation.
type Config struct {
	// FileName is used in diagnostics
	FileName string

	// ClassPrefix defaults to DefaultClassPrefix
	ClassPrefix string

	// Defaults is the settings table, the built-in one when empty
	Defaults settings.Table

	// Translator defaults to the built-in translations
	Translator i18n.Translator

	// Locale is used when the document does not set its localization
	Locale string

	Logger *zap.SugaredLogger
}

func (cfg Config) withDefaults() Config {
	if cfg.ClassPrefix == "" {
		cfg.ClassPrefix = DefaultClassPrefix
	}
	if cfg.Defaults.Len() == 0 {
		cfg.Defaults = settings.Defaults()
	}
	if cfg.Translator == nil {
		cfg.Translator = i18n.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	return cfg
}

// locale gives precedence to a localization declared in the document
func (cfg Config) locale(st settings.Settings) string {
	doc := st.String("localization")
	if spec, ok := cfg.Defaults.Spec("localization"); ok && doc == spec.Default && cfg.Locale != "" {
		return cfg.Locale
	}
	if doc == "" {
		if cfg.Locale != "" {
			return cfg.Locale
		}
		return i18n.DefaultLocale
	}
	return doc
}

// Result is a compiled document.
type Result struct {
	Settings settings.Settings
	Data     datablock.Data
	Slides   []slide.Definition

	// BindTemplates are the binding point fragments, keyed by the
	// reference in their data attribute
	BindTemplates map[string]string

	// Diagnostics are the recoverable problems found
	Diagnostics diag.List

	Locale string
	Prefix string
}

// HTML returns the markup of all the slides.
func (r *Result) HTML() string {
	var sb strings.Builder
	for _, s := range r.Slides {
		sb.WriteString(s.HTML)
	}
	return sb.String()
}

// Compile compiles the source of a document. Recoverable problems are
// reported in Result.Diagnostics; the returned error is non-nil only for
// fatal ones and then wraps diag.ErrFatal.
func Compile(src string, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()
	log := cfg.Logger

	res := &Result{Prefix: cfg.ClassPrefix}
	var all diag.List

	st, body, diags := settings.Parse(src, cfg.Defaults)
	all.Append(diags)
	res.Settings = st
	res.Locale = cfg.locale(st)
	log.Debugw("settings parsed", "file", cfg.FileName, "settings", len(st.Keys()), "locale", res.Locale)

	data, body, diags := datablock.Parse(body)
	all.Append(diags)
	res.Data = data
	log.Debugw("data blocks parsed", "file", cfg.FileName, "keys", data.Keys())

	body, binds, diags := extractBinds(body, cfg.ClassPrefix)
	all.Append(diags)
	res.BindTemplates = binds

	body, diags = applyTemplate(body, data, st)
	all.Append(diags)

	segs, diags, err := slide.Split(body, slide.Options{Delimiter: st.String("slide-delimiter")})
	all.Append(diags)
	if err != nil {
		var se *diag.SyntaxError
		if errors.As(err, &se) {
			se.File = cfg.FileName
		}
		log.Errorw("fatal error", "file", cfg.FileName, "error", err)
		return nil, fmt.Errorf("compiling document: %w", err)
	}
	log.Debugw("document segmented", "file", cfg.FileName, "slides", len(segs))

	slugger := markdown.NewSlugger()
	rendered := make([]slide.Rendered, 0, len(segs))
	for _, seg := range segs {
		out, diags := markdown.Render([]byte(seg.Source), &markdown.Context{
			Prefix:     cfg.ClassPrefix,
			Settings:   st,
			Translator: cfg.Translator,
			Locale:     res.Locale,
			Slugger:    slugger,
			LineOffset: seg.FirstLine - 1,
			Logger:     log,
		})
		all.Append(diags)
		rendered = append(rendered, slide.Rendered{Segment: seg, HTML: out.HTML, FieldNames: out.FieldNames()})
	}

	res.Slides = slide.Assemble(rendered, slide.ParseMode(st.String("page")), slide.AssembleContext{
		Prefix:       cfg.ClassPrefix,
		Translator:   cfg.Translator,
		Locale:       res.Locale,
		NextText:     st.String("cta"),
		SubmitText:   st.String("submit-button-text"),
		HideControls: st.Has("slide-controls") && !st.Bool("slide-controls"),
		Restart:      st.Bool("restart-button"),
	})

	res.Diagnostics = all.WithFile(cfg.FileName)
	for _, d := range res.Diagnostics {
		log.Warnw("recoverable error", "file", d.File, "line", d.Line, "column", d.Column, "msg", d.Msg)
	}
	log.Debugw("document compiled", "file", cfg.FileName, "slides", len(res.Slides), "diagnostics", len(res.Diagnostics))

	return res, nil
}

// CompileFile reads and compiles a document. The file name is used in the
// diagnostics unless cfg sets one.
func CompileFile(fileName string, cfg Config) (*Result, error) {
	src, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	if cfg.FileName == "" {
		cfg.FileName = fileName
	}
	return Compile(string(src), cfg)
}
