// Package markdown converts the markdown of a slide into HTML, handling
// attribute blocks, heading anchors, task lists, code blocks, diagrams
// and the form fields embedded in the text.
package markdown

import (
	"bytes"
	"errors"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
	"go.uber.org/zap"

	"github.com/hesusruiz/formrite/attr"
	"github.com/hesusruiz/formrite/diag"
	"github.com/hesusruiz/formrite/field"
	"github.com/hesusruiz/formrite/i18n"
	"github.com/hesusruiz/formrite/settings"
)

const defaultCodeStyle = "github"

// Context is the document level information needed to render a slide.
type Context struct {
	// Prefix is prepended to every generated class name and data attribute
	Prefix string

	Settings   settings.Settings
	Translator i18n.Translator
	Locale     string

	// Slugger is shared by all the slides of a document, so heading ids are
	// unique in the whole page. A new one is used when nil.
	Slugger *Slugger

	// LineOffset is the number of document lines before the slide source
	LineOffset int

	Logger *zap.SugaredLogger
}

// Output is the result of rendering a slide.
type Output struct {
	HTML string

	// Fields are the fields declared in the slide, in document order
	Fields []*field.Field
}

// FieldNames returns the names of the fields of the slide.
func (o Output) FieldNames() []string {
	names := make([]string, 0, len(o.Fields))
	for _, f := range o.Fields {
		names = append(names, f.Name)
	}
	return names
}

// state is shared by the parser, transformer and renderer of a single call
// to Render.
type state struct {
	ctx *Context

	attrs  map[ast.Node]attr.Block
	ids    map[ast.Node]string
	labels map[ast.Node]string

	fields []*field.Field
	diags  diag.List

	inlineMD goldmark.Markdown
}

func newState(ctx *Context) *state {
	if ctx.Slugger == nil {
		ctx.Slugger = NewSlugger()
	}
	if ctx.Logger == nil {
		ctx.Logger = zap.NewNop().Sugar()
	}
	return &state{
		ctx:    ctx,
		attrs:  map[ast.Node]attr.Block{},
		ids:    map[ast.Node]string{},
		labels: map[ast.Node]string{},
	}
}

func (st *state) markdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.Table),
		goldmark.WithParserOptions(
			parser.WithBlockParsers(
				util.Prioritized(&fieldBlockParser{st: st}, 50),
			),
			parser.WithInlineParsers(
				util.Prioritized(extension.NewTaskCheckBoxParser(), 0),
			),
			parser.WithParagraphTransformers(
				util.Prioritized(&attributeParagraphTransformer{}, 150),
			),
			parser.WithASTTransformers(
				util.Prioritized(&blockTransformer{st: st}, 100),
			),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
			renderer.WithNodeRenderers(
				util.Prioritized(&nodeRenderer{st: st}, 10),
			),
		),
	)
}

// merge adds b to the attributes of n
func (st *state) merge(n ast.Node, b attr.Block) {
	st.attrs[n] = st.attrs[n].Merge(b)
}

// position returns the document position of an offset in the slide source
func (st *state) position(source []byte, offset int) diag.Pos {
	if offset > len(source) {
		offset = len(source)
	}
	before := source[:offset]
	line := bytes.Count(before, []byte{'\n'}) + 1
	col := offset - (bytes.LastIndexByte(before, '\n') + 1) + 1
	return diag.Pos{Line: line + st.ctx.LineOffset, Column: col}
}

func (st *state) addError(err error) {
	var se *diag.SyntaxError
	if errors.As(err, &se) {
		st.diags.Add(se)
		return
	}
	st.diags.Add(diag.Errorf(diag.Pos{Line: st.ctx.LineOffset + 1, Column: 1}, "%v", err))
}

// inline renders the inline markdown of a field question or description
func (st *state) inline(s string) string {
	if st.inlineMD == nil {
		st.inlineMD = goldmark.New(goldmark.WithRendererOptions(gmhtml.WithUnsafe()))
	}
	var buf bytes.Buffer
	if err := st.inlineMD.Convert([]byte(s), &buf); err != nil {
		return html.EscapeString(s)
	}
	out := strings.TrimSpace(buf.String())
	out = strings.TrimPrefix(out, "<p>")
	out = strings.TrimSuffix(out, "</p>")
	return out
}

func (st *state) fieldContext() field.RenderContext {
	s := st.ctx.Settings
	return field.RenderContext{
		Prefix:           st.ctx.Prefix,
		Locale:           st.ctx.Locale,
		Translator:       st.ctx.Translator,
		Inline:           st.inline,
		FieldSize:        s.String("field-size"),
		LabelStyle:       s.String("label-style"),
		HidePlaceholders: s.Has("placeholders") && !s.Bool("placeholders"),
	}
}

func (st *state) codeStyle() string {
	if style := st.ctx.Settings.String("code-style"); style != "" {
		return style
	}
	return defaultCodeStyle
}

func (st *state) text(key string) string {
	return i18n.Text(st.ctx.Translator, st.ctx.Locale, key)
}

// Render converts the markdown of one slide into HTML.
// Problems found are returned as diagnostics; the HTML is always usable.
func Render(src []byte, ctx *Context) (Output, diag.List) {
	st := newState(ctx)

	var buf bytes.Buffer
	if err := st.markdown().Convert(src, &buf); err != nil {
		st.addError(err)
	}

	ctx.Logger.Debugw("slide rendered", "line", ctx.LineOffset+1, "fields", len(st.fields), "diagnostics", len(st.diags))
	return Output{HTML: buf.String(), Fields: st.fields}, st.diags
}
