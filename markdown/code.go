package markdown

import (
	"bytes"
	"context"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	hlhtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"oss.terrastruct.com/d2/d2graph"
	"oss.terrastruct.com/d2/d2layouts/d2dagrelayout"
	"oss.terrastruct.com/d2/d2lib"
	"oss.terrastruct.com/d2/d2renderers/d2svg"
	"oss.terrastruct.com/d2/d2themes/d2themescatalog"
	"oss.terrastruct.com/d2/lib/textmeasure"

	"github.com/hesusruiz/formrite/attr"
)

// parseInfo splits the info string of a fenced block into the language and
// an optional attribute block, in any order
func parseInfo(info string) (string, attr.Block) {
	var lang string
	var b attr.Block
	i := 0
	for i < len(info) {
		for i < len(info) && (info[i] == ' ' || info[i] == '\t') {
			i++
		}
		if i >= len(info) {
			break
		}
		if info[i] == '[' {
			if parsed, next, ok := attr.Parse(info, i); ok {
				b = b.Merge(parsed)
				i = next
				continue
			}
		}
		start := i
		for i < len(info) && info[i] != ' ' && info[i] != '\t' && (i == start || info[i] != '[') {
			i++
		}
		if lang == "" {
			lang = info[start:i]
		}
	}
	return lang, b
}

// highlight returns the code with syntax highlighting classes, or false if
// the language is not known
func highlight(lang, code, styleName, prefix string) (string, bool) {
	if lang == "" {
		return "", false
	}
	l := lexers.Get(lang)
	if l == nil {
		return "", false
	}
	l = chroma.Coalesce(l)

	f := hlhtml.New(
		hlhtml.Standalone(false),
		hlhtml.PreventSurroundingPre(true),
		hlhtml.WithClasses(true),
		hlhtml.ClassPrefix(prefix),
	)

	it, err := l.Tokenise(nil, code)
	if err != nil {
		return "", false
	}

	rb := &bytes.Buffer{}
	if err := f.Format(rb, styles.Get(styleName), it); err != nil {
		return "", false
	}
	return rb.String(), true
}

// renderD2 compiles a D2 diagram into an SVG image
func renderD2(ctx context.Context, src string) ([]byte, error) {
	ruler, err := textmeasure.NewRuler()
	if err != nil {
		return nil, fmt.Errorf("creating text ruler: %w", err)
	}

	defaultLayout := func(ctx context.Context, g *d2graph.Graph) error {
		return d2dagrelayout.Layout(ctx, g, nil)
	}
	diagram, _, err := d2lib.Compile(ctx, src, &d2lib.CompileOptions{
		Layout: defaultLayout,
		Ruler:  ruler,
	})
	if err != nil {
		return nil, fmt.Errorf("compiling diagram: %w", err)
	}

	svg, err := d2svg.Render(diagram, &d2svg.RenderOpts{
		Pad:     d2svg.DEFAULT_PADDING,
		ThemeID: d2themescatalog.NeutralDefault.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering diagram: %w", err)
	}
	return svg, nil
}
