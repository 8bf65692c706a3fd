package markdown

import (
	"context"
	"html"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/hesusruiz/formrite/attr"
	"github.com/hesusruiz/formrite/diag"
	"github.com/hesusruiz/formrite/field"
)

// nodeRenderer writes the nodes that carry attribute blocks, and the
// nodes specific to forms
type nodeRenderer struct {
	st *state
}

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHeading, r.renderHeading)
	reg.Register(ast.KindParagraph, r.renderParagraph)
	reg.Register(ast.KindBlockquote, r.renderBlockquote)
	reg.Register(ast.KindList, r.renderList)
	reg.Register(ast.KindListItem, r.renderListItem)
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
	reg.Register(ast.KindImage, r.renderImage)
	reg.Register(east.KindTable, r.renderTable)
	reg.Register(east.KindTaskCheckBox, r.renderTaskCheckBox)
	reg.Register(KindFieldBlock, r.renderFieldBlock)
	reg.Register(KindAttributeMarker, r.renderNothing)
}

func (r *nodeRenderer) prefix() string {
	return r.st.ctx.Prefix
}

func (r *nodeRenderer) attrs(n ast.Node) string {
	return r.st.attrs[n].Render(r.prefix())
}

func (r *nodeRenderer) renderHeading(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	level := strconv.Itoa(n.Level)
	id := r.st.ids[n]
	if entering {
		b := r.st.attrs[n]
		b.ID = id
		_, _ = w.WriteString("<h" + level + b.Render(r.prefix()) + ">")
		return ast.WalkContinue, nil
	}
	if id != "" {
		_, _ = w.WriteString(` <a class="` + r.prefix() + `heading-anchor" href="#` + html.EscapeString(id) + `" aria-hidden="true">#</a>`)
	}
	_, _ = w.WriteString("</h" + level + ">\n")
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderParagraph(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<p" + r.attrs(n) + ">")
	} else {
		_, _ = w.WriteString("</p>\n")
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderBlockquote(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<blockquote" + r.attrs(n) + ">\n")
	} else {
		_, _ = w.WriteString("</blockquote>\n")
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderList(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.List)
	tag := "ul"
	if n.IsOrdered() {
		tag = "ol"
	}
	if !entering {
		_, _ = w.WriteString("</" + tag + ">\n")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("<" + tag)
	if n.IsOrdered() && n.Start != 1 {
		_, _ = w.WriteString(` start="` + strconv.Itoa(n.Start) + `"`)
	}
	_, _ = w.WriteString(r.attrs(n) + ">\n")
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderListItem(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</li>\n")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("<li" + r.attrs(n) + ">")
	if fc := n.FirstChild(); fc != nil {
		if _, ok := fc.(*ast.TextBlock); !ok {
			_ = w.WriteByte('\n')
		}
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderTable(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<table" + r.attrs(n) + ">\n")
	} else {
		_, _ = w.WriteString("</table>\n")
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderTaskCheckBox(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*east.TaskCheckBox)
	state, class := "false", "unchecked"
	if n.IsChecked {
		state, class = "true", "checked"
	}
	label := r.st.labels[n]
	if label == "" {
		label = r.st.text(class)
	}
	p := r.prefix()
	_, _ = w.WriteString(`<span class="` + p + `checkbox ` + p + class + `" role="checkbox" aria-checked="` + state +
		`" aria-label="` + html.EscapeString(label) + `"></span> `)
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderImage(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Image)
	_, _ = w.WriteString(`<img src="`)
	if !gmhtml.IsDangerousURL(n.Destination) {
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
	}
	_, _ = w.WriteString(`" alt="` + html.EscapeString(PlainText(inlineText(n, source))) + `"`)
	if n.Title != nil {
		_, _ = w.WriteString(` title="` + html.EscapeString(string(n.Title)) + `"`)
	}
	_, _ = w.WriteString(r.attrs(n) + ` loading="lazy">`)
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	var info string
	if n.Info != nil {
		info = string(n.Info.Segment.Value(source))
	}
	lang, b := parseInfo(info)
	b = r.st.attrs[n].Merge(b)

	var code strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}

	switch strings.ToLower(lang) {
	case "mermaid":
		r.renderMermaid(w, code.String(), b)
	case "d2":
		r.renderDiagram(w, code.String(), b, r.fencePosition(n, source))
	default:
		r.renderCode(w, lang, code.String(), b)
	}
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) fencePosition(n *ast.FencedCodeBlock, source []byte) diag.Pos {
	offset := 0
	if n.Info != nil {
		offset = n.Info.Segment.Start
	} else if n.Lines().Len() > 0 {
		offset = n.Lines().At(0).Start
	}
	return r.st.position(source, offset)
}

// renderMermaid leaves the diagram source for the client side library
func (r *nodeRenderer) renderMermaid(w util.BufWriter, code string, b attr.Block) {
	wrapper := attr.Block{Classes: []string{"mermaid"}}.Merge(b)
	_, _ = w.WriteString("<div" + wrapper.Render(r.prefix()) + ">\n")
	_, _ = w.WriteString(html.EscapeString(code))
	_, _ = w.WriteString("</div>\n")
}

func (r *nodeRenderer) renderDiagram(w util.BufWriter, code string, b attr.Block, pos diag.Pos) {
	svg, err := renderD2(context.Background(), code)
	if err != nil {
		r.st.diags.Add(diag.Errorf(pos, "%s: %v", r.st.text("diagram-error"), err))
		wrapper := attr.Block{Classes: []string{"diagram", "diagram-error"}}.Merge(b)
		wrapper.Set("role", "alert")
		_, _ = w.WriteString("<div" + wrapper.Render(r.prefix()) + ">" + html.EscapeString(r.st.text("diagram-error")) + "</div>\n")
		return
	}
	wrapper := attr.Block{Classes: []string{"diagram"}}.Merge(b)
	_, _ = w.WriteString("<div" + wrapper.Render(r.prefix()) + ">\n")
	_, _ = w.Write(svg)
	_, _ = w.WriteString("\n</div>\n")
}

// renderCode writes a code block with a header holding the language and
// a copy button
func (r *nodeRenderer) renderCode(w util.BufWriter, lang, code string, b attr.Block) {
	p := r.prefix()

	wrapper := attr.Block{Classes: []string{"code-block"}}.Merge(b)
	_, _ = w.WriteString("<div" + wrapper.Render(p) + ">\n")
	_, _ = w.WriteString(`<div class="` + p + `code-header">`)
	if lang != "" {
		_, _ = w.WriteString(`<span class="` + p + `code-language">` + html.EscapeString(lang) + `</span>`)
	}
	_, _ = w.WriteString(`<button type="button" class="` + p + `code-copy" data-` + p + `copy>` + html.EscapeString(r.st.text("copy")) + "</button></div>\n")

	_, _ = w.WriteString(`<pre class="` + p + `code"><code`)
	if lang != "" {
		_, _ = w.WriteString(` class="language-` + html.EscapeString(lang) + `"`)
	}
	_ = w.WriteByte('>')
	if highlighted, ok := highlight(lang, code, r.st.codeStyle(), p); ok {
		_, _ = w.WriteString(highlighted)
	} else {
		_, _ = w.WriteString(html.EscapeString(code))
	}
	_, _ = w.WriteString("</code></pre>\n</div>\n")
}

func (r *nodeRenderer) renderFieldBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*FieldBlock)
	if n.Err != nil {
		_, _ = w.WriteString(field.ErrorPlaceholder(n.Err, r.prefix()))
		return ast.WalkSkipChildren, nil
	}
	if n.Field != nil {
		_, _ = w.WriteString(field.Render(n.Field, r.st.fieldContext()))
	}
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderNothing(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	return ast.WalkSkipChildren, nil
}
