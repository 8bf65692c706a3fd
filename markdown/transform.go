package markdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/hesusruiz/formrite/attr"
	"github.com/hesusruiz/formrite/diag"
	"github.com/hesusruiz/formrite/field"
)

// blockTransformer applies attribute blocks to the nodes they belong to,
// assigns heading ids and checks the fields of the slide.
type blockTransformer struct {
	st *state
}

func (t *blockTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()

	var (
		markers  []*AttributeMarker
		blocks   []ast.Node
		headings []*ast.Heading
		lists    []*ast.List
		boxes    []*east.TaskCheckBox
		fields   []*FieldBlock
	)

	// Collect first, the tree is modified afterwards
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *AttributeMarker:
			markers = append(markers, n)
		case *ast.Heading:
			headings = append(headings, n)
			blocks = append(blocks, n)
		case *ast.Paragraph, *ast.TextBlock:
			blocks = append(blocks, n)
		case *ast.List:
			lists = append(lists, n)
		case *east.TaskCheckBox:
			boxes = append(boxes, n)
		case *FieldBlock:
			fields = append(fields, n)
		}
		return ast.WalkContinue, nil
	})

	for _, l := range lists {
		t.listAttributes(l, source)
	}
	for _, b := range blocks {
		t.leadingAttributes(b, source)
	}
	for _, m := range markers {
		t.attachMarker(m)
	}
	for _, box := range boxes {
		t.checkBox(box, source)
	}
	for _, h := range headings {
		t.headingID(h, source)
	}
	t.checkFields(fields)
}

// listAttributes turns a first item that is only an attribute block into
// the attributes of the list
func (t *blockTransformer) listAttributes(list *ast.List, source []byte) {
	item := list.FirstChild()
	if item == nil || item.ChildCount() != 1 {
		return
	}
	block := item.FirstChild()
	if block.Lines().Len() != 1 {
		return
	}
	line := block.Lines().At(0)
	b, ok := attr.ParseLine(string(line.Value(source)))
	if !ok {
		return
	}
	t.st.merge(list, b)
	list.RemoveChild(list, item)
}

// leadingAttributes moves an attribute block at the start of a paragraph
// or heading to its attributes, removing it from the text
func (t *blockTransformer) leadingAttributes(n ast.Node, source []byte) {
	if n.Parent() == nil || n.Lines().Len() == 0 {
		return
	}
	first := n.Lines().At(0)
	line := first.Value(source)
	b, rest, ok := attr.Leading(string(line))
	if !ok || strings.TrimSpace(rest) == "" {
		return
	}
	trimInlineBefore(n, first.Start+len(line)-len(rest))

	target := n
	switch parent := n.Parent(); parent.(type) {
	case *ast.ListItem, *ast.Blockquote:
		if parent.FirstChild() == n {
			target = parent
		}
	}
	if _, ok := target.(*ast.TextBlock); ok {
		return
	}
	t.st.merge(target, b)
}

// trimInlineBefore removes the inline content of parent before the cut offset
func trimInlineBefore(parent ast.Node, cut int) {
	for c := parent.FirstChild(); c != nil; {
		next := c.NextSibling()
		start, stop, ok := inlineExtent(c)
		if !ok || start >= cut {
			return
		}
		if stop <= cut {
			parent.RemoveChild(parent, c)
			c = next
			continue
		}
		if txt, ok := c.(*ast.Text); ok {
			txt.Segment = txt.Segment.WithStart(cut)
		}
		return
	}
}

func inlineExtent(n ast.Node) (int, int, bool) {
	if txt, ok := n.(*ast.Text); ok {
		return txt.Segment.Start, txt.Segment.Stop, true
	}
	start, stop, found := 0, 0, false
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		s, e, ok := inlineExtent(c)
		if !ok {
			continue
		}
		if !found || s < start {
			start = s
		}
		if !found || e > stop {
			stop = e
		}
		found = true
	}
	return start, stop, found
}

// attachMarker applies a marker to the next block, or to the enclosing
// blockquote or list item when it is their first child
func (t *blockTransformer) attachMarker(m *AttributeMarker) {
	parent := m.Parent()
	if parent == nil {
		return
	}

	var target ast.Node
	switch parent.(type) {
	case *ast.Blockquote, *ast.ListItem:
		if parent.FirstChild() == m {
			target = parent
		}
	}
	if target == nil {
		for next := m.NextSibling(); next != nil; next = next.NextSibling() {
			if _, ok := next.(*AttributeMarker); !ok {
				target = next
				break
			}
		}
	}

	parent.RemoveChild(parent, m)
	if target != nil {
		t.st.merge(target, m.Block)
	}
}

func (t *blockTransformer) checkBox(box *east.TaskCheckBox, source []byte) {
	block := box.Parent()
	if block == nil || block.Parent() == nil {
		return
	}
	item, ok := block.Parent().(*ast.ListItem)
	if !ok || item.Parent() == nil {
		return
	}

	t.st.labels[box] = strings.TrimSpace(PlainText(inlineText(block, source)))

	var b attr.Block
	b.AddClass("checkbox-item")
	if box.IsChecked {
		b.AddClass("checked")
	} else {
		b.AddClass("unchecked")
	}
	t.st.merge(item, b)
}

// headingID uses the explicit id of a heading or a unique slug of its text
func (t *blockTransformer) headingID(h *ast.Heading, source []byte) {
	if h.Parent() == nil {
		return
	}
	slugger := t.st.ctx.Slugger
	if id := t.st.attrs[h].ID; id != "" {
		got, ok := slugger.Reserve(id)
		if !ok {
			pos := diag.Pos{Line: t.st.ctx.LineOffset + 1, Column: 1}
			if h.Lines().Len() > 0 {
				pos = t.st.position(source, h.Lines().At(0).Start)
			}
			t.st.diags.Add(diag.Errorf(pos, "heading id %q is already used, using %q", id, got))
		}
		t.st.ids[h] = got
		return
	}
	t.st.ids[h] = slugger.Unique(inlineText(h, source))
}

// checkFields reports the invalid and duplicated fields of the slide
func (t *blockTransformer) checkFields(fields []*FieldBlock) {
	seen := map[string]diag.Pos{}
	for _, fb := range fields {
		if fb.Parent() == nil {
			continue
		}
		if fb.Err != nil {
			t.st.addError(fb.Err)
			continue
		}
		f := fb.Field
		if first, dup := seen[f.Name]; dup {
			fb.Err = field.DuplicateError(f, first)
			t.st.addError(fb.Err)
			continue
		}
		seen[f.Name] = f.Pos
		f.Attrs = f.Attrs.Merge(t.st.attrs[fb])
		t.st.fields = append(t.st.fields, f)
	}
}

// inlineText returns the text of the inline content of n, without raw HTML
func inlineText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			sb.Write(c.Segment.Value(source))
			if c.SoftLineBreak() || c.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(c.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}
