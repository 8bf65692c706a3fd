package markdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/hesusruiz/formrite/attr"
	"github.com/hesusruiz/formrite/field"
)

// A field name starts with a letter or '_'
var fieldTriggers = func() []byte {
	t := []byte{'_'}
	for c := byte('a'); c <= 'z'; c++ {
		t = append(t, c, c-'a'+'A')
	}
	return t
}()

type fieldBlockParser struct {
	st *state
}

func (b *fieldBlockParser) Trigger() []byte {
	return fieldTriggers
}

func (b *fieldBlockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || pc.BlockIndent() > 3 {
		return nil, parser.NoChildren
	}
	if !field.IsHeader(string(line[pos:])) {
		return nil, parser.NoChildren
	}

	node := NewFieldBlock()
	node.Lines().Append(text.NewSegment(segment.Start+pos, segment.Stop))
	node.complete = field.IsComplete(string(line))
	reader.Advance(segment.Len() - 1)
	return node, parser.NoChildren
}

func (b *fieldBlockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	n := node.(*FieldBlock)
	if n.complete {
		return parser.Close
	}

	// Only option lines and the closing ')' continue the declaration
	line, segment := reader.PeekLine()
	if !field.IsContinuation(string(line)) {
		return parser.Close
	}
	n.Lines().Append(segment)
	if strings.TrimSpace(string(line)) == ")" {
		n.complete = true
	}
	reader.Advance(segment.Len() - 1)
	return parser.Continue | parser.NoChildren
}

func (b *fieldBlockParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	n := node.(*FieldBlock)
	source := reader.Source()

	lines := n.Lines()
	texts := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		texts = append(texts, strings.TrimRight(string(seg.Value(source)), "\r\n"))
	}

	f, err := field.ParseDeclaration(texts, b.st.position(source, lines.At(0).Start))
	if err != nil {
		n.Err = err
		return
	}
	n.Field = f
}

func (b *fieldBlockParser) CanInterruptParagraph() bool {
	return true
}

func (b *fieldBlockParser) CanAcceptIndentedLine() bool {
	return false
}

// attributeParagraphTransformer splits an attribute-only first line off a
// paragraph, leaving a marker that applies it to the next block.
type attributeParagraphTransformer struct{}

func (t *attributeParagraphTransformer) Transform(node *ast.Paragraph, reader text.Reader, pc parser.Context) {
	lines := node.Lines()
	if lines.Len() == 0 {
		return
	}
	parent := node.Parent()

	// A list item that is only an attribute block is handled with the list
	if _, ok := parent.(*ast.ListItem); ok && lines.Len() == 1 {
		return
	}

	first := lines.At(0)
	b, ok := attr.ParseLine(string(first.Value(reader.Source())))
	if !ok || b.IsEmpty() {
		return
	}

	parent.InsertBefore(parent, node, NewAttributeMarker(b))
	if lines.Len() == 1 {
		parent.RemoveChild(parent, node)
		return
	}

	rest := text.NewSegments()
	for i := 1; i < lines.Len(); i++ {
		rest.Append(lines.At(i))
	}
	node.SetLines(rest)
}
