package markdown

import (
	"github.com/yuin/goldmark/ast"

	"github.com/hesusruiz/formrite/attr"
	"github.com/hesusruiz/formrite/field"
)

// KindAttributeMarker is the kind of an attribute-only line, which is
// applied to the next block and then removed from the tree.
var KindAttributeMarker = ast.NewNodeKind("AttributeMarker")

type AttributeMarker struct {
	ast.BaseBlock
	Block attr.Block
}

func NewAttributeMarker(b attr.Block) *AttributeMarker {
	return &AttributeMarker{Block: b}
}

func (n *AttributeMarker) Kind() ast.NodeKind {
	return KindAttributeMarker
}

func (n *AttributeMarker) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Block": n.Block.Render("")}, nil)
}

// KindFieldBlock is the kind of a form field declaration.
var KindFieldBlock = ast.NewNodeKind("FieldBlock")

// FieldBlock holds the lines of a field declaration and, once closed,
// the parsed field or the error found.
type FieldBlock struct {
	ast.BaseBlock
	Field *field.Field
	Err   error

	complete bool
}

func NewFieldBlock() *FieldBlock {
	return &FieldBlock{}
}

func (n *FieldBlock) Kind() ast.NodeKind {
	return KindFieldBlock
}

// IsRaw keeps the inline parser away from the declaration.
func (n *FieldBlock) IsRaw() bool {
	return true
}

func (n *FieldBlock) Dump(source []byte, level int) {
	kv := map[string]string{}
	if n.Field != nil {
		kv["Field"] = n.Field.String()
	}
	if n.Err != nil {
		kv["Err"] = n.Err.Error()
	}
	ast.DumpHelper(n, source, level, kv, nil)
}
