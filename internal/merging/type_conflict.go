package merging

import (
	"github.com/vektah/gqlparser/v2/ast"
)

// typesConflict reports whether two return types can never both occupy
// the same response position. List shape and nullability must line up
// exactly, and leaf types must be the very same named type. Two
// composite types never conflict at this level: their shapes are
// reconciled by comparing sub-selections field by field, since an
// interface or union position may be filled by differing concrete types.
func typesConflict(schema *ast.Schema, a, b *ast.Type) bool {
	if a.Elem != nil || b.Elem != nil {
		if a.Elem == nil || b.Elem == nil {
			return true
		}
		if a.NonNull != b.NonNull {
			return true
		}
		return typesConflict(schema, a.Elem, b.Elem)
	}
	if a.NonNull != b.NonNull {
		return true
	}
	defA := schema.Types[a.NamedType]
	defB := schema.Types[b.NamedType]
	if (defA != nil && isLeafKind(defA.Kind)) || (defB != nil && isLeafKind(defB.Kind)) {
		return a.NamedType != b.NamedType
	}
	return false
}

func isLeafKind(kind ast.DefinitionKind) bool {
	return kind == ast.Scalar || kind == ast.Enum
}
