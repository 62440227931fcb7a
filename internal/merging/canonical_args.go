package merging

import (
	"sort"

	"github.com/vektah/gqlparser/v2/ast"
)

// canonicalArgs reduces an argument list to a stable printed form. Two
// argument lists denote the same arguments iff their canonical forms are
// byte equal, regardless of the order they were written in.
//
// The arguments are wrapped in a synthetic object value, every object in
// the tree has its fields sorted by name, and the result is serialized
// with the standard value printer. List element order is significant and
// therefore preserved.
func canonicalArgs(args ast.ArgumentList) string {
	children := make(ast.ChildValueList, 0, len(args))
	for _, arg := range args {
		children = append(children, &ast.ChildValue{Name: arg.Name, Value: arg.Value})
	}
	return sortValue(&ast.Value{Kind: ast.ObjectValue, Children: children}).String()
}

func sortValue(value *ast.Value) *ast.Value {
	switch value.Kind {
	case ast.ObjectValue:
		children := make(ast.ChildValueList, len(value.Children))
		for i, child := range value.Children {
			children[i] = &ast.ChildValue{Name: child.Name, Value: sortValue(child.Value)}
		}
		sort.SliceStable(children, func(i, j int) bool {
			return naturalCompare(children[i].Name, children[j].Name) < 0
		})
		return &ast.Value{Kind: ast.ObjectValue, Children: children}
	case ast.ListValue:
		children := make(ast.ChildValueList, len(value.Children))
		for i, child := range value.Children {
			children[i] = &ast.ChildValue{Value: sortValue(child.Value)}
		}
		return &ast.Value{Kind: ast.ListValue, Children: children}
	default:
		// scalars, enums and variables have no structure to normalize
		return value
	}
}
