package merging

import (
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

func TestTypesConflict(t *testing.T) {
	schema := gqlparser.MustLoadSchema(&ast.Source{
		Name: "schema.graphqls",
		Input: heredoc.Doc(`
			type Query {
				node: Node
			}
			interface Node {
				id: ID
			}
			type User implements Node {
				id: ID
				name: String
			}
			type Post implements Node {
				id: ID
				title: String
			}
			enum Color {
				RED
			}
		`),
	})

	named := func(name string) *ast.Type { return ast.NamedType(name, nil) }
	nonNull := func(name string) *ast.Type { return ast.NonNullNamedType(name, nil) }
	list := func(elem *ast.Type) *ast.Type { return ast.ListType(elem, nil) }

	tests := []struct {
		name     string
		a, b     *ast.Type
		conflict bool
	}{
		{"same scalar", named("String"), named("String"), false},
		{"different scalars", named("String"), named("Int"), true},
		{"scalar vs enum", named("String"), named("Color"), true},
		{"scalar vs object", named("String"), named("User"), true},
		{"different objects", named("User"), named("Post"), false},
		{"object vs interface", named("User"), named("Node"), false},
		{"non-null vs nullable", nonNull("String"), named("String"), true},
		{"both non-null", nonNull("String"), nonNull("String"), false},
		{"list vs non-list", list(named("String")), named("String"), true},
		{"same lists", list(named("String")), list(named("String")), false},
		{"lists of different scalars", list(named("String")), list(named("Int")), true},
		{"list nullability differs", ast.NonNullListType(named("String"), nil), list(named("String")), true},
		{"element nullability differs", list(nonNull("String")), list(named("String")), true},
		{"lists of different objects", list(named("User")), list(named("Post")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.conflict, typesConflict(schema, tt.a, tt.b))
			assert.Equal(t, tt.conflict, typesConflict(schema, tt.b, tt.a))
		})
	}
}
