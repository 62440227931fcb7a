package merging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// parseArgs parses `f(<args>)` and returns the field's argument list.
func parseArgs(t *testing.T, args string) ast.ArgumentList {
	t.Helper()

	doc, err := parser.ParseQuery(&ast.Source{
		Name:  "args.graphql",
		Input: "{ f(" + args + ") }",
	})
	require.NoError(t, err)

	field, ok := doc.Operations[0].SelectionSet[0].(*ast.Field)
	require.True(t, ok)
	return field.Arguments
}

func TestCanonicalArgs(t *testing.T) {
	t.Run("insensitive to argument order", func(t *testing.T) {
		a := canonicalArgs(parseArgs(t, "b: 1, a: 2"))
		b := canonicalArgs(parseArgs(t, "a: 2, b: 1"))
		require.Equal(t, a, b)
	})

	t.Run("insensitive to nested object field order", func(t *testing.T) {
		a := canonicalArgs(parseArgs(t, `where: {name: "x", age: 3}`))
		b := canonicalArgs(parseArgs(t, `where: {age: 3, name: "x"}`))
		require.Equal(t, a, b)
	})

	t.Run("sensitive to list element order", func(t *testing.T) {
		a := canonicalArgs(parseArgs(t, "ids: [1, 2]"))
		b := canonicalArgs(parseArgs(t, "ids: [2, 1]"))
		require.NotEqual(t, a, b)
	})

	t.Run("sensitive to values", func(t *testing.T) {
		a := canonicalArgs(parseArgs(t, "x: 1"))
		b := canonicalArgs(parseArgs(t, "x: 2"))
		require.NotEqual(t, a, b)
	})

	t.Run("natural order of names", func(t *testing.T) {
		// arg2 sorts before arg10, so both spellings canonicalize the same
		a := canonicalArgs(parseArgs(t, "arg10: 1, arg2: 2"))
		b := canonicalArgs(parseArgs(t, "arg2: 2, arg10: 1"))
		require.Equal(t, a, b)
		require.Equal(t, "{arg2:2,arg10:1}", a)
	})

	t.Run("idempotent", func(t *testing.T) {
		args := parseArgs(t, "b: [1, {z: true, a: false}], a: $var")
		require.Equal(t, canonicalArgs(args), canonicalArgs(args))
	})

	t.Run("variables and enums pass through", func(t *testing.T) {
		require.Equal(t, "{cmd:SIT,v:$v}", canonicalArgs(parseArgs(t, "v: $v, cmd: SIT")))
	})

	t.Run("empty", func(t *testing.T) {
		require.Equal(t, "{}", canonicalArgs(nil))
	})
}
