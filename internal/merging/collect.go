package merging

import (
	"github.com/vektah/gqlparser/v2/ast"
)

// fieldOccurrence is one appearance of a field under a response name: the
// type it was selected on, the AST node, and the field definition when
// the parent is an object or interface that declares the field. Both
// parentType and definition may be nil for documents that fail other
// validation rules; those occurrences still take part in name, argument
// and directive checks.
type fieldOccurrence struct {
	parentType *ast.Definition
	field      *ast.Field
	definition *ast.FieldDefinition
}

// fieldGroup maps response names to their occurrences. Go maps don't
// iterate in insertion order, so the names are kept separately;
// diagnostics must come out in document order.
type fieldGroup struct {
	names  []string
	fields map[string][]*fieldOccurrence
}

func (fg *fieldGroup) get(name string) []*fieldOccurrence {
	return fg.fields[name]
}

func (fg *fieldGroup) add(name string, occ *fieldOccurrence) {
	if fg.fields == nil {
		fg.fields = make(map[string][]*fieldOccurrence)
	}
	if _, ok := fg.fields[name]; !ok {
		fg.names = append(fg.names, name)
	}
	fg.fields[name] = append(fg.fields[name], occ)
}

type collectedSelections struct {
	fields        *fieldGroup
	fragmentNames []string
}

// fieldsAndFragmentNames collects the fields of a selection set keyed by
// response name, plus the names of the fragments it spreads directly.
// Inline fragments are flattened in place with their type condition as
// the new parent type; named spreads are recorded, not expanded.
//
// The result is computed once per distinct selection set and cached for
// the rest of the pass, keyed by the identity of the set's first
// selection (a parsed document never aliases selection set heads). The
// same selection set is always reached under the same parent type, so
// the parent is not part of the key.
func (c *Checker) fieldsAndFragmentNames(parentType *ast.Definition, selectionSet ast.SelectionSet) (*fieldGroup, []string) {
	if len(selectionSet) == 0 {
		return &fieldGroup{}, nil
	}
	if cached, ok := c.selections[selectionSet[0]]; ok {
		return cached.fields, cached.fragmentNames
	}
	fields := &fieldGroup{}
	var fragmentNames []string
	c.collectFieldsAndFragmentNames(parentType, selectionSet, fields, &fragmentNames, make(map[string]struct{}))
	c.selections[selectionSet[0]] = &collectedSelections{fields: fields, fragmentNames: fragmentNames}
	return fields, fragmentNames
}

func (c *Checker) collectFieldsAndFragmentNames(parentType *ast.Definition, selectionSet ast.SelectionSet, fields *fieldGroup, fragmentNames *[]string, seen map[string]struct{}) {
	for _, selection := range selectionSet {
		switch selection := selection.(type) {
		case *ast.Field:
			var def *ast.FieldDefinition
			if parentType != nil && (parentType.Kind == ast.Object || parentType.Kind == ast.Interface) {
				def = parentType.Fields.ForName(selection.Name)
			}
			fields.add(responseName(selection), &fieldOccurrence{
				parentType: parentType,
				field:      selection,
				definition: def,
			})

		case *ast.FragmentSpread:
			if _, ok := seen[selection.Name]; !ok {
				seen[selection.Name] = struct{}{}
				*fragmentNames = append(*fragmentNames, selection.Name)
			}

		case *ast.InlineFragment:
			inlineType := parentType
			if selection.TypeCondition != "" {
				inlineType = c.schema.Types[selection.TypeCondition]
			}
			c.collectFieldsAndFragmentNames(inlineType, selection.SelectionSet, fields, fragmentNames, seen)
		}
	}
}

// referencedFieldsAndFragmentNames collects a fragment definition's own
// selection set under its type condition. Every spread site of the same
// fragment shares one cache entry.
func (c *Checker) referencedFieldsAndFragmentNames(fragment *ast.FragmentDefinition) (*fieldGroup, []string) {
	return c.fieldsAndFragmentNames(c.schema.Types[fragment.TypeCondition], fragment.SelectionSet)
}

// responseName is the key a field's result appears under in the
// response: the alias if one was written, the field name otherwise.
func responseName(field *ast.Field) string {
	if field.Alias != "" {
		return field.Alias
	}
	return field.Name
}
