// Package merging decides whether the selection sets of a query document
// can be merged into a single unambiguous response shape.
//
// Conflicts are found by comparing fields pairwise: within one selection
// set, between a selection set and each fragment it spreads, and between
// every pair of spread fragments, recursing through transitively
// referenced fragments. Fields selected on provably distinct concrete
// object types are mutually exclusive and may diverge in alias target
// and arguments, but never in stream delivery or leaf return type.
//
// A selection-set cache and a fragment-pair memo keep the pass
// polynomial in the number of distinct fragments; both are scoped to one
// Checker and one pass. Fragment spreads are assumed acyclic, an
// invariant owned by a separate rule.
package merging

import (
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// DefaultStreamDirective is the directive name compared by the stream
// consistency check unless overridden.
const DefaultStreamDirective = "stream"

// Checker runs one field-merging pass over one document. It owns the
// per-pass caches and must not be shared between passes or goroutines;
// concurrent validations each need their own Checker.
type Checker struct {
	schema          *ast.Schema
	fragments       ast.FragmentDefinitionList
	streamDirective string

	selections        map[ast.Selection]*collectedSelections
	comparedFragments *pairSet
}

func NewChecker(schema *ast.Schema, fragments ast.FragmentDefinitionList) *Checker {
	return &Checker{
		schema:            schema,
		fragments:         fragments,
		streamDirective:   DefaultStreamDirective,
		selections:        make(map[ast.Selection]*collectedSelections),
		comparedFragments: newPairSet(),
	}
}

// SetStreamDirective changes the directive name treated as the
// incremental delivery marker.
func (c *Checker) SetStreamDirective(name string) {
	c.streamDirective = name
}

// Conflict is one merge violation rooted at a response name. FieldsA and
// FieldsB hold the involved field nodes from each side, parents first,
// then every node contributed by nested sub-conflicts.
type Conflict struct {
	Reason  ConflictReason
	FieldsA []*ast.Field
	FieldsB []*ast.Field
}

// ConflictReason explains a conflict at one response name: either a leaf
// Message, or the Nested reasons of the sub-selection comparison that
// produced it. The two cases are mutually exclusive.
type ConflictReason struct {
	ResponseName string
	Message      string
	Nested       []ConflictReason
}

func (r ConflictReason) String() string {
	if len(r.Nested) == 0 {
		return r.Message
	}
	parts := make([]string, 0, len(r.Nested))
	for _, sub := range r.Nested {
		parts = append(parts, fmt.Sprintf("subfields %q conflict because %s", sub.ResponseName, sub.String()))
	}
	return strings.Join(parts, " and ")
}

// Message renders the complete human readable diagnostic for a
// top-level conflict.
func (c *Conflict) Message() string {
	return fmt.Sprintf(
		"Fields %q conflict because %s. Use different aliases on the fields to fetch both if this was intentional.",
		c.Reason.ResponseName, c.Reason.String(),
	)
}

// Positions returns the source positions of every involved field, first
// side then second side, in collection order.
func (c *Conflict) Positions() []*ast.Position {
	positions := make([]*ast.Position, 0, len(c.FieldsA)+len(c.FieldsB))
	for _, field := range c.FieldsA {
		positions = append(positions, field.Position)
	}
	for _, field := range c.FieldsB {
		positions = append(positions, field.Position)
	}
	return positions
}

// CheckSelectionSet reports every merge conflict among the fields of one
// selection set, including fields reached through fragment spreads. The
// caller is expected to invoke it once per selection set it encounters
// while walking the document; the caches make repeat visits of shared
// fragment selection sets cheap.
func (c *Checker) CheckSelectionSet(parentType *ast.Definition, selectionSet ast.SelectionSet) []*Conflict {
	var conflicts []*Conflict
	fields, fragmentNames := c.fieldsAndFragmentNames(parentType, selectionSet)

	c.collectConflictsWithin(&conflicts, fields)

	for i, fragmentName := range fragmentNames {
		// Fields in one selection set share every possible runtime type,
		// so nothing here is mutually exclusive.
		c.collectConflictsBetweenFieldsAndFragment(&conflicts, false, fields, fragmentName)
		for _, otherName := range fragmentNames[i+1:] {
			c.collectConflictsBetweenFragments(&conflicts, false, fragmentName, otherName)
		}
	}
	return conflicts
}

// collectConflictsWithin compares every distinct pair of occurrences
// that share a response name inside a single field group.
func (c *Checker) collectConflictsWithin(conflicts *[]*Conflict, fields *fieldGroup) {
	for _, name := range fields.names {
		occurrences := fields.get(name)
		if len(occurrences) < 2 {
			continue
		}
		for i, occA := range occurrences {
			for _, occB := range occurrences[i+1:] {
				if conflict := c.findConflict(false, name, occA, occB); conflict != nil {
					*conflicts = append(*conflicts, conflict)
				}
			}
		}
	}
}

// collectConflictsBetween compares every occurrence from the first group
// against every occurrence from the second for each shared response
// name. Both groups must already have passed collectConflictsWithin on
// their own.
func (c *Checker) collectConflictsBetween(conflicts *[]*Conflict, exclusive bool, fieldsA, fieldsB *fieldGroup) {
	for _, name := range fieldsA.names {
		occurrencesB := fieldsB.get(name)
		if len(occurrencesB) == 0 {
			continue
		}
		for _, occA := range fieldsA.get(name) {
			for _, occB := range occurrencesB {
				if conflict := c.findConflict(exclusive, name, occA, occB); conflict != nil {
					*conflicts = append(*conflicts, conflict)
				}
			}
		}
	}
}

// collectConflictsBetweenFieldsAndFragment compares a field group
// against a named fragment's fields, then against every fragment that
// fragment references, transitively. The pair memo caps the recursion.
func (c *Checker) collectConflictsBetweenFieldsAndFragment(conflicts *[]*Conflict, exclusive bool, fields *fieldGroup, fragmentName string) {
	fragment := c.fragments.ForName(fragmentName)
	if fragment == nil {
		return
	}
	fragmentFields, referencedNames := c.referencedFieldsAndFragmentNames(fragment)

	// A fragment reached from its own selection set compares a group to
	// itself; nothing new can come of that.
	if fragmentFields == fields {
		return
	}

	c.collectConflictsBetween(conflicts, exclusive, fields, fragmentFields)

	for _, referencedName := range referencedNames {
		if c.comparedFragments.Has(referencedName, fragmentName, exclusive) {
			continue
		}
		c.comparedFragments.Add(referencedName, fragmentName, exclusive)
		c.collectConflictsBetweenFieldsAndFragment(conflicts, exclusive, fields, referencedName)
	}
}

// collectConflictsBetweenFragments compares two named fragments' fields,
// then each against the fragments the other references.
func (c *Checker) collectConflictsBetweenFragments(conflicts *[]*Conflict, exclusive bool, fragmentNameA, fragmentNameB string) {
	if fragmentNameA == fragmentNameB {
		return
	}
	if c.comparedFragments.Has(fragmentNameA, fragmentNameB, exclusive) {
		return
	}
	c.comparedFragments.Add(fragmentNameA, fragmentNameB, exclusive)

	fragmentA := c.fragments.ForName(fragmentNameA)
	fragmentB := c.fragments.ForName(fragmentNameB)
	if fragmentA == nil || fragmentB == nil {
		return
	}

	fieldsA, referencedNamesA := c.referencedFieldsAndFragmentNames(fragmentA)
	fieldsB, referencedNamesB := c.referencedFieldsAndFragmentNames(fragmentB)

	c.collectConflictsBetween(conflicts, exclusive, fieldsA, fieldsB)

	for _, referencedName := range referencedNamesB {
		c.collectConflictsBetweenFragments(conflicts, exclusive, fragmentNameA, referencedName)
	}
	for _, referencedName := range referencedNamesA {
		c.collectConflictsBetweenFragments(conflicts, exclusive, referencedName, fragmentNameB)
	}
}

// findConflictsBetweenSubSelectionSets compares two sub-selection sets
// that ended up under the same response name, including all fragments
// reachable from either side. Mirrors CheckSelectionSet's cross-fragment
// logic, seeded from two groups instead of one.
func (c *Checker) findConflictsBetweenSubSelectionSets(exclusive bool, parentTypeA *ast.Definition, selectionSetA ast.SelectionSet, parentTypeB *ast.Definition, selectionSetB ast.SelectionSet) []*Conflict {
	var conflicts []*Conflict

	fieldsA, fragmentNamesA := c.fieldsAndFragmentNames(parentTypeA, selectionSetA)
	fieldsB, fragmentNamesB := c.fieldsAndFragmentNames(parentTypeB, selectionSetB)

	c.collectConflictsBetween(&conflicts, exclusive, fieldsA, fieldsB)

	for _, fragmentName := range fragmentNamesB {
		c.collectConflictsBetweenFieldsAndFragment(&conflicts, exclusive, fieldsA, fragmentName)
	}
	for _, fragmentName := range fragmentNamesA {
		c.collectConflictsBetweenFieldsAndFragment(&conflicts, exclusive, fieldsB, fragmentName)
	}
	for _, fragmentNameA := range fragmentNamesA {
		for _, fragmentNameB := range fragmentNamesB {
			c.collectConflictsBetweenFragments(&conflicts, exclusive, fragmentNameA, fragmentNameB)
		}
	}
	return conflicts
}

// findConflict decides whether two occurrences of one response name can
// merge. parentExclusive carries the exclusivity established by
// enclosing fields.
func (c *Checker) findConflict(parentExclusive bool, name string, occA, occB *fieldOccurrence) *Conflict {
	// Fields declared on two different concrete object types can never
	// both apply to one response value and may freely diverge in alias
	// target and arguments. Interface and union parents might overlap,
	// if not in this schema version then in a future one, so they get no
	// such liberty.
	exclusive := parentExclusive ||
		(occA.parentType != occB.parentType &&
			occA.parentType != nil && occA.parentType.Kind == ast.Object &&
			occB.parentType != nil && occB.parentType.Kind == ast.Object)

	fieldA, fieldB := occA.field, occB.field

	if !exclusive {
		if fieldA.Name != fieldB.Name {
			return &Conflict{
				Reason: ConflictReason{
					ResponseName: name,
					Message:      fmt.Sprintf("%q and %q are different fields", fieldA.Name, fieldB.Name),
				},
				FieldsA: []*ast.Field{fieldA},
				FieldsB: []*ast.Field{fieldB},
			}
		}

		if canonicalArgs(fieldA.Arguments) != canonicalArgs(fieldB.Arguments) {
			return &Conflict{
				Reason: ConflictReason{
					ResponseName: name,
					Message:      "they have differing arguments",
				},
				FieldsA: []*ast.Field{fieldA},
				FieldsB: []*ast.Field{fieldB},
			}
		}
	}

	// Stream delivery changes the shape of the response stream itself,
	// so it must agree even between mutually exclusive fields.
	if !c.sameStreams(fieldA.Directives, fieldB.Directives) {
		return &Conflict{
			Reason: ConflictReason{
				ResponseName: name,
				Message:      "they have differing stream directives",
			},
			FieldsA: []*ast.Field{fieldA},
			FieldsB: []*ast.Field{fieldB},
		}
	}

	var typeA, typeB *ast.Type
	if occA.definition != nil {
		typeA = occA.definition.Type
	}
	if occB.definition != nil {
		typeB = occB.definition.Type
	}
	if typeA != nil && typeB != nil && typesConflict(c.schema, typeA, typeB) {
		return &Conflict{
			Reason: ConflictReason{
				ResponseName: name,
				Message:      fmt.Sprintf("they return conflicting types %q and %q", typeA.String(), typeB.String()),
			},
			FieldsA: []*ast.Field{fieldA},
			FieldsB: []*ast.Field{fieldB},
		}
	}

	if len(fieldA.SelectionSet) != 0 && len(fieldB.SelectionSet) != 0 {
		subConflicts := c.findConflictsBetweenSubSelectionSets(
			exclusive,
			c.namedType(typeA), fieldA.SelectionSet,
			c.namedType(typeB), fieldB.SelectionSet,
		)
		return subfieldConflicts(subConflicts, name, fieldA, fieldB)
	}

	return nil
}

func (c *Checker) sameStreams(a, b ast.DirectiveList) bool {
	streamA := a.ForName(c.streamDirective)
	streamB := b.ForName(c.streamDirective)
	if streamA == nil && streamB == nil {
		return true
	}
	if streamA == nil || streamB == nil {
		return false
	}
	return canonicalArgs(streamA.Arguments) == canonicalArgs(streamB.Arguments)
}

func (c *Checker) namedType(t *ast.Type) *ast.Definition {
	if t == nil {
		return nil
	}
	return c.schema.Types[t.Name()]
}

// subfieldConflicts folds the conflicts of a sub-selection comparison
// into one conflict attributed to the parent response name.
func subfieldConflicts(subConflicts []*Conflict, name string, fieldA, fieldB *ast.Field) *Conflict {
	if len(subConflicts) == 0 {
		return nil
	}
	merged := &Conflict{
		Reason:  ConflictReason{ResponseName: name},
		FieldsA: []*ast.Field{fieldA},
		FieldsB: []*ast.Field{fieldB},
	}
	for _, sub := range subConflicts {
		merged.Reason.Nested = append(merged.Reason.Nested, sub.Reason)
		merged.FieldsA = append(merged.FieldsA, sub.FieldsA...)
		merged.FieldsB = append(merged.FieldsB, sub.FieldsB...)
	}
	return merged
}
