// Package validate checks that every selection set in a parsed query
// document can be merged into a single unambiguous response shape.
//
// It runs exactly one rule, the field-selection-merging check. Other
// validation concerns (unknown fragments, fragment cycles, unknown
// fields) are assumed to be owned by other rules and are tolerated here
// rather than reported.
package validate

import (
	"context"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/gqlcheck/gqlcheck/internal/log"
	"github.com/gqlcheck/gqlcheck/internal/merging"
)

const errorCode = "OVERLAPPING_FIELDS_CAN_BE_MERGED"

type config struct {
	streamDirective string
}

type Option func(cfg *config)

// WithStreamDirective overrides the directive name treated as the
// incremental delivery marker. The default is "stream".
func WithStreamDirective(name string) Option {
	return func(cfg *config) {
		cfg.streamDirective = name
	}
}

// Validate runs one field-merging pass over doc against schema and
// returns every conflict found, in document order. It never aborts on
// the first conflict.
//
// The document must be parsed and its fragment spreads must be acyclic;
// cycle detection is a precondition owned by the caller. Each call
// builds its own caches, so concurrent calls on different documents are
// safe.
func Validate(ctx context.Context, schema *ast.Schema, doc *ast.QueryDocument, opts ...Option) gqlerror.List {
	cfg := &config{streamDirective: merging.DefaultStreamDirective}
	for _, opt := range opts {
		opt(cfg)
	}

	checker := merging.NewChecker(schema, doc.Fragments)
	checker.SetStreamDirective(cfg.streamDirective)

	w := &walker{
		schema:  schema,
		checker: checker,
	}

	logger := log.FromContext(ctx)
	for _, operation := range doc.Operations {
		logger.V(1).Info("checking operation", "operation", operationName(operation))
		w.walkSelectionSet(rootType(schema, operation.Operation), operation.SelectionSet)
	}
	for _, fragment := range doc.Fragments {
		logger.V(1).Info("checking fragment", "fragment", fragment.Name)
		w.walkSelectionSet(schema.Types[fragment.TypeCondition], fragment.SelectionSet)
	}
	if len(w.errs) != 0 {
		logger.V(1).Info("merge conflicts found", "count", len(w.errs))
	}
	return w.errs
}

type walker struct {
	schema  *ast.Schema
	checker *merging.Checker
	errs    gqlerror.List
}

// walkSelectionSet enters every selection set at or beneath selectionSet
// in document order and runs the merge check once per set entered.
// Fragment spreads are not followed; each fragment definition's tree is
// visited once from Validate.
func (w *walker) walkSelectionSet(parentType *ast.Definition, selectionSet ast.SelectionSet) {
	if len(selectionSet) == 0 {
		return
	}

	for _, conflict := range w.checker.CheckSelectionSet(parentType, selectionSet) {
		w.errs = append(w.errs, conflictError(conflict))
	}

	for _, selection := range selectionSet {
		switch selection := selection.(type) {
		case *ast.Field:
			if len(selection.SelectionSet) == 0 {
				continue
			}
			var fieldType *ast.Definition
			if parentType != nil && (parentType.Kind == ast.Object || parentType.Kind == ast.Interface) {
				if def := parentType.Fields.ForName(selection.Name); def != nil {
					fieldType = w.schema.Types[def.Type.Name()]
				}
			}
			w.walkSelectionSet(fieldType, selection.SelectionSet)

		case *ast.InlineFragment:
			inlineType := parentType
			if selection.TypeCondition != "" {
				inlineType = w.schema.Types[selection.TypeCondition]
			}
			w.walkSelectionSet(inlineType, selection.SelectionSet)
		}
	}
}

func conflictError(conflict *merging.Conflict) *gqlerror.Error {
	gErr := &gqlerror.Error{
		Message: conflict.Message(),
		Extensions: map[string]interface{}{
			"code": errorCode,
		},
	}
	for _, pos := range conflict.Positions() {
		if pos == nil {
			continue
		}
		gErr.Locations = append(gErr.Locations, gqlerror.Location{
			Line:   pos.Line,
			Column: pos.Column,
		})
	}
	return gErr
}

func rootType(schema *ast.Schema, operation ast.Operation) *ast.Definition {
	switch operation {
	case ast.Mutation:
		return schema.Mutation
	case ast.Subscription:
		return schema.Subscription
	default:
		return schema.Query
	}
}

func operationName(operation *ast.OperationDefinition) string {
	if operation.Name != "" {
		return operation.Name
	}
	return "(anonymous)"
}
