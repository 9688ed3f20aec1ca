// Package specification provides composable record specifications and the filter
// that applies them.
//
// A Specification is a pure predicate over a Record. New criteria are added by
// introducing new Specification variants, the Filter and the existing variants
// never change for that.
//
// Key types:
//   - Record: a mapping from field name to value
//   - Specification: a predicate over a Record
//   - AndSpecification, OrSpecification, NotSpecification: combinators
//   - RecordStore: the capability interfaces implemented by the store engines
//
// Common usage pattern:
//
//	spec := specification.And(
//		specification.FieldEquals("color", "green"),
//		specification.FieldEquals("size", "large"),
//	)
//
//	largeAndGreen := specification.Filter(records, spec)
//
// The same specification can be built with the staged builder:
//
//	spec := specification.BuildSpecification().
//		Matching().
//		AllPredicatesOf(P("color", "green"), P("size", "large")).
//		Finalize()
//
//	records, err := store.Query(ctx, spec)
package specification
