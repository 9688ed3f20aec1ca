package specification

import (
	"slices"
	"strings"
)

/***** Predicate *****/

// Predicate is a key/value pair, it becomes a FieldEqualsSpecification when the specification is finalized.
type Predicate struct {
	key FieldNameString
	val any
}

// P creates a Predicate.
func P(key FieldNameString, val any) Predicate {
	return Predicate{key: key, val: val}
}

func (p Predicate) Key() FieldNameString {
	return p.key
}

func (p Predicate) Val() any {
	return p.val
}

/***** SpecificationBuilder *****/

// SpecificationBuilder builds a Specification in stages, so that only complete combinations can be finalized:
//
//   - any record
//   - (predicate AND predicate...)
//   - (predicate OR predicate...)
//   - (spec AND spec...)
//   - ((predicate AND predicate...) AND (predicate OR predicate...) AND spec...)
//   - (item) OR (item)... -> multiple items started with OrMatching()
type SpecificationBuilder interface {
	// Matching starts a new item.
	Matching() EmptyItemBuilder

	// MatchingAnyRecord directly creates a Specification which every record satisfies.
	MatchingAnyRecord() Specification
}

type EmptyItemBuilder interface {
	// AllPredicatesOf adds predicates to the current item, ALL of them must match.
	//
	// It sanitizes the input:
	//	- removing predicates with an empty key
	//	- removing duplicate predicates
	//	- sorting the predicates by key
	AllPredicatesOf(predicate Predicate, predicates ...Predicate) CompletedItemBuilder

	// AnyPredicateOf adds predicates to the current item, ANY of them must match.
	//
	// It sanitizes the input like AllPredicatesOf.
	AnyPredicateOf(predicate Predicate, predicates ...Predicate) CompletedItemBuilder

	// Satisfying adds arbitrary specifications to the current item, ALL of them must match.
	// nil specifications are dropped.
	Satisfying(spec Specification, specs ...Specification) CompletedItemBuilder
}

type CompletedItemBuilder interface {
	// AndAllPredicatesOf adds predicates to the current item, ALL of them must match.
	AndAllPredicatesOf(predicate Predicate, predicates ...Predicate) CompletedItemBuilder

	// AndAnyPredicateOf adds predicates to the current item, ANY of them must match.
	AndAnyPredicateOf(predicate Predicate, predicates ...Predicate) CompletedItemBuilder

	// AndSatisfying adds arbitrary specifications to the current item, ALL of them must match.
	AndSatisfying(spec Specification, specs ...Specification) CompletedItemBuilder

	// OrMatching finalizes the current item and starts a new one.
	OrMatching() EmptyItemBuilder

	// Finalize returns the Specification: the items combined with OR, the parts of each item combined with AND.
	Finalize() Specification
}

// specificationBuilder implements all the interfaces of SpecificationBuilder
type specificationBuilder struct {
	items       []Specification
	currentItem []Specification
}

// BuildSpecification creates a SpecificationBuilder which must eventually be finalized with Finalize() or MatchingAnyRecord().
func BuildSpecification() SpecificationBuilder {
	return specificationBuilder{}
}

// Matching starts a new item.
func (sb specificationBuilder) Matching() EmptyItemBuilder {
	sb.currentItem = nil

	return sb
}

// MatchingAnyRecord directly creates a Specification which every record satisfies.
func (sb specificationBuilder) MatchingAnyRecord() Specification {
	return And()
}

// AllPredicatesOf adds predicates to the current item expecting ALL predicates to match.
func (sb specificationBuilder) AllPredicatesOf(predicate Predicate, predicates ...Predicate) CompletedItemBuilder {
	fieldSpecs := sb.toFieldSpecifications(sb.sanitizePredicates(predicate, predicates...))

	return sb.withPart(sb.allOf(fieldSpecs))
}

// AndAllPredicatesOf adds predicates to the current item expecting ALL predicates to match.
func (sb specificationBuilder) AndAllPredicatesOf(predicate Predicate, predicates ...Predicate) CompletedItemBuilder {
	return sb.AllPredicatesOf(predicate, predicates...)
}

// AnyPredicateOf adds predicates to the current item expecting ANY predicate to match.
func (sb specificationBuilder) AnyPredicateOf(predicate Predicate, predicates ...Predicate) CompletedItemBuilder {
	sanitized := sb.sanitizePredicates(predicate, predicates...)
	if len(sanitized) == 0 {
		// nothing left to choose from, the item must not turn into "matches nothing"
		return sb.withPart(And())
	}

	fieldSpecs := sb.toFieldSpecifications(sanitized)
	if len(fieldSpecs) == 1 {
		return sb.withPart(fieldSpecs[0])
	}

	return sb.withPart(Or(fieldSpecs...))
}

// AndAnyPredicateOf adds predicates to the current item expecting ANY predicate to match.
func (sb specificationBuilder) AndAnyPredicateOf(predicate Predicate, predicates ...Predicate) CompletedItemBuilder {
	return sb.AnyPredicateOf(predicate, predicates...)
}

// Satisfying adds arbitrary specifications to the current item expecting ALL of them to match.
func (sb specificationBuilder) Satisfying(spec Specification, specs ...Specification) CompletedItemBuilder {
	allSpecs := withoutNil(append([]Specification{spec}, specs...))

	return sb.withPart(sb.allOf(allSpecs))
}

// AndSatisfying adds arbitrary specifications to the current item expecting ALL of them to match.
func (sb specificationBuilder) AndSatisfying(spec Specification, specs ...Specification) CompletedItemBuilder {
	return sb.Satisfying(spec, specs...)
}

// OrMatching finalizes the current item and starts a new one.
func (sb specificationBuilder) OrMatching() EmptyItemBuilder {
	sb.items = append(slices.Clone(sb.items), sb.finalizeCurrentItem())
	sb.currentItem = nil

	return sb
}

// Finalize returns the Specification built so far.
func (sb specificationBuilder) Finalize() Specification {
	items := append(slices.Clone(sb.items), sb.finalizeCurrentItem())

	if len(items) == 1 {
		return items[0]
	}

	return Or(items...)
}

// withPart appends to a copy of the current item, so that builders branching off the same stage don't share state.
func (sb specificationBuilder) withPart(part Specification) specificationBuilder {
	sb.currentItem = append(slices.Clone(sb.currentItem), part)

	return sb
}

func (sb specificationBuilder) finalizeCurrentItem() Specification {
	return sb.allOf(sb.currentItem)
}

// allOf avoids wrapping a single specification into a composite.
func (sb specificationBuilder) allOf(specs []Specification) Specification {
	if len(specs) == 1 {
		return specs[0]
	}

	return And(specs...)
}

func (sb specificationBuilder) toFieldSpecifications(predicates []Predicate) []Specification {
	specs := make([]Specification, len(predicates))
	for i, predicate := range predicates {
		specs[i] = FieldEquals(predicate.key, predicate.val)
	}

	return specs
}

func (sb specificationBuilder) sanitizePredicates(predicate Predicate, predicates ...Predicate) []Predicate {
	allPredicates := append([]Predicate{predicate}, predicates...)
	allPredicates = slices.DeleteFunc(allPredicates, func(p Predicate) bool { return len(p.key) == 0 })

	unique := make([]Predicate, 0, len(allPredicates))
	for _, candidate := range allPredicates {
		isDuplicate := slices.ContainsFunc(unique, func(p Predicate) bool {
			return p.key == candidate.key && valuesEqual(p.val, candidate.val)
		})

		if !isDuplicate {
			unique = append(unique, candidate)
		}
	}

	slices.SortStableFunc(unique, func(a, b Predicate) int {
		return strings.Compare(a.key, b.key)
	})

	return slices.Clip(unique)
}
