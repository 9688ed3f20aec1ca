package specification

import (
	"strings"
)

/***** AndSpecification *****/

// AndSpecification is the composite specification: it is satisfied iff all of its children are satisfied.
//
// Without children it is satisfied by every record.
// An AndSpecification can itself be the child of another composite.
type AndSpecification struct {
	specs []Specification
}

// And creates an AndSpecification from the given children, nil children are dropped.
func And(specs ...Specification) AndSpecification {
	return AndSpecification{specs: withoutNil(specs)}
}

// Specifications returns the children in their original order.
func (s AndSpecification) Specifications() []Specification {
	return s.specs
}

func (s AndSpecification) IsSatisfiedBy(record Record) bool {
	for _, spec := range s.specs {
		if !spec.IsSatisfiedBy(record) {
			return false
		}
	}

	return true
}

func (s AndSpecification) String() string {
	if len(s.specs) == 0 {
		return "TRUE"
	}

	return joinDescriptions(s.specs, " AND ")
}

/***** OrSpecification *****/

// OrSpecification is satisfied iff any of its children is satisfied.
//
// Without children it is satisfied by no record.
type OrSpecification struct {
	specs []Specification
}

// Or creates an OrSpecification from the given children, nil children are dropped.
func Or(specs ...Specification) OrSpecification {
	return OrSpecification{specs: withoutNil(specs)}
}

// Specifications returns the children in their original order.
func (s OrSpecification) Specifications() []Specification {
	return s.specs
}

func (s OrSpecification) IsSatisfiedBy(record Record) bool {
	for _, spec := range s.specs {
		if spec.IsSatisfiedBy(record) {
			return true
		}
	}

	return false
}

func (s OrSpecification) String() string {
	if len(s.specs) == 0 {
		return "FALSE"
	}

	return joinDescriptions(s.specs, " OR ")
}

/***** NotSpecification *****/

// NotSpecification negates its child.
type NotSpecification struct {
	spec Specification
}

// Not creates a NotSpecification. A nil child is treated as And(), so Not(nil) is satisfied by no record.
func Not(spec Specification) NotSpecification {
	if spec == nil {
		spec = And()
	}

	return NotSpecification{spec: spec}
}

// Specification returns the negated child.
func (s NotSpecification) Specification() Specification {
	return s.spec
}

func (s NotSpecification) IsSatisfiedBy(record Record) bool {
	return !s.spec.IsSatisfiedBy(record)
}

func (s NotSpecification) String() string {
	return "NOT (" + Describe(s.spec) + ")"
}

func withoutNil(specs []Specification) []Specification {
	result := make([]Specification, 0, len(specs))
	for _, spec := range specs {
		if spec != nil {
			result = append(result, spec)
		}
	}

	return result
}

func joinDescriptions(specs []Specification, separator string) string {
	descriptions := make([]string, len(specs))
	for i, spec := range specs {
		descriptions[i] = Describe(spec)
	}

	return "(" + strings.Join(descriptions, separator) + ")"
}
