package specification

import (
	"fmt"
	"strings"
)

// Specification is a predicate over a Record.
//
// IsSatisfiedBy must be a pure function of the record, without side effects.
// A record that lacks the tested field does not satisfy the specification, this is not an error.
type Specification interface {
	IsSatisfiedBy(record Record) bool
}

/***** SpecificationFunc *****/

// SpecificationFunc adapts an ordinary function to the Specification interface.
//
// Store engines which translate specifications into queries can't look into a function,
// see ErrSpecificationNotTranslatable.
type SpecificationFunc func(record Record) bool

func (f SpecificationFunc) IsSatisfiedBy(record Record) bool {
	return f(record)
}

func (f SpecificationFunc) String() string {
	return "func(record)"
}

/***** FieldEqualsSpecification *****/

// FieldEqualsSpecification is satisfied by records where the field is present and equal to the value.
type FieldEqualsSpecification struct {
	field FieldNameString
	value any
}

// FieldEquals creates a FieldEqualsSpecification.
func FieldEquals(field FieldNameString, value any) FieldEqualsSpecification {
	return FieldEqualsSpecification{field: field, value: value}
}

func (s FieldEqualsSpecification) Field() FieldNameString {
	return s.field
}

func (s FieldEqualsSpecification) Value() any {
	return s.value
}

func (s FieldEqualsSpecification) IsSatisfiedBy(record Record) bool {
	value, ok := record.Lookup(s.field)
	if !ok {
		return false
	}

	return valuesEqual(value, s.value)
}

func (s FieldEqualsSpecification) String() string {
	return fmt.Sprintf("%s = %s", s.field, formatValue(s.value))
}

/***** FieldInSpecification *****/

// FieldInSpecification is satisfied by records where the field is present and equal to any of the values.
type FieldInSpecification struct {
	field  FieldNameString
	values []any
}

// FieldIn creates a FieldInSpecification, it requires at least one value.
func FieldIn(field FieldNameString, value any, values ...any) FieldInSpecification {
	allValues := make([]any, 0, len(values)+1)
	allValues = append(allValues, value)
	allValues = append(allValues, values...)

	return FieldInSpecification{field: field, values: allValues}
}

func (s FieldInSpecification) Field() FieldNameString {
	return s.field
}

func (s FieldInSpecification) Values() []any {
	return s.values
}

func (s FieldInSpecification) IsSatisfiedBy(record Record) bool {
	value, ok := record.Lookup(s.field)
	if !ok {
		return false
	}

	for _, candidate := range s.values {
		if valuesEqual(value, candidate) {
			return true
		}
	}

	return false
}

func (s FieldInSpecification) String() string {
	formatted := make([]string, len(s.values))
	for i, value := range s.values {
		formatted[i] = formatValue(value)
	}

	return fmt.Sprintf("%s IN (%s)", s.field, strings.Join(formatted, ", "))
}

/***** FieldExistsSpecification *****/

// FieldExistsSpecification is satisfied by records where the field is present, whatever its value.
type FieldExistsSpecification struct {
	field FieldNameString
}

// FieldExists creates a FieldExistsSpecification.
func FieldExists(field FieldNameString) FieldExistsSpecification {
	return FieldExistsSpecification{field: field}
}

func (s FieldExistsSpecification) Field() FieldNameString {
	return s.field
}

func (s FieldExistsSpecification) IsSatisfiedBy(record Record) bool {
	_, ok := record.Lookup(s.field)

	return ok
}

func (s FieldExistsSpecification) String() string {
	return "EXISTS " + s.field
}

/***** Describe *****/

// Describe renders a specification for logs and tracing attributes.
func Describe(spec Specification) string {
	if spec == nil {
		return "TRUE"
	}

	if stringer, ok := spec.(fmt.Stringer); ok {
		return stringer.String()
	}

	return fmt.Sprintf("%T", spec)
}

func formatValue(value any) string {
	if s, ok := value.(string); ok {
		return fmt.Sprintf("%q", s)
	}

	return fmt.Sprintf("%v", value)
}
