package postgresengine

import (
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/specification-filter-go/specification"
)

const (
	sqlFieldEquals = "(? -> ? = ?::jsonb) IS TRUE"
	sqlFieldExists = "jsonb_exists"
	sqlNot         = "NOT (?)"
	sqlTrue        = "TRUE"
	sqlFalse       = "FALSE"
)

// toExpression translates a specification into a goqu expression.
// This is the only place which knows the concrete specification variants.
func toExpression(spec specification.Specification) (exp.Expression, error) {
	switch s := spec.(type) {
	case nil:
		return goqu.L(sqlTrue), nil

	case specification.FieldEqualsSpecification:
		return fieldEquals(s.Field(), s.Value())

	case specification.FieldInSpecification:
		alternatives := make([]exp.Expression, 0, len(s.Values()))
		for _, value := range s.Values() {
			expression, err := fieldEquals(s.Field(), value)
			if err != nil {
				return nil, err
			}

			alternatives = append(alternatives, expression)
		}

		return goqu.Or(alternatives...), nil

	case specification.FieldExistsSpecification:
		return goqu.Func(sqlFieldExists, goqu.C(colPayload), s.Field()), nil

	case specification.AndSpecification:
		children, err := toExpressions(s.Specifications())
		if err != nil {
			return nil, err
		}

		if len(children) == 0 {
			return goqu.L(sqlTrue), nil
		}

		return goqu.And(children...), nil

	case specification.OrSpecification:
		children, err := toExpressions(s.Specifications())
		if err != nil {
			return nil, err
		}

		if len(children) == 0 {
			return goqu.L(sqlFalse), nil
		}

		return goqu.Or(children...), nil

	case specification.NotSpecification:
		child, err := toExpression(s.Specification())
		if err != nil {
			return nil, err
		}

		return goqu.L(sqlNot, child), nil

	default:
		return nil, errors.Join(
			specification.ErrSpecificationNotTranslatable,
			fmt.Errorf("unsupported specification type %T", spec),
		)
	}
}

func toExpressions(specs []specification.Specification) ([]exp.Expression, error) {
	expressions := make([]exp.Expression, 0, len(specs))
	for _, spec := range specs {
		expression, err := toExpression(spec)
		if err != nil {
			return nil, err
		}

		expressions = append(expressions, expression)
	}

	return expressions, nil
}

// fieldEquals compares the jsonb value of the field. A missing field makes the comparison NULL,
// IS TRUE turns that into FALSE so that NOT (...) matches records without the field.
// jsonb compares numbers by value, so 3 and 3.0 are equal like they are in memory.
func fieldEquals(field specification.FieldNameString, value any) (exp.Expression, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, errors.Join(specification.ErrBuildingQueryFailed, err)
	}

	return goqu.L(sqlFieldEquals, goqu.C(colPayload), field, string(encoded)), nil
}
