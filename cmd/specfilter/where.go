package main

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AntonStoeckl/specification-filter-go/specification"
)

var ErrInvalidCondition = errors.New("invalid where condition")

// parseConditions turns where clauses into one specification, combined with AND, or with OR if matchAny is set.
//
//	color=green         field equals value
//	size=small|large    field equals any of the values
//	color!=green        negation of the above
//	name                field exists
//	!name               field does not exist
//
// Values are parsed as YAML scalars, so weight=3 compares numbers and flag=true compares booleans.
func parseConditions(clauses []string, matchAny bool) (specification.Specification, error) {
	specs := make([]specification.Specification, 0, len(clauses))
	for _, clause := range clauses {
		spec, err := parseCondition(clause)
		if err != nil {
			return nil, err
		}

		specs = append(specs, spec)
	}

	if len(specs) == 0 {
		return specification.BuildSpecification().MatchingAnyRecord(), nil
	}

	if matchAny {
		return specification.Or(specs...), nil
	}

	return specification.BuildSpecification().Matching().Satisfying(specs[0], specs[1:]...).Finalize(), nil
}

func parseCondition(clause string) (specification.Specification, error) {
	clause = strings.TrimSpace(clause)

	field, rawValues, hasValue := strings.Cut(clause, "=")
	if !hasValue {
		negated := strings.HasPrefix(field, "!")
		field = strings.TrimPrefix(field, "!")
		if field == "" {
			return nil, errors.Join(ErrInvalidCondition, fmt.Errorf("missing field in %q", clause))
		}

		if negated {
			return specification.Not(specification.FieldExists(field)), nil
		}

		return specification.FieldExists(field), nil
	}

	negated := strings.HasSuffix(field, "!")
	field = strings.TrimSpace(strings.TrimSuffix(field, "!"))
	if field == "" {
		return nil, errors.Join(ErrInvalidCondition, fmt.Errorf("missing field in %q", clause))
	}

	values := strings.Split(rawValues, "|")
	parsed := make([]any, len(values))
	for i, value := range values {
		parsed[i] = parseScalar(value)
	}

	var spec specification.Specification = specification.FieldEquals(field, parsed[0])
	if len(parsed) > 1 {
		spec = specification.FieldIn(field, parsed[0], parsed[1:]...)
	}

	if negated {
		return specification.Not(spec), nil
	}

	return spec, nil
}

// parseScalar reads the value like YAML would, anything that is not a scalar stays a string.
func parseScalar(raw string) any {
	if raw == "" {
		return ""
	}

	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		return raw
	}

	switch value.(type) {
	case map[string]any, []any:
		return raw
	default:
		return value
	}
}
