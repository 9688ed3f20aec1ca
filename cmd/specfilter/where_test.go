package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/specification-filter-go/specification"
)

func Test_ParseCondition(t *testing.T) {
	tests := []struct {
		name     string
		clause   string
		expected specification.Specification
	}{
		{name: "equals_string", clause: "color=green", expected: specification.FieldEquals("color", "green")},
		{name: "equals_number", clause: "weight=3", expected: specification.FieldEquals("weight", 3)},
		{name: "equals_bool", clause: "organic=true", expected: specification.FieldEquals("organic", true)},
		{name: "equals_null", clause: "note=null", expected: specification.FieldEquals("note", nil)},
		{name: "equals_empty_string", clause: "note=", expected: specification.FieldEquals("note", "")},
		{name: "equals_keeps_non_scalar_as_string", clause: "tags=[a, b]", expected: specification.FieldEquals("tags", "[a, b]")},
		{name: "trims_spaces_around_field", clause: " color =green", expected: specification.FieldEquals("color", "green")},
		{
			name:     "in",
			clause:   "size=small|large",
			expected: specification.FieldIn("size", "small", "large"),
		},
		{
			name:     "not_equals",
			clause:   "color!=green",
			expected: specification.Not(specification.FieldEquals("color", "green")),
		},
		{
			name:     "not_in",
			clause:   "size!=small|medium",
			expected: specification.Not(specification.FieldIn("size", "small", "medium")),
		},
		{name: "exists", clause: "name", expected: specification.FieldExists("name")},
		{name: "not_exists", clause: "!name", expected: specification.Not(specification.FieldExists("name"))},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := parseCondition(tc.clause)

			require.NoError(t, err)
			assert.Equal(t, specification.Describe(tc.expected), specification.Describe(spec))
		})
	}
}

func Test_ParseCondition_When_FieldIsMissing(t *testing.T) {
	for _, clause := range []string{"", "!", "=green", "!=green"} {
		t.Run(clause, func(t *testing.T) {
			_, err := parseCondition(clause)

			assert.ErrorIs(t, err, ErrInvalidCondition)
		})
	}
}

func Test_ParseConditions(t *testing.T) {
	apple := specification.Record{"name": "Apple", "color": "green", "size": "small"}
	tree := specification.Record{"name": "Tree", "color": "green", "size": "large"}
	house := specification.Record{"name": "House", "color": "blue", "size": "large"}
	records := specification.Records{apple, tree, house}

	tests := []struct {
		name          string
		clauses       []string
		matchAny      bool
		expectedDesc  string
		expectedNames []any
	}{
		{
			name:          "no_conditions_match_every_record",
			expectedDesc:  "TRUE",
			expectedNames: []any{"Apple", "Tree", "House"},
		},
		{
			name:          "single_condition",
			clauses:       []string{"color=green"},
			expectedDesc:  `color = "green"`,
			expectedNames: []any{"Apple", "Tree"},
		},
		{
			name:          "all_conditions",
			clauses:       []string{"color=green", "size=large"},
			expectedDesc:  `(color = "green" AND size = "large")`,
			expectedNames: []any{"Tree"},
		},
		{
			name:          "any_condition",
			clauses:       []string{"color=blue", "size=small"},
			matchAny:      true,
			expectedDesc:  `(color = "blue" OR size = "small")`,
			expectedNames: []any{"Apple", "House"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			spec, err := parseConditions(tc.clauses, tc.matchAny)

			// assert
			require.NoError(t, err)
			assert.Equal(t, tc.expectedDesc, specification.Describe(spec))

			names := make([]any, 0, len(tc.expectedNames))
			for _, record := range specification.Filter(records, spec) {
				names = append(names, record["name"])
			}
			assert.Equal(t, tc.expectedNames, names)
		})
	}
}

func Test_ParseConditions_When_AConditionIsInvalid(t *testing.T) {
	_, err := parseConditions([]string{"color=green", "=large"}, false)

	assert.ErrorIs(t, err, ErrInvalidCondition)
}
