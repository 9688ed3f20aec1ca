package specification_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/AntonStoeckl/specification-filter-go/specification"
	"github.com/AntonStoeckl/specification-filter-go/testutil/fixtures"
)

//nolint:funlen
func Test_SpecificationBuilder_ValidCombinations(t *testing.T) {
	tests := []struct {
		name          string
		build         func() Specification
		expectedDesc  string
		expectedNames []string
	}{
		{
			name: "matching_any_record",
			build: func() Specification {
				return BuildSpecification().MatchingAnyRecord()
			},
			expectedDesc:  "TRUE",
			expectedNames: []string{"Apple", "Tree", "House"},
		},
		{
			name: "single_predicate",
			build: func() Specification {
				return BuildSpecification().
					Matching().
					AllPredicatesOf(P("color", "green")).
					Finalize()
			},
			expectedDesc:  `color = "green"`,
			expectedNames: []string{"Apple", "Tree"},
		},
		{
			name: "all_predicates_of",
			build: func() Specification {
				return BuildSpecification().
					Matching().
					AllPredicatesOf(P("size", "large"), P("color", "green")).
					Finalize()
			},
			expectedDesc:  `(color = "green" AND size = "large")`,
			expectedNames: []string{"Tree"},
		},
		{
			name: "any_predicate_of",
			build: func() Specification {
				return BuildSpecification().
					Matching().
					AnyPredicateOf(P("name", "House"), P("name", "Apple")).
					Finalize()
			},
			expectedDesc:  `(name = "House" OR name = "Apple")`,
			expectedNames: []string{"Apple", "House"},
		},
		{
			name: "all_predicates_and_any_predicate",
			build: func() Specification {
				return BuildSpecification().
					Matching().
					AllPredicatesOf(P("size", "large")).
					AndAnyPredicateOf(P("color", "green"), P("color", "red")).
					Finalize()
			},
			expectedDesc:  `(size = "large" AND (color = "green" OR color = "red"))`,
			expectedNames: []string{"Tree"},
		},
		{
			name: "satisfying_and_all_predicates",
			build: func() Specification {
				return BuildSpecification().
					Matching().
					Satisfying(Not(FieldEquals("color", "blue"))).
					AndAllPredicatesOf(P("size", "small")).
					Finalize()
			},
			expectedDesc:  `(NOT (color = "blue") AND size = "small")`,
			expectedNames: []string{"Apple"},
		},
		{
			name: "any_predicate_and_satisfying",
			build: func() Specification {
				return BuildSpecification().
					Matching().
					AnyPredicateOf(P("size", "large")).
					AndSatisfying(FieldExists("name"), FieldEquals("color", "blue")).
					Finalize()
			},
			expectedDesc:  `(size = "large" AND (EXISTS name AND color = "blue"))`,
			expectedNames: []string{"House"},
		},
		{
			name: "or_matching_multiple_items",
			build: func() Specification {
				return BuildSpecification().
					Matching().
					AllPredicatesOf(P("color", "green"), P("size", "small")).
					OrMatching().
					AllPredicatesOf(P("color", "blue")).
					Finalize()
			},
			expectedDesc:  `((color = "green" AND size = "small") OR color = "blue")`,
			expectedNames: []string{"Apple", "House"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spec := tc.build()

			assert.Equal(t, tc.expectedDesc, Describe(spec))
			assert.Equal(t, tc.expectedNames, fixtures.Names(Filter(fixtures.SampleProducts(), spec)))
		})
	}
}

func Test_SpecificationBuilder_SanitizesPredicates(t *testing.T) {
	tests := []struct {
		name         string
		build        func() Specification
		expectedDesc string
	}{
		{
			name: "removes_predicates_with_empty_key",
			build: func() Specification {
				return BuildSpecification().
					Matching().
					AllPredicatesOf(P("", "green"), P("color", "green")).
					Finalize()
			},
			expectedDesc: `color = "green"`,
		},
		{
			name: "removes_duplicate_predicates",
			build: func() Specification {
				return BuildSpecification().
					Matching().
					AnyPredicateOf(P("color", "green"), P("color", "blue"), P("color", "green")).
					Finalize()
			},
			expectedDesc: `(color = "green" OR color = "blue")`,
		},
		{
			name: "removes_numerically_equal_predicates",
			build: func() Specification {
				return BuildSpecification().
					Matching().
					AllPredicatesOf(P("weight", 3), P("weight", 3.0)).
					Finalize()
			},
			expectedDesc: `weight = 3`,
		},
		{
			name: "sorts_predicates_by_key",
			build: func() Specification {
				return BuildSpecification().
					Matching().
					AllPredicatesOf(P("size", "large"), P("name", "Tree"), P("color", "green")).
					Finalize()
			},
			expectedDesc: `(color = "green" AND name = "Tree" AND size = "large")`,
		},
		{
			name: "all_predicates_empty_matches_any_record",
			build: func() Specification {
				return BuildSpecification().
					Matching().
					AllPredicatesOf(P("", "green")).
					Finalize()
			},
			expectedDesc: "TRUE",
		},
		{
			name: "any_predicate_empty_matches_any_record",
			build: func() Specification {
				return BuildSpecification().
					Matching().
					AnyPredicateOf(P("", "green")).
					Finalize()
			},
			expectedDesc: "TRUE",
		},
		{
			name: "satisfying_drops_nil_specifications",
			build: func() Specification {
				return BuildSpecification().
					Matching().
					Satisfying(nil, FieldExists("name")).
					Finalize()
			},
			expectedDesc: "EXISTS name",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedDesc, Describe(tc.build()))
		})
	}
}

func Test_SpecificationBuilder_BranchesDoNotShareState(t *testing.T) {
	// arrange
	base := BuildSpecification().
		Matching().
		AllPredicatesOf(P("size", "large"))

	// act
	green := base.AndAllPredicatesOf(P("color", "green")).Finalize()
	blue := base.AndAllPredicatesOf(P("color", "blue")).Finalize()

	// assert
	assert.Equal(t, `(size = "large" AND color = "green")`, Describe(green))
	assert.Equal(t, `(size = "large" AND color = "blue")`, Describe(blue))
}

func Test_Predicate_Accessors(t *testing.T) {
	p := P("color", "green")

	assert.Equal(t, "color", p.Key())
	assert.Equal(t, "green", p.Val())
}
