package catalog_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/specification-filter-go/example/catalog"
	"github.com/AntonStoeckl/specification-filter-go/specification"
	"github.com/AntonStoeckl/specification-filter-go/specification/memoryengine"
)

func names(products []catalog.Product) []string {
	result := make([]string, 0, len(products))
	for _, product := range products {
		result = append(result, product.Name)
	}

	return result
}

func Test_FilterProducts(t *testing.T) {
	tests := []struct {
		name     string
		spec     specification.Specification
		expected []string
	}{
		{name: "green", spec: catalog.HasColor(catalog.Green), expected: []string{"Apple", "Tree"}},
		{name: "large", spec: catalog.HasSize(catalog.Large), expected: []string{"Tree", "House"}},
		{
			name:     "large_and_green",
			spec:     specification.And(catalog.HasColor(catalog.Green), catalog.HasSize(catalog.Large)),
			expected: []string{"Tree"},
		},
		{name: "red", spec: catalog.HasColor(catalog.Red), expected: []string{}},
		{name: "nil_matches_all", spec: nil, expected: []string{"Apple", "Tree", "House"}},
		{
			name:     "domain_and_generic_specifications_mix",
			spec:     specification.And(catalog.HasSize(catalog.Large), specification.Not(specification.FieldEquals("name", "Tree"))),
			expected: []string{"House"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, names(catalog.FilterProducts(catalog.SampleProducts(), tc.spec)))
		})
	}
}

func Test_DomainSpecifications_MatchTheGenericOnes(t *testing.T) {
	records := catalog.ToRecords(catalog.SampleProducts())

	for _, color := range []catalog.Color{catalog.Red, catalog.Green, catalog.Blue} {
		assert.Equal(t,
			specification.Filter(records, specification.FieldEquals(catalog.FieldColor, string(color))),
			specification.Filter(records, catalog.HasColor(color)),
		)
	}

	for _, size := range []catalog.Size{catalog.Small, catalog.Medium, catalog.Large, catalog.Yuge} {
		assert.Equal(t,
			specification.Filter(records, specification.FieldEquals(catalog.FieldSize, string(size))),
			specification.Filter(records, catalog.HasSize(size)),
		)
	}
}

func Test_Product_RecordRoundTrip(t *testing.T) {
	for _, product := range catalog.SampleProducts() {
		assert.Equal(t, product, catalog.ProductFromRecord(product.ToRecord()))
	}

	assert.Equal(t, catalog.Product{}, catalog.ProductFromRecord(specification.Record{"name": 42}))
	assert.Equal(t, "Tree (green, large)", catalog.Tree().String())
}

func Test_Describe_DomainSpecifications(t *testing.T) {
	spec := specification.And(catalog.HasColor(catalog.Green), catalog.HasSize(catalog.Large))

	assert.Equal(t, "(color is green AND size is large)", specification.Describe(spec))
}

func Test_RunDemo(t *testing.T) {
	// arrange
	store := memoryengine.NewRecordStore(catalog.ToRecords(catalog.SampleProducts())...)
	var out bytes.Buffer

	// act
	err := catalog.RunDemo(context.Background(), &out, store)

	// assert
	require.NoError(t, err)
	assert.Equal(t, `Green products:
 * Apple is green
 * Tree is green
Large products:
 * Tree is large
 * House is large
Large and green products:
 * Tree is large and green
`, out.String())
}

func Test_RunDemo_When_QueryFails(t *testing.T) {
	err := catalog.RunDemo(context.Background(), &bytes.Buffer{}, failingQuerier{})

	assert.ErrorIs(t, err, specification.ErrQueryingRecordsFailed)
}

type failingQuerier struct{}

func (failingQuerier) Query(context.Context, specification.Specification) (specification.Records, error) {
	return nil, errors.Join(specification.ErrQueryingRecordsFailed, errors.New("boom"))
}
