package fixtures

import (
	"testing"

	"github.com/Pallinder/go-randomdata"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/specification-filter-go/specification"
)

const (
	FieldName   = "name"
	FieldColor  = "color"
	FieldSize   = "size"
	FieldWeight = "weight"
	FieldID     = "id"
)

var (
	Colors = []string{"red", "green", "blue"}
	Sizes  = []string{"small", "medium", "large", "yuge"}
)

func Apple() specification.Record {
	return specification.Record{FieldName: "Apple", FieldColor: "green", FieldSize: "small"}
}

func Tree() specification.Record {
	return specification.Record{FieldName: "Tree", FieldColor: "green", FieldSize: "large"}
}

func House() specification.Record {
	return specification.Record{FieldName: "House", FieldColor: "blue", FieldSize: "large"}
}

// SampleProducts returns Apple, Tree and House, in that order.
func SampleProducts() specification.Records {
	return specification.Records{Apple(), Tree(), House()}
}

// RandomProduct returns a product record with random values.
// Some records randomly lack the color field, to cover missing fields.
func RandomProduct() specification.Record {
	record := specification.Record{
		FieldID:     uuid.NewString(),
		FieldName:   randomdata.SillyName(),
		FieldSize:   randomdata.StringSample(Sizes...),
		FieldWeight: randomdata.Number(1, 100),
	}

	if randomdata.Boolean() {
		record[FieldColor] = randomdata.StringSample(Colors...)
	}

	return record
}

// RandomProducts returns n random product records.
func RandomProducts(n int) specification.Records {
	records := make(specification.Records, n)
	for i := range records {
		records[i] = RandomProduct()
	}

	return records
}

// RandomSpecification returns one of a fixed set of specifications over the product fields.
func RandomSpecification() specification.Specification {
	color := randomdata.StringSample(Colors...)
	size := randomdata.StringSample(Sizes...)

	candidates := []specification.Specification{
		specification.FieldEquals(FieldColor, color),
		specification.FieldEquals(FieldSize, size),
		specification.FieldIn(FieldSize, size, randomdata.StringSample(Sizes...)),
		specification.FieldExists(FieldColor),
		specification.And(specification.FieldEquals(FieldColor, color), specification.FieldEquals(FieldSize, size)),
		specification.Or(specification.FieldEquals(FieldColor, color), specification.FieldEquals(FieldSize, size)),
		specification.Not(specification.FieldEquals(FieldColor, color)),
		specification.And(),
		specification.Or(),
	}

	return candidates[randomdata.Number(0, len(candidates))]
}

// Names extracts the name field of each record, for compact assertions.
func Names(records specification.Records) []string {
	names := make([]string, 0, len(records))
	for _, record := range records {
		name, _ := record[FieldName].(string)
		names = append(names, name)
	}

	return names
}

// GivenUniqueID returns a fresh UUID string, e.g. to isolate test data in a shared database.
func GivenUniqueID(t testing.TB) string {
	t.Helper()

	return uuid.NewString()
}
