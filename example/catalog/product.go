package catalog

import (
	"fmt"

	"github.com/AntonStoeckl/specification-filter-go/specification"
)

type Color string

const (
	Red   Color = "red"
	Green Color = "green"
	Blue  Color = "blue"
)

type Size string

const (
	Small  Size = "small"
	Medium Size = "medium"
	Large  Size = "large"
	Yuge   Size = "yuge"
)

const (
	FieldName  = "name"
	FieldColor = "color"
	FieldSize  = "size"
)

type Product struct {
	Name  string
	Color Color
	Size  Size
}

// ToRecord adapts the product to a specification.Record.
func (p Product) ToRecord() specification.Record {
	return specification.Record{
		FieldName:  p.Name,
		FieldColor: string(p.Color),
		FieldSize:  string(p.Size),
	}
}

// ProductFromRecord is the reverse of ToRecord, fields with the wrong type are left empty.
func ProductFromRecord(record specification.Record) Product {
	name, _ := record[FieldName].(string)
	color, _ := record[FieldColor].(string)
	size, _ := record[FieldSize].(string)

	return Product{Name: name, Color: Color(color), Size: Size(size)}
}

func (p Product) String() string {
	return fmt.Sprintf("%s (%s, %s)", p.Name, p.Color, p.Size)
}

// ToRecords adapts all products, keeping their order.
func ToRecords(products []Product) specification.Records {
	records := make(specification.Records, len(products))
	for i, product := range products {
		records[i] = product.ToRecord()
	}

	return records
}

func Apple() Product { return Product{Name: "Apple", Color: Green, Size: Small} }
func Tree() Product  { return Product{Name: "Tree", Color: Green, Size: Large} }
func House() Product { return Product{Name: "House", Color: Blue, Size: Large} }

// SampleProducts returns Apple, Tree and House, in that order.
func SampleProducts() []Product {
	return []Product{Apple(), Tree(), House()}
}
