package catalog

import (
	"fmt"

	"github.com/AntonStoeckl/specification-filter-go/specification"
)

// ColorSpecification is satisfied by records of products with the color.
type ColorSpecification struct {
	color Color
}

func HasColor(color Color) ColorSpecification {
	return ColorSpecification{color: color}
}

func (s ColorSpecification) IsSatisfiedBy(record specification.Record) bool {
	color, ok := record[FieldColor].(string)

	return ok && Color(color) == s.color
}

func (s ColorSpecification) String() string {
	return fmt.Sprintf("color is %s", s.color)
}

// SizeSpecification is satisfied by records of products with the size.
type SizeSpecification struct {
	size Size
}

func HasSize(size Size) SizeSpecification {
	return SizeSpecification{size: size}
}

func (s SizeSpecification) IsSatisfiedBy(record specification.Record) bool {
	size, ok := record[FieldSize].(string)

	return ok && Size(size) == s.size
}

func (s SizeSpecification) String() string {
	return fmt.Sprintf("size is %s", s.size)
}

// FilterProducts filters typed products through their record representation.
func FilterProducts(products []Product, spec specification.Specification) []Product {
	filtered := make([]Product, 0, len(products))
	for _, product := range products {
		if spec == nil || spec.IsSatisfiedBy(product.ToRecord()) {
			filtered = append(filtered, product)
		}
	}

	return filtered
}
