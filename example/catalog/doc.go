// Package catalog is a small product catalog built on the specification package.
//
// It shows how a domain adds its own criteria (ColorSpecification, SizeSpecification)
// without touching specification.Filter or any of the existing specifications.
package catalog
