package catalog

import (
	"context"
	"fmt"
	"io"

	"github.com/AntonStoeckl/specification-filter-go/specification"
)

type demoStep struct {
	heading string
	suffix  string
	spec    specification.Specification
}

func demoSteps() []demoStep {
	return []demoStep{
		{heading: "Green products:", suffix: "is green", spec: HasColor(Green)},
		{heading: "Large products:", suffix: "is large", spec: HasSize(Large)},
		{heading: "Large and green products:", suffix: "is large and green", spec: specification.And(HasColor(Green), HasSize(Large))},
	}
}

// RunDemo queries the store for green, large, and large and green products and prints the names.
//
//	Green products:
//	 * Apple is green
//	 * Tree is green
func RunDemo(ctx context.Context, w io.Writer, store specification.RecordQuerier) error {
	for _, step := range demoSteps() {
		records, err := store.Query(ctx, step.spec)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintln(w, step.heading); err != nil {
			return err
		}

		for _, record := range records {
			if _, err := fmt.Fprintf(w, " * %s %s\n", ProductFromRecord(record).Name, step.suffix); err != nil {
				return err
			}
		}
	}

	return nil
}
