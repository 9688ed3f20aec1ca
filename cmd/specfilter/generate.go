package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Pallinder/go-randomdata"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/specification-filter-go/example/catalog"
	"github.com/AntonStoeckl/specification-filter-go/specification"
	"github.com/AntonStoeckl/specification-filter-go/specification/recordfile"
)

const (
	flagCount  = "count"
	flagOutput = "output"

	defaultGenerateCount = 1000

	fieldID     = "id"
	fieldWeight = "weight"
	fieldTags   = "tags"
)

var ErrInvalidCount = errors.New("count must be positive")

var (
	productColors = []string{string(catalog.Red), string(catalog.Green), string(catalog.Blue)}
	productSizes  = []string{string(catalog.Small), string(catalog.Medium), string(catalog.Large), string(catalog.Yuge)}
	productTags   = []string{"organic", "imported", "fragile", "discounted"}
)

// randomProduct returns a product record with random values.
// About one in five records has no color and one in three carries tags.
func randomProduct() specification.Record {
	record := specification.Record{
		fieldID:           uuid.NewString(),
		catalog.FieldName: randomdata.SillyName(),
		catalog.FieldSize: randomdata.StringSample(productSizes...),
		fieldWeight:       randomdata.Number(1, 1000),
	}

	if randomdata.Number(0, 5) > 0 {
		record[catalog.FieldColor] = randomdata.StringSample(productColors...)
	}

	if randomdata.Number(0, 3) == 0 {
		record[fieldTags] = []any{randomdata.StringSample(productTags...)}
	}

	return record
}

func randomProducts(count int) specification.Records {
	records := make(specification.Records, count)
	for i := range records {
		records[i] = randomProduct()
	}

	return records
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Short:   "Write random product records to a YAML or JSON file",
		Example: `  specfilter generate --count 10000 --output products.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			count, _ := cmd.Flags().GetInt(flagCount)
			output, _ := cmd.Flags().GetString(flagOutput)

			if count <= 0 {
				return ErrInvalidCount
			}

			format, err := recordfile.FormatFromPath(output)
			if err != nil {
				return err
			}

			file, err := os.Create(output)
			if err != nil {
				return err
			}

			if err := recordfile.Encode(file, randomProducts(count), format); err != nil {
				_ = file.Close()
				return err
			}

			if err := file.Close(); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "generated %d records into %s\n", count, output)

			return err
		},
	}

	cmd.Flags().Int(flagCount, defaultGenerateCount, "Number of records to generate")
	cmd.Flags().String(flagOutput, "products.yaml", "Output file, the extension selects the format")

	return cmd
}
