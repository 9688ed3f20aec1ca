package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AntonStoeckl/specification-filter-go/example/catalog"
	"github.com/AntonStoeckl/specification-filter-go/specification"
	"github.com/AntonStoeckl/specification-filter-go/specification/recordfile"
)

var ErrMissingRecordsFile = errors.New("a records file is required")

func newRootCmd() *cobra.Command {
	v := newViper()

	root := &cobra.Command{
		Use:          "specfilter",
		Short:        "Filter records with specifications",
		SilenceUsage: true,
	}

	// only the shared flags go through viper, so they can also be set from SPECFILTER_* variables
	addStoreFlags(root.PersistentFlags())
	_ = v.BindPFlags(root.PersistentFlags())

	root.AddCommand(
		newFilterCmd(v),
		newImportCmd(v),
		newDemoCmd(v),
		newGenerateCmd(),
		newLoadCmd(v),
	)

	return root
}

// prepare loads the config and builds the log handler, which writes to stderr.
func prepare(cmd *cobra.Command, v *viper.Viper) (config, slog.Handler, error) {
	cfg, err := loadConfig(v)
	if err != nil {
		return config{}, nil, err
	}

	level, _ := parseLogLevel(cfg.LogLevel)
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})

	return cfg, handler, nil
}

func newFilterCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Print the records which satisfy the where conditions",
		Example: `  specfilter filter --records catalog.yaml --where color=green --where size=large
  specfilter filter --records catalog.yaml --any --where color=blue --where size=small
  specfilter filter --store bolt --where 'size=small|large' --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, handler, err := prepare(cmd, v)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			where, _ := flags.GetStringArray(flagWhere)
			matchAny, _ := flags.GetBool(flagAny)
			formatName, _ := flags.GetString(flagFormat)
			recordsPath, _ := flags.GetString(flagRecords)

			spec, err := parseConditions(where, matchAny)
			if err != nil {
				return err
			}

			format, err := recordfile.ParseFormat(formatName)
			if err != nil {
				return err
			}

			var seed specification.Records
			if recordsPath != "" {
				if seed, err = recordfile.Load(recordsPath); err != nil {
					return err
				}
			} else if cfg.Store == storeMemory {
				return ErrMissingRecordsFile
			}

			store, closeStore, err := openStore(cmd.Context(), cfg, handler, seed)
			if err != nil {
				return err
			}
			defer closeStore()

			records, err := store.Query(cmd.Context(), spec)
			if err != nil {
				return err
			}

			return recordfile.Encode(cmd.OutOrStdout(), records, format)
		},
	}

	cmd.Flags().String(flagRecords, "", "YAML or JSON file with the records (required for the memory store)")
	cmd.Flags().StringArray(flagWhere, nil, "Condition like color=green, size=small|large, color!=red, name or !name (repeatable)")
	cmd.Flags().Bool(flagAny, false, "Match records satisfying any condition instead of all")
	cmd.Flags().String(flagFormat, string(recordfile.FormatYAML), "Output format: yaml or json")

	return cmd
}

func newImportCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Save the records of a file into the bolt or postgres store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, handler, err := prepare(cmd, v)
			if err != nil {
				return err
			}

			if cfg.Store == storeMemory {
				return errors.Join(ErrInvalidConfig, errors.New("import needs a persistent store"))
			}

			recordsPath, _ := cmd.Flags().GetString(flagRecords)
			if recordsPath == "" {
				return ErrMissingRecordsFile
			}

			records, err := recordfile.Load(recordsPath)
			if err != nil {
				return err
			}

			if len(records) == 0 {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "no records to import")
				return err
			}

			store, closeStore, err := openStore(cmd.Context(), cfg, handler, nil)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := store.Save(cmd.Context(), records[0], records[1:]...); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d records into %s\n", len(records), cfg.Store)

			return err
		},
	}

	cmd.Flags().String(flagRecords, "", "YAML or JSON file with the records")

	return cmd
}

func newDemoCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Filter the Apple, Tree and House catalog by color and size",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, handler, err := prepare(cmd, v)
			if err != nil {
				return err
			}

			cfg.Store = storeMemory
			store, closeStore, err := openStore(cmd.Context(), cfg, handler, catalog.ToRecords(catalog.SampleProducts()))
			if err != nil {
				return err
			}
			defer closeStore()

			return catalog.RunDemo(cmd.Context(), cmd.OutOrStdout(), store)
		},
	}
}
