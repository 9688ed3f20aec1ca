package recordfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/AntonStoeckl/specification-filter-go/specification"
)

// Format is the encoding of a record dataset.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"

	keyRecords = "records"
)

var ErrUnsupportedRecordFile = errors.New("unsupported record file")
var ErrMalformedRecordFile = errors.New("malformed record file")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FormatFromPath derives the Format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errors.Join(ErrUnsupportedRecordFile, fmt.Errorf("unknown extension of %q", path))
	}
}

// ParseFormat parses a format name like "yaml" or "json".
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", errors.Join(ErrUnsupportedRecordFile, fmt.Errorf("unknown format %q", name))
	}
}

// Load reads the records from the file at path.
func Load(path string) (specification.Records, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	return Decode(file, format)
}

// Decode reads records in the given format.
func Decode(reader io.Reader, format Format) (specification.Records, error) {
	var document any

	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(reader).Decode(&document); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Join(ErrMalformedRecordFile, err)
		}
	case FormatJSON:
		if err := json.NewDecoder(reader).Decode(&document); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Join(ErrMalformedRecordFile, err)
		}
	default:
		return nil, errors.Join(ErrUnsupportedRecordFile, fmt.Errorf("unknown format %q", format))
	}

	return toRecords(document)
}

// Encode writes the records as a top-level list in the given format.
func Encode(writer io.Writer, records specification.Records, format Format) error {
	if records == nil {
		records = specification.Records{}
	}

	switch format {
	case FormatYAML:
		encoder := yaml.NewEncoder(writer)
		encoder.SetIndent(2)

		if err := encoder.Encode(records); err != nil {
			return errors.Join(specification.ErrEncodingRecordFailed, err)
		}

		return encoder.Close()
	case FormatJSON:
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "  ")

		if err := encoder.Encode(records); err != nil {
			return errors.Join(specification.ErrEncodingRecordFailed, err)
		}

		return nil
	default:
		return errors.Join(ErrUnsupportedRecordFile, fmt.Errorf("unknown format %q", format))
	}
}

func toRecords(document any) (specification.Records, error) {
	switch doc := document.(type) {
	case nil:
		return specification.Records{}, nil
	case []any:
		return listToRecords(doc)
	case map[string]any:
		list, ok := doc[keyRecords].([]any)
		if !ok {
			return nil, errors.Join(ErrMalformedRecordFile, fmt.Errorf("expected a list under %q", keyRecords))
		}

		return listToRecords(list)
	default:
		return nil, errors.Join(ErrMalformedRecordFile, fmt.Errorf("expected a list of records, got %T", document))
	}
}

func listToRecords(list []any) (specification.Records, error) {
	records := make(specification.Records, 0, len(list))
	for i, item := range list {
		fields, ok := item.(map[string]any)
		if !ok {
			return nil, errors.Join(ErrMalformedRecordFile, fmt.Errorf("record %d is not a mapping but %T", i, item))
		}

		records = append(records, specification.Record(fields))
	}

	return records, nil
}
