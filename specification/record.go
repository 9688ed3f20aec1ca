package specification

import (
	"maps"
	"reflect"
)

// FieldNameString is a type alias for string, naming a field of a Record.
type FieldNameString = string

// Records is an alias type for a slice of Record.
type Records = []Record

// Record is an arbitrary mapping from field name to value.
//
// Records have no identity beyond value equality.
// They must not be mutated while a Filter or a store operation is working on them.
type Record map[FieldNameString]any

// Lookup returns the value of the field and whether the field is present.
func (r Record) Lookup(field FieldNameString) (any, bool) {
	value, ok := r[field]

	return value, ok
}

// Clone returns a shallow copy of the Record.
func (r Record) Clone() Record {
	if r == nil {
		return Record{}
	}

	return maps.Clone(r)
}

// valuesEqual compares values the way they compare once encoded as JSON, so that every store engine agrees:
//   - numbers by numeric value, exactly when both are integers
//   - named types by their underlying kind, e.g. a named string type equals a plain string
//   - slices and arrays element-wise, maps with string keys entry-wise
//
// Everything else falls back to deep equality.
func valuesEqual(a, b any) bool {
	a, b = normalizeValue(a), normalizeValue(b)

	switch av := a.(type) {
	case int64, uint64, float64:
		return numbersEqual(a, b)

	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}

		for i := range av {
			if !valuesEqual(av[i], bv[i]) {
				return false
			}
		}

		return true

	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}

		for key, value := range av {
			other, found := bv[key]
			if !found || !valuesEqual(value, other) {
				return false
			}
		}

		return true

	default:
		return reflect.DeepEqual(a, b)
	}
}

// normalizeValue converts a value to the shape JSON decoding would produce, one level deep.
// Integers become int64 or uint64 to keep their precision, floats become float64.
func normalizeValue(v any) any {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Invalid:
		return nil
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}

		return normalizeValue(rv.Elem().Interface())
	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}

		return sliceValues(rv)
	case reflect.Array:
		return sliceValues(rv)
	case reflect.Map:
		if rv.IsNil() {
			return nil
		}

		if rv.Type().Key().Kind() != reflect.String {
			return v
		}

		normalized := make(map[string]any, rv.Len())
		for iter := rv.MapRange(); iter.Next(); {
			normalized[iter.Key().String()] = iter.Value().Interface()
		}

		return normalized
	default:
		return v
	}
}

func sliceValues(rv reflect.Value) []any {
	values := make([]any, rv.Len())
	for i := range values {
		values[i] = rv.Index(i).Interface()
	}

	return values
}

// numbersEqual expects normalized numbers, a non-number on either side is never equal.
func numbersEqual(a, b any) bool {
	switch av := a.(type) {
	case int64:
		switch bv := b.(type) {
		case int64:
			return av == bv
		case uint64:
			return av >= 0 && uint64(av) == bv
		case float64:
			return float64(av) == bv
		}
	case uint64:
		switch bv := b.(type) {
		case int64:
			return bv >= 0 && av == uint64(bv)
		case uint64:
			return av == bv
		case float64:
			return float64(av) == bv
		}
	case float64:
		switch bv := b.(type) {
		case int64:
			return av == float64(bv)
		case uint64:
			return av == float64(bv)
		case float64:
			return av == bv
		}
	}

	return false
}
