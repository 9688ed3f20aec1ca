package specification

import (
	"iter"
	"slices"
)

// Filter returns the records which satisfy the specification, in their input order.
//
// The result is a new slice, which is never nil, the input is not modified.
// A nil specification is satisfied by every record.
func Filter(records Records, spec Specification) Records {
	if spec == nil {
		spec = And()
	}

	filtered := make(Records, 0, len(records))
	for _, record := range records {
		if spec.IsSatisfiedBy(record) {
			filtered = append(filtered, record)
		}
	}

	return slices.Clip(filtered)
}

// Select lazily yields the records of the sequence which satisfy the specification.
//
// It is the streaming counterpart of Filter, for sources that are read record by record.
func Select(records iter.Seq[Record], spec Specification) iter.Seq[Record] {
	if spec == nil {
		spec = And()
	}

	return func(yield func(Record) bool) {
		for record := range records {
			if !spec.IsSatisfiedBy(record) {
				continue
			}

			if !yield(record) {
				return
			}
		}
	}
}
