package specification

import (
	"context"
)

// RecordQuerier is the read capability of a record store.
//
// Query returns the stored records which satisfy the specification, in the order they were saved.
type RecordQuerier interface {
	Query(ctx context.Context, spec Specification) (Records, error)
}

// RecordSaver is the write capability of a record store.
//
// Save stores all given records atomically, in the given order.
type RecordSaver interface {
	Save(ctx context.Context, record Record, additionalRecords ...Record) error
}

// RecordStore combines both capabilities.
//
// Read-only views, e.g. on a replica database, only implement RecordQuerier,
// so that saving into them does not compile instead of failing at runtime.
type RecordStore interface {
	RecordQuerier
	RecordSaver
}
