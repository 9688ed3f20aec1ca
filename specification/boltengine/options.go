package boltengine

import (
	"github.com/AntonStoeckl/specification-filter-go/specification"
)

// Option defines a functional option for configuring RecordStore.
type Option func(*RecordStore) error

// WithBucketName sets the bucket name for the RecordStore.
func WithBucketName(bucketName string) Option {
	return func(rs *RecordStore) error {
		if bucketName == "" {
			return specification.ErrEmptyBucketNameSupplied
		}

		rs.bucketName = []byte(bucketName)

		return nil
	}
}

// WithLogger sets the logger for the RecordStore.
//
// Debug level: operation timing
// Info level: record counts and durations
// Error level: failures that cause operation failures.
func WithLogger(logger specification.Logger) Option {
	return func(rs *RecordStore) error {
		rs.logger = logger
		return nil
	}
}
