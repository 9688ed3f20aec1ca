// Package memoryengine provides an in-memory implementation of specification.RecordStore.
//
// Queries apply specification.Filter to a snapshot of the stored records,
// so every Specification variant is supported, including SpecificationFunc.
package memoryengine

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/specification-filter-go/specification"
)

// RecordStore keeps records in memory in the order they were saved.
type RecordStore struct {
	mu      sync.RWMutex
	records specification.Records
}

// NewRecordStore creates an empty RecordStore, optionally seeded with records.
func NewRecordStore(seed ...specification.Record) *RecordStore {
	store := &RecordStore{records: make(specification.Records, 0, len(seed))}
	for _, record := range seed {
		store.records = append(store.records, record.Clone())
	}

	return store
}

// Save appends clones of the records, so later changes by the caller don't leak into the store.
func (s *RecordStore) Save(
	ctx context.Context,
	record specification.Record,
	additionalRecords ...specification.Record,
) error {

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record.Clone())
	for _, additional := range additionalRecords {
		s.records = append(s.records, additional.Clone())
	}

	return nil
}

// Query returns clones of the stored records which satisfy the specification, in the order they were saved.
func (s *RecordStore) Query(ctx context.Context, spec specification.Specification) (specification.Records, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	filtered := specification.Filter(s.records, spec)
	s.mu.RUnlock()

	for i, record := range filtered {
		filtered[i] = record.Clone()
	}

	return filtered, nil
}

// Len returns the number of stored records.
func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// Ensure RecordStore implements specification.RecordStore.
var _ specification.RecordStore = (*RecordStore)(nil)
