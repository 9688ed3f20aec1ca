// Package boltengine provides a BoltDB implementation of specification.RecordStore.
//
// Records are stored as JSON values in a single bucket, keyed by the big-endian
// bucket sequence, so that the key order is the order in which records were saved.
// Queries stream the bucket and keep the records which satisfy the specification,
// so every Specification variant is supported.
//
// Usage:
//
//	db, _ := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
//	store, _ := boltengine.NewRecordStore(db, boltengine.WithBucketName("products"))
//
//	_ = store.Save(ctx, record)
//	records, _ := store.Query(ctx, spec)
package boltengine
