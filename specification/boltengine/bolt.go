package boltengine

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"time"

	"github.com/boltdb/bolt"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/specification-filter-go/specification"
)

const (
	defaultBucketName        = "records"
	logMsgEncodeRecordFailed = "failed to encode record"
	logMsgUpdateFailed       = "bolt update transaction failed"
	logMsgViewFailed         = "bolt view transaction failed"
	logMsgQueryCompleted     = "query completed"
	logMsgRecordsSaved       = "records saved"
	logMsgOperation          = "boltengine operation: "
	logAttrError             = "error"
	logAttrRecordCount       = "record_count"
	logAttrDurationMS        = "duration_ms"
	logAttrSpecification     = "specification"
	logAttrBucket            = "bucket"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RecordStore stores records in a BoltDB bucket.
type RecordStore struct {
	db         *bolt.DB
	bucketName []byte
	logger     specification.Logger
}

// NewRecordStore creates a new RecordStore using a bolt.DB with optional configuration.
func NewRecordStore(db *bolt.DB, options ...Option) (*RecordStore, error) {
	if db == nil {
		return nil, specification.ErrNilDatabaseConnection
	}

	rs := &RecordStore{
		db:         db,
		bucketName: []byte(defaultBucketName),
	}

	for _, option := range options {
		if err := option(rs); err != nil {
			return nil, err
		}
	}

	return rs, nil
}

// Save appends the records to the bucket within one update transaction.
func (rs *RecordStore) Save(
	ctx context.Context,
	record specification.Record,
	additionalRecords ...specification.Record,
) error {

	if err := ctx.Err(); err != nil {
		return err
	}

	allRecords := specification.Records{record}
	allRecords = append(allRecords, additionalRecords...)

	encoded, encodeErr := rs.encodeRecords(allRecords)
	if encodeErr != nil {
		return encodeErr
	}

	start := time.Now()
	updateErr := rs.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(rs.bucketName)
		if err != nil {
			return err
		}

		for _, value := range encoded {
			sequence, err := bucket.NextSequence()
			if err != nil {
				return err
			}

			if err := bucket.Put(sequenceKey(sequence), value); err != nil {
				return err
			}
		}

		return nil
	})

	if updateErr != nil {
		rs.logError(logMsgUpdateFailed, updateErr, logAttrBucket, string(rs.bucketName))

		return errors.Join(specification.ErrSavingRecordsFailed, updateErr)
	}

	rs.logOperation(
		logMsgRecordsSaved,
		logAttrRecordCount, len(allRecords),
		logAttrDurationMS, toMilliseconds(time.Since(start)),
	)

	return nil
}

// Query returns the records in the bucket which satisfy the specification, in the order they were saved.
func (rs *RecordStore) Query(ctx context.Context, spec specification.Specification) (specification.Records, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	matching := make(specification.Records, 0)

	viewErr := rs.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(rs.bucketName)
		if bucket == nil {
			return nil
		}

		var decodeErr error

		records := func(yield func(specification.Record) bool) {
			cursor := bucket.Cursor()
			for key, value := cursor.First(); key != nil; key, value = cursor.Next() {
				record := specification.Record{}
				if err := json.Unmarshal(value, &record); err != nil {
					decodeErr = errors.Join(specification.ErrDecodingRecordFailed, err)
					return
				}

				if !yield(record) {
					return
				}
			}
		}

		for record := range specification.Select(records, spec) {
			matching = append(matching, record)
		}

		return decodeErr
	})

	if viewErr != nil {
		rs.logError(logMsgViewFailed, viewErr, logAttrBucket, string(rs.bucketName))

		if errors.Is(viewErr, specification.ErrDecodingRecordFailed) {
			return nil, viewErr
		}

		return nil, errors.Join(specification.ErrQueryingRecordsFailed, viewErr)
	}

	rs.logOperation(
		logMsgQueryCompleted,
		logAttrRecordCount, len(matching),
		logAttrDurationMS, toMilliseconds(time.Since(start)),
		logAttrSpecification, specification.Describe(spec),
	)

	return matching, nil
}

func (rs *RecordStore) encodeRecords(records specification.Records) ([][]byte, error) {
	encoded := make([][]byte, 0, len(records))
	for _, record := range records {
		if record == nil {
			record = specification.Record{}
		}

		value, err := json.Marshal(record)
		if err != nil {
			rs.logError(logMsgEncodeRecordFailed, err)

			return nil, errors.Join(specification.ErrEncodingRecordFailed, err)
		}

		encoded = append(encoded, value)
	}

	return encoded, nil
}

// logOperation logs operational information at info level if the logger is configured.
func (rs *RecordStore) logOperation(action string, args ...any) {
	if rs.logger != nil {
		rs.logger.Info(logMsgOperation+action, args...)
	}
}

// logError logs error information at the error level if the logger is configured.
func (rs *RecordStore) logError(message string, err error, args ...any) {
	if rs.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		rs.logger.Error(message, allArgs...)
	}
}

func sequenceKey(sequence uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, sequence)

	return key
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// Ensure RecordStore implements specification.RecordStore.
var _ specification.RecordStore = (*RecordStore)(nil)
