// Package jobstore is a crash-resilient ledger of job metadata: a
// badger-key-value-store-plus-gob-encoding shape applied to QDMI jobs. It
// lets a driver process recover the identifiers and last-known status of
// in-flight jobs after a restart, even though the device plugin itself (a
// single-threaded, synchronous in-process component) owns the
// authoritative job state.
package jobstore

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/dgraph-io/badger/v3"

	"github.com/mqss-project/qdmi-go/device"
	"github.com/mqss-project/qdmi-go/qdmi"
)

// Record is the metadata saved for one job: enough to identify it and
// report its last-known status without consulting the device plugin.
type Record struct {
	Device   qdmi.DeviceHandle
	Job      device.JobHandle
	Format   qdmi.ProgramFormat
	NumShots uint64
	Status   qdmi.JobStatus
}

// Store persists Records in an embedded badger database, encoded with gob.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) a job store rooted at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // badger's Infof-level logger is noisier than QDMI's own logging wants.

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("could not open job store at %q: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close releases the store's underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func key(d qdmi.DeviceHandle, j device.JobHandle) []byte {
	return []byte(fmt.Sprintf("%d/%d", d.Index(), uint32(j)))
}

// Save writes (or overwrites) a job's record.
func (s *Store) Save(rec Record) error {
	var b bytes.Buffer
	if err := gob.NewEncoder(&b).Encode(rec); err != nil {
		return fmt.Errorf("could not encode job record: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(rec.Device, rec.Job), b.Bytes())
	})
}

// Lookup reads back a previously saved record.
func (s *Store) Lookup(d qdmi.DeviceHandle, j device.JobHandle) (Record, error) {
	var rec Record

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(d, j))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return gob.NewDecoder(bytes.NewReader(val)).Decode(&rec)
		})
	})
	if err != nil {
		return Record{}, fmt.Errorf("could not look up job record: %w", err)
	}

	return rec, nil
}

// Delete purges a job's record, called once the client frees the job.
func (s *Store) Delete(d qdmi.DeviceHandle, j device.JobHandle) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(d, j))
	})
}

// ListAll returns every record currently in the store, e.g. to reattach
// to in-flight jobs after a driver restart.
func (s *Store) ListAll() ([]Record, error) {
	var records []Record

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec Record
			if err := it.Item().Value(func(val []byte) error {
				return gob.NewDecoder(bytes.NewReader(val)).Decode(&rec)
			}); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not list job records: %w", err)
	}

	return records, nil
}
