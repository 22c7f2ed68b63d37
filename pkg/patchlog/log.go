package patchlog

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"

	bolt "go.etcd.io/bbolt"

	"github.com/cuemby/warren/pkg/store"
	"github.com/cuemby/warren/pkg/types"
)

// Log is a bbolt-backed append log of committed transaction envelopes,
// one bucket per originating store id, keyed by the duplex transaction
// id -- which already sorts correctly by (version, storeId) as a plain
// byte-string key (spec §4.1) -- mirroring cuemby-warren's
// bucket-per-entity pkg/storage/boltdb.go.
type Log struct {
	db *bolt.DB
}

// Open creates or opens a patch log under dataDir, in a file named
// patchlog.db, matching the teacher's one-db-file-per-store-under-a-
// data-directory layout. Per-store buckets are created lazily by
// Record rather than up front, since a peer doesn't know which remote
// store ids it will ever see.
func Open(dataDir string) (*Log, error) {
	path := filepath.Join(dataDir, "patchlog.db")
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("patchlog: open %s: %w", path, err)
	}
	return &Log{db: db}, nil
}

// Close closes the underlying database file.
func (l *Log) Close() error {
	return l.db.Close()
}

func bucketName(storeID uint32) []byte {
	return []byte(fmt.Sprintf("store-%d", storeID))
}

// Record persists envelope keyed by its transaction id, in the bucket
// for its originating store id. Recording the same id twice overwrites
// the prior record with an identical one, since a transaction id is
// only ever committed once.
func (l *Log) Record(envelope types.Envelope) error {
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("patchlog: marshal envelope %s: %w", envelope.ID, err)
	}
	return l.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName(envelope.StoreID))
		if err != nil {
			return err
		}
		return b.Put([]byte(envelope.ID), data)
	})
}

// Replay returns every envelope recorded for storeID, in ascending
// commit order, so a fresh peer can re-derive storeID's contribution to
// the shared state by feeding them back through store.ApplyTransaction
// (see ReplayInto). An unknown storeID returns an empty slice, not an
// error: a peer this log has never heard from has nothing to replay.
func (l *Log) Replay(storeID uint32) ([]types.Envelope, error) {
	var envelopes []types.Envelope
	err := l.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName(storeID))
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var envelope types.Envelope
			if err := json.Unmarshal(v, &envelope); err != nil {
				return err
			}
			envelopes = append(envelopes, envelope)
			return nil
		})
	})
	return envelopes, err
}

// ReplayInto feeds every envelope Replay(storeID) returns through
// target.ApplyTransaction, in order. It is the recovery path for a peer
// that lost its in-memory Store and is restarting against an existing
// patch log: rather than trusting the log's contents directly, it
// re-derives storeID's contribution by walking the exact
// ApplyTransaction path a live replication feed would have used.
func (l *Log) ReplayInto(target *store.Store, storeID uint32) error {
	envelopes, err := l.Replay(storeID)
	if err != nil {
		return fmt.Errorf("patchlog: replay store %d: %w", storeID, err)
	}
	for _, envelope := range envelopes {
		if err := target.ApplyTransaction(envelope); err != nil {
			return fmt.Errorf("patchlog: replay envelope %s: %w", envelope.ID, err)
		}
	}
	return nil
}

// All returns every logged envelope across every store id, sorted by
// transaction id (equivalently, by (version, storeId)). It is a
// development/inspection helper, not a replication primitive; ReplayInto
// is.
func (l *Log) All() ([]types.Envelope, error) {
	var envelopes []types.Envelope
	err := l.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(_ []byte, b *bolt.Bucket) error {
			return b.ForEach(func(_, v []byte) error {
				var envelope types.Envelope
				if err := json.Unmarshal(v, &envelope); err != nil {
					return err
				}
				envelopes = append(envelopes, envelope)
				return nil
			})
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(envelopes, func(i, j int) bool { return envelopes[i].ID < envelopes[j].ID })
	return envelopes, nil
}
