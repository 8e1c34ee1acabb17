package store

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	boltListsBucket   = "lists"
	boltScalarsBucket = "scalars"
)

// BoltStore implements Store on an embedded bbolt file. Intended for local
// runs where no Valkey server is available. Tables and scalars map to
// buckets; each list is a nested bucket with a monotonically increasing
// sequence number per entry to preserve append order and duplicates.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the database file at path.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db %s: %w", path, err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) FieldExists(_ context.Context, table, field string) (bool, error) {
	var exists bool
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(table))
		if b == nil {
			return nil
		}
		exists = b.Get([]byte(field)) != nil
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("read table %s: %w", table, err)
	}
	return exists, nil
}

func (s *BoltStore) SetField(_ context.Context, table, field, value string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(table))
		if err != nil {
			return err
		}
		return b.Put([]byte(field), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("write table %s: %w", table, err)
	}
	return nil
}

func (s *BoltStore) AppendToList(_ context.Context, key, value string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		lists, err := tx.CreateBucketIfNotExists([]byte(boltListsBucket))
		if err != nil {
			return err
		}
		list, err := lists.CreateBucketIfNotExists([]byte(key))
		if err != nil {
			return err
		}
		seq, err := list.NextSequence()
		if err != nil {
			return err
		}
		var idx [8]byte
		binary.BigEndian.PutUint64(idx[:], seq)
		return list.Put(idx[:], []byte(value))
	})
	if err != nil {
		return fmt.Errorf("append to list %s: %w", key, err)
	}
	return nil
}

func (s *BoltStore) SetScalar(_ context.Context, key, value string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(boltScalarsBucket))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("write scalar %s: %w", key, err)
	}
	return nil
}

// ListValues returns the list contents at key in append order. Used by local
// tooling and tests; the ingest pipeline itself only ever appends.
func (s *BoltStore) ListValues(key string) ([]string, error) {
	var out []string
	err := s.db.View(func(tx *bolt.Tx) error {
		lists := tx.Bucket([]byte(boltListsBucket))
		if lists == nil {
			return nil
		}
		list := lists.Bucket([]byte(key))
		if list == nil {
			return nil
		}
		return list.ForEach(func(_, v []byte) error {
			out = append(out, string(v))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("read list %s: %w", key, err)
	}
	return out, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
