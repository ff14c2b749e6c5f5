// Package store persists fetched pages so a list can be shown before the
// network answers.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fxamacker/cbor/v2"
	bolt "go.etcd.io/bbolt"
)

// ErrNotCached is returned by Get for keys that were never stored.
var ErrNotCached = errors.New("not cached")

const bucketPages = "pages"

// entry is the stored form of one value.
type entry struct {
	SavedAt time.Time       `cbor:"1,keyasint"`
	Payload cbor.RawMessage `cbor:"2,keyasint"`
}

// Cache is a small bbolt-backed key/value store with CBOR values. It is
// safe for concurrent use.
type Cache struct {
	db  *bolt.DB
	enc cbor.EncMode
}

// Open opens or creates the cache database at path.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketPages))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize cache: %w", err)
	}
	enc, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db, enc: enc}, nil
}

// Close releases the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Put stores v under key, replacing any previous value.
func (c *Cache) Put(key string, v any) error {
	payload, err := c.enc.Marshal(v)
	if err != nil {
		return fmt.Errorf("cbor encode %s: %w", key, err)
	}
	data, err := c.enc.Marshal(entry{SavedAt: time.Now().UTC(), Payload: payload})
	if err != nil {
		return fmt.Errorf("cbor encode %s: %w", key, err)
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketPages)).Put([]byte(key), data)
	})
}

// Get decodes the value stored under key into v and returns when it was
// saved.
func (c *Cache) Get(key string, v any) (time.Time, error) {
	var data []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(bucketPages)).Get([]byte(key))
		if raw == nil {
			return ErrNotCached
		}
		// raw is only valid inside the transaction
		data = append([]byte(nil), raw...)
		return nil
	})
	if err != nil {
		return time.Time{}, err
	}
	var e entry
	if err := cbor.Unmarshal(data, &e); err != nil {
		return time.Time{}, fmt.Errorf("cbor unmarshal %s: %w", key, err)
	}
	if err := cbor.Unmarshal(e.Payload, v); err != nil {
		return time.Time{}, fmt.Errorf("cbor unmarshal %s: %w", key, err)
	}
	return e.SavedAt, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (c *Cache) Delete(key string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketPages)).Delete([]byte(key))
	})
}
