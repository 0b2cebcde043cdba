// Package collection persists the purchased-collection listing between
// runs so browsing and syncing do not require re-walking the paginated
// API.
package collection

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/handiism/bcdl/internal/bandcamp"
	"github.com/handiism/bcdl/internal/fsutil"
)

var buckets = struct {
	Metadata []byte
	Items    []byte
}{
	Metadata: []byte("__metadata__"),
	Items:    []byte("items"),
}

var metadataKeys = struct {
	Version []byte
}{
	Version: []byte("version"),
}

const currentVersion = 1

// Store is a bbolt-backed cache of collection items. Items are kept in
// listing order under zero-padded index keys.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if necessary) the cache database at path and
// ensures its buckets and schema version. Missing parent directories
// are created, so the default cache location works on first run.
func Open(path string) (*Store, error) {
	if err := fsutil.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		metadata, err := tx.CreateBucketIfNotExists(buckets.Metadata)
		if err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(buckets.Items); err != nil {
			return err
		}

		versionBytes, err := json.Marshal(currentVersion)
		if err != nil {
			return err
		}
		return metadata.Put(metadataKeys.Version, versionBytes)
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Replace atomically swaps the cached listing for items.
func (s *Store) Replace(items []bandcamp.CollectionItem) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(buckets.Items); err != nil {
			return err
		}
		bucket, err := tx.CreateBucket(buckets.Items)
		if err != nil {
			return err
		}
		for i, item := range items {
			data, err := json.Marshal(item)
			if err != nil {
				return err
			}
			if err := bucket.Put([]byte(fmt.Sprintf("%08d", i)), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns the cached listing in its original order. An empty cache
// yields an empty slice, not an error.
func (s *Store) List() ([]bandcamp.CollectionItem, error) {
	var items []bandcamp.CollectionItem
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(buckets.Items)
		return bucket.ForEach(func(k, v []byte) error {
			var item bandcamp.CollectionItem
			if err := json.Unmarshal(v, &item); err != nil {
				return err
			}
			items = append(items, item)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
