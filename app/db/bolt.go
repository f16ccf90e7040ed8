package db

import (
	"fmt"

	bolt "go.etcd.io/bbolt"
)

const bucketPages = "Pages"

// BoltCache implements the page cache on a local BoltDB file, keeping pages
// across runs.
type BoltCache struct {
	db *bolt.DB
}

// Get returns a cached page body from the database
func (b *BoltCache) Get(url string) ([]byte, error) {
	var body []byte
	if err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketPages))
		data := bucket.Get([]byte(url))
		if data == nil {
			return ErrNotFound
		}
		body = make([]byte, len(data))
		copy(body, data)
		return nil
	}); err != nil {
		return nil, err
	}
	return body, nil
}

// Save stores a page body in the database
func (b *BoltCache) Save(url string, body []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketPages))
		if err := bucket.Put([]byte(url), body); err != nil {
			return fmt.Errorf("failed to put page: %w", err)
		}
		return nil
	})
}

// NewBoltCache creates BoltCache instance and initializes its bucket
func NewBoltCache(db *bolt.DB) (*BoltCache, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketPages))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &BoltCache{db: db}, nil
}
