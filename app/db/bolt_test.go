package db

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func getBoltDB(t *testing.T) (*bolt.DB, func()) {
	tmpFile, err := os.CreateTemp("", "bolt_test")
	require.NoError(t, err)
	boltDB, err := bolt.Open(tmpFile.Name(), 0o600, nil)
	require.NoError(t, err)
	return boltDB, func() {
		os.Remove(tmpFile.Name())
		boltDB.Close()
	}
}

func getCache(t *testing.T) (*BoltCache, func()) {
	boltDB, cleanup := getBoltDB(t)
	cache, err := NewBoltCache(boltDB)
	require.NoError(t, err)
	return cache, cleanup
}

func TestNewBoltCache(t *testing.T) {
	t.Run("first", func(t *testing.T) {
		boltDB, cleanup := getBoltDB(t)
		defer cleanup()
		cache, err := NewBoltCache(boltDB)
		require.NoError(t, err)
		cache.db.View(func(tx *bolt.Tx) error {
			assert.NotNil(t, tx.Bucket([]byte(bucketPages)))
			assert.Equal(t, 0, tx.Bucket([]byte(bucketPages)).Stats().KeyN)
			return nil
		})
	})
	t.Run("already exists", func(t *testing.T) {
		boltDB, cleanup := getBoltDB(t)
		defer cleanup()
		err := boltDB.Update(func(tx *bolt.Tx) error {
			_, err := tx.CreateBucket([]byte(bucketPages))
			return err
		})
		require.NoError(t, err)

		_, err = NewBoltCache(boltDB)
		require.NoError(t, err)
	})
}

func TestBoltGet(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		cache, cleanup := getCache(t)
		defer cleanup()
		err := cache.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket([]byte(bucketPages)).Put([]byte("https://example.com"), []byte("<html/>"))
		})
		require.NoError(t, err)

		body, err := cache.Get("https://example.com")
		require.NoError(t, err)
		assert.Equal(t, []byte("<html/>"), body)
	})
	t.Run("non existing", func(t *testing.T) {
		cache, cleanup := getCache(t)
		defer cleanup()
		_, err := cache.Get("https://example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestBoltSave(t *testing.T) {
	cache, cleanup := getCache(t)
	defer cleanup()
	require.NoError(t, cache.Save("https://example.com", []byte("<html/>")))
	err := cache.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketPages)).Get([]byte("https://example.com"))
		assert.Equal(t, []byte("<html/>"), data)
		return nil
	})
	require.NoError(t, err)
}
