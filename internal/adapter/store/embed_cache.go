package store

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"
)

var bucketEmbeddings = []byte("embeddings")

// EmbedCache persists embedding responses on disk so repeated ingests
// of unchanged documents skip the backend entirely. Keys are hashed
// over model and text; a model change never reuses old vectors.
type EmbedCache struct {
	db *bbolt.DB
}

func NewEmbedCache(path string) (*EmbedCache, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketEmbeddings)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &EmbedCache{db: db}, nil
}

func embedKey(model, text string) []byte {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return h.Sum(nil)
}

func (c *EmbedCache) Get(model, text string) ([]float32, bool) {
	var vec []float32
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketEmbeddings).Get(embedKey(model, text))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &vec)
	})
	if err != nil || vec == nil {
		return nil, false
	}
	return vec, true
}

func (c *EmbedCache) Put(model, text string, embedding []float32) error {
	data, err := json.Marshal(embedding)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEmbeddings).Put(embedKey(model, text), data)
	})
}

func (c *EmbedCache) Close() error {
	return c.db.Close()
}
