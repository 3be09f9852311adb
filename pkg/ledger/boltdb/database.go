package boltdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	DefaultDatabasePermissions = 0600
	BucketPathDelimiter        = "."
)

func GetDatabase(path string) (*bolt.DB, error) {
	database, err := bolt.Open(path, DefaultDatabasePermissions, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	return database, nil
}

type BucketPath struct {
	path string
}

// NewBucketPath creates a bucket path which can be used to describe the
// nested relationship between buckets, rather than calling b.Bucket() on
// each b found.  BucketPaths are typically described using strings like
// "runs.<session>".
func NewBucketPath(sections ...string) *BucketPath {
	return &BucketPath{
		path: strings.Join(sections, BucketPathDelimiter),
	}
}

// Get retrieves the Bucket, or an error, for the bucket found at this path
func (bp *BucketPath) Get(tx *bolt.Tx, create bool) (*bolt.Bucket, error) {
	type BucketMaker interface {
		Bucket([]byte) *bolt.Bucket
		CreateBucketIfNotExists([]byte) (*bolt.Bucket, error)
	}

	getBucket := func(root BucketMaker, name string) (*bolt.Bucket, error) {
		return root.Bucket([]byte(name)), nil
	}
	if create {
		getBucket = func(root BucketMaker, name string) (*bolt.Bucket, error) {
			return root.CreateBucketIfNotExists([]byte(name))
		}
	}

	var bucket *bolt.Bucket
	var bucketMaker BucketMaker = tx

	for _, name := range strings.Split(bp.path, BucketPathDelimiter) {
		sub, err := getBucket(bucketMaker, name)
		if err != nil {
			return nil, err
		}
		if sub == nil {
			return nil, bolt.ErrBucketNotFound
		}
		bucket = sub
		bucketMaker = sub
	}

	return bucket, nil
}

// sequenceKey returns the next sequence of the bucket, zero padded so that
// bolt's lexicographic key order is insertion order.
func sequenceKey(bucket *bolt.Bucket) ([]byte, error) {
	seq, err := bucket.NextSequence()
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("%020d", seq)), nil
}

// update runs fn in a writable transaction unless ctx is already done.
func update(ctx context.Context, db *bolt.DB, fn func(tx *bolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return db.Update(fn)
}

// view runs fn in a read-only transaction unless ctx is already done.
func view(ctx context.Context, db *bolt.DB, fn func(tx *bolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return db.View(fn)
}
