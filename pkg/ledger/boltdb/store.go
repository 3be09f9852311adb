package boltdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"

	"github.com/tcpspsuite/gridsubmit/pkg/ledger"
	"github.com/tcpspsuite/gridsubmit/pkg/models"
)

const (
	BucketRuns     = "runs"
	BucketSessions = "sessions"
)

// Store keeps records in a bolt database laid out as
//
//	bucket runs
//		bucket <sessionID> -> key <sequence> -> SubmissionRecord
//	bucket sessions -> key <sequence> -> sessionID
type Store struct {
	database *bolt.DB
}

var _ ledger.Store = (*Store)(nil)

// Open opens or creates the ledger at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := GetDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening submission ledger %s: %w", dbPath, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{BucketRuns, BucketSessions} {
			if _, err := NewBucketPath(name).Get(tx, true); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create required buckets at startup: %w", err)
	}

	log.Debug().Str("DBFile", dbPath).Msg("opened bolt-backed submission ledger")
	return &Store{database: db}, nil
}

// OpenInWorkDir opens the ledger file of a work dir.
func OpenInWorkDir(workDir string) (*Store, error) {
	return Open(ledger.PathInWorkDir(workDir))
}

func (s *Store) Append(ctx context.Context, record models.SubmissionRecord) error {
	if record.SessionID == "" {
		return errors.New("submission record has no session id")
	}
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	return update(ctx, s.database, func(tx *bolt.Tx) error {
		runs, err := NewBucketPath(BucketRuns).Get(tx, false)
		if err != nil {
			return err
		}
		session := runs.Bucket([]byte(record.SessionID))
		if session == nil {
			if session, err = runs.CreateBucket([]byte(record.SessionID)); err != nil {
				return err
			}
			if err = s.addSession(tx, record.SessionID); err != nil {
				return err
			}
		}

		key, err := sequenceKey(session)
		if err != nil {
			return err
		}
		return session.Put(key, data)
	})
}

func (s *Store) addSession(tx *bolt.Tx, sessionID string) error {
	sessions, err := NewBucketPath(BucketSessions).Get(tx, false)
	if err != nil {
		return err
	}
	key, err := sequenceKey(sessions)
	if err != nil {
		return err
	}
	return sessions.Put(key, []byte(sessionID))
}

func (s *Store) List(ctx context.Context, sessionID string) ([]models.SubmissionRecord, error) {
	var records []models.SubmissionRecord
	err := view(ctx, s.database, func(tx *bolt.Tx) error {
		bucket, err := NewBucketPath(BucketRuns).Get(tx, false)
		if err != nil {
			return err
		}
		session := bucket.Bucket([]byte(sessionID))
		if session == nil {
			return fmt.Errorf("unknown session %q", sessionID)
		}
		return session.ForEach(func(_, v []byte) error {
			var r models.SubmissionRecord
			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}
			records = append(records, r)
			return nil
		})
	})
	return records, err
}

func (s *Store) Sessions(ctx context.Context) ([]string, error) {
	var sessions []string
	err := view(ctx, s.database, func(tx *bolt.Tx) error {
		bucket, err := NewBucketPath(BucketSessions).Get(tx, false)
		if err != nil {
			return err
		}
		return bucket.ForEach(func(_, v []byte) error {
			sessions = append(sessions, string(v))
			return nil
		})
	})
	return sessions, err
}

func (s *Store) Close(ctx context.Context) error {
	log.Ctx(ctx).Debug().Msg("closing bolt-backed submission ledger")
	return s.database.Close()
}
