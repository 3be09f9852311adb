// Package ledger keeps the handles of submitted grid cells so that an
// operator can find and cancel them later.
package ledger

import (
	"context"
	"path/filepath"

	"github.com/tcpspsuite/gridsubmit/pkg/models"
)

// FileName is the ledger database inside a work dir.
const FileName = "submissions.db"

// Store persists submission records per deploy session.
type Store interface {
	// Append adds a record to the session named in the record.
	Append(ctx context.Context, record models.SubmissionRecord) error
	// List returns the records of a session in the order they were appended.
	List(ctx context.Context, sessionID string) ([]models.SubmissionRecord, error)
	// Sessions returns every session id, oldest first.
	Sessions(ctx context.Context) ([]string, error)
	Close(ctx context.Context) error
}

// PathInWorkDir returns the ledger location for a work dir.
func PathInWorkDir(workDir string) string {
	return filepath.Join(workDir, FileName)
}
