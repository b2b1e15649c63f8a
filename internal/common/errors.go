package common

import "errors"

// Business logic errors
var (
	// Revision engine errors
	ErrRevisionNotFound = errors.New("revision not found")
	ErrDocumentNotFound = errors.New("document not found")

	// ErrPersistence wraps any storage failure during insert/delete.
	// Callers on autosave timers check for it and drop the save silently.
	ErrPersistence = errors.New("persistence failure")

	// ErrRestoreFailed marks a restore that failed after the safety backup
	// was taken: the document was not (fully) restored but the pre-restore
	// content is recoverable from the backup revision.
	ErrRestoreFailed = errors.New("restore failed after backup")
)
