package service

import (
	"errors"
	"fmt"
	"sync"

	"github.com/coralcms/coral-backend/internal/common"
	"github.com/coralcms/coral-backend/internal/domain"
	"github.com/coralcms/coral-backend/internal/repository"
	"github.com/coralcms/coral-backend/pkg/logger"
)

// RestoreService overwrites a live document with the content of a prior
// revision, guarded by an automatic backup taken first.
type RestoreService interface {
	// Restore applies revision revisionID onto its document. The revision is
	// looked up tenant-scoped; a tenant mismatch behaves as not-found.
	//
	// On success exactly two new revisions exist: the pre-restore backup
	// (manual) and the restoration record (restored). A failure before the
	// backup is side-effect free. A failure after the backup returns
	// common.ErrRestoreFailed and leaves the backup in place, so the
	// pre-restore content is never lost.
	Restore(revisionID uint64, tenantID *uint64, actor domain.ActorContext, req SnapshotRequest) error
}

type restoreService struct {
	revisions repository.RevisionRepository
	documents repository.DocumentRepository
	snapshots SnapshotService

	// Per-document advisory lock: two restores of the same document must not
	// interleave backup/overwrite/record steps. The storage layer serializes
	// single-row writes but not the three-step sequence.
	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

// NewRestoreService creates a new RestoreService
func NewRestoreService(revisions repository.RevisionRepository, documents repository.DocumentRepository, snapshots SnapshotService) RestoreService {
	return &restoreService{
		revisions: revisions,
		documents: documents,
		snapshots: snapshots,
		locks:     make(map[uint64]*sync.Mutex),
	}
}

func (s *restoreService) Restore(revisionID uint64, tenantID *uint64, actor domain.ActorContext, req SnapshotRequest) error {
	log := logger.GetLogger()

	// Step 1: load the target revision (side-effect free on failure)
	target, err := s.revisions.FindByIDAndTenant(revisionID, tenantID)
	if err != nil {
		restoresTotal.WithLabelValues(lookupResultLabel(err)).Inc()
		return err
	}

	lock := s.documentLock(target.DocumentID)
	lock.Lock()
	defer lock.Unlock()

	// Step 2: load the current live document (side-effect free on failure)
	doc, err := s.documents.FindByID(target.DocumentID)
	if err != nil {
		restoresTotal.WithLabelValues(lookupResultLabel(err)).Inc()
		return err
	}

	// Step 3: durable backup of the pre-restore state. Must complete before
	// any mutation of the document.
	backupSummary := fmt.Sprintf("automatic backup before restoring revision #%d", target.ID)
	backup, err := s.snapshots.CreateFromDocument(doc, string(domain.RevisionManual), backupSummary, actor, req)
	if err != nil {
		restoresTotal.WithLabelValues("backup_failed").Inc()
		return err
	}

	// Step 4: overwrite the live document with the target revision's content
	if err := s.documents.ApplyRevision(doc.ID, target); err != nil {
		log.Error().Err(err).
			Uint64("document_id", doc.ID).
			Uint64("revision_id", target.ID).
			Uint64("backup_revision_id", backup.ID).
			Msg("restore failed after backup; pre-restore content preserved in backup revision")
		restoresTotal.WithLabelValues("failure").Inc()
		return fmt.Errorf("%w: %v", common.ErrRestoreFailed, err)
	}

	// Step 5: record the restoration against the now-updated document state
	restored, err := s.documents.FindByID(doc.ID)
	if err != nil {
		restoresTotal.WithLabelValues("failure").Inc()
		return fmt.Errorf("%w: %v", common.ErrRestoreFailed, err)
	}
	recordSummary := fmt.Sprintf("restored from revision #%d (created %s)",
		target.ID, target.CreatedAt.Format("2006-01-02 15:04:05"))
	if _, err := s.snapshots.CreateFromDocument(restored, string(domain.RevisionRestored), recordSummary, actor, req); err != nil {
		log.Error().Err(err).
			Uint64("document_id", doc.ID).
			Uint64("revision_id", target.ID).
			Uint64("backup_revision_id", backup.ID).
			Msg("restore record failed; document restored, backup revision preserved")
		restoresTotal.WithLabelValues("failure").Inc()
		return fmt.Errorf("%w: %v", common.ErrRestoreFailed, err)
	}

	log.Info().
		Uint64("document_id", doc.ID).
		Uint64("revision_id", target.ID).
		Uint64("backup_revision_id", backup.ID).
		Msg("document restored")
	restoresTotal.WithLabelValues("success").Inc()
	return nil
}

// lookupResultLabel separates a genuine miss from a storage outage in the
// restore outcome metric
func lookupResultLabel(err error) string {
	if errors.Is(err, common.ErrPersistence) {
		return "failure"
	}
	return "not_found"
}

func (s *restoreService) documentLock(documentID uint64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[documentID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[documentID] = lock
	}
	return lock
}
