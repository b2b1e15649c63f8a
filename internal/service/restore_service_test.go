package service

import (
	"testing"

	"github.com/coralcms/coral-backend/internal/common"
	"github.com/coralcms/coral-backend/internal/domain"
	"github.com/coralcms/coral-backend/internal/repository"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type restoreFixture struct {
	db        *gorm.DB
	revisions repository.RevisionRepository
	documents repository.DocumentRepository
	snapshots SnapshotService
	restores  RestoreService
}

func setupRestore(t *testing.T) *restoreFixture {
	t.Helper()
	db := setupTestDB(t)
	revisions := repository.NewRevisionRepository(db)
	documents := repository.NewDocumentRepository(db)
	snapshots := NewSnapshotService(revisions)
	return &restoreFixture{
		db:        db,
		revisions: revisions,
		documents: documents,
		snapshots: snapshots,
		restores:  NewRestoreService(revisions, documents, snapshots),
	}
}

func (f *restoreFixture) setTitle(t *testing.T, docID uint64, title string) {
	t.Helper()
	err := f.db.Model(&domain.Document{}).Where("id = ?", docID).Update("title", title).Error
	assert.NoError(t, err)
}

func (f *restoreFixture) count(t *testing.T, docID uint64) int64 {
	t.Helper()
	count, err := f.revisions.CountByDocumentID(docID)
	assert.NoError(t, err)
	return count
}

// End-to-end scenario: Draft -> V2 (snapshotted) -> V3 (unsnapshotted),
// then restore the V2 revision.
func TestRestoreEndToEnd(t *testing.T) {
	f := setupRestore(t)

	doc := &domain.Document{Title: "Draft", Body: "body v1"}
	assert.NoError(t, f.documents.Create(doc))

	_, err := f.snapshots.CreateFromDocument(doc, "initial", "", editor(), SnapshotRequest{})
	assert.NoError(t, err)

	f.setTitle(t, doc.ID, "V2")
	v2Doc, err := f.documents.FindByID(doc.ID)
	assert.NoError(t, err)
	rev2, err := f.snapshots.CreateFromDocument(v2Doc, "manual", "second version", editor(), SnapshotRequest{})
	assert.NoError(t, err)

	// Third edit is never snapshotted
	f.setTitle(t, doc.ID, "V3")

	before := f.count(t, doc.ID)
	assert.NoError(t, f.restores.Restore(rev2.ID, nil, editor(), SnapshotRequest{}))

	// Exactly two new revisions
	assert.Equal(t, before+2, f.count(t, doc.ID))

	// The live document now holds the restored content
	restored, err := f.documents.FindByID(doc.ID)
	assert.NoError(t, err)
	assert.Equal(t, "V2", restored.Title)

	revisions, err := f.revisions.FindByDocumentID(doc.ID, 10)
	assert.NoError(t, err)
	assert.Len(t, revisions, 4)

	// Newest first: restore record, then the pre-restore backup
	record, backup := revisions[0], revisions[1]

	assert.Equal(t, domain.RevisionRestored, record.RevisionType)
	assert.Equal(t, "V2", record.Title)
	assert.Contains(t, *record.ChangesSummary, "restored from revision #")

	// The backup preserves the state as it was immediately before the call
	assert.Equal(t, domain.RevisionManual, backup.RevisionType)
	assert.Equal(t, "V3", backup.Title)
	assert.Contains(t, *backup.ChangesSummary, "automatic backup before restoring revision #")

	// Backup is taken after the target revision and before the record
	assert.Greater(t, backup.ID, rev2.ID)
	assert.Greater(t, record.ID, backup.ID)
	assert.False(t, backup.CreatedAt.Before(rev2.CreatedAt))
	assert.False(t, record.CreatedAt.Before(backup.CreatedAt))
}

func TestRestoreMissingRevisionNoSideEffects(t *testing.T) {
	f := setupRestore(t)

	doc := &domain.Document{Title: "Draft", Body: "b"}
	assert.NoError(t, f.documents.Create(doc))
	before := f.count(t, doc.ID)

	err := f.restores.Restore(999, nil, editor(), SnapshotRequest{})
	assert.ErrorIs(t, err, common.ErrRevisionNotFound)
	assert.Equal(t, before, f.count(t, doc.ID))

	unchanged, err := f.documents.FindByID(doc.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Draft", unchanged.Title)
}

func TestRestoreMissingDocumentNoSideEffects(t *testing.T) {
	f := setupRestore(t)

	// A revision whose parent document no longer exists
	orphan := &domain.Revision{DocumentID: 77, RevisionType: domain.RevisionManual, Title: "gone"}
	assert.NoError(t, f.revisions.Create(orphan))
	before := f.count(t, 77)

	err := f.restores.Restore(orphan.ID, nil, editor(), SnapshotRequest{})
	assert.ErrorIs(t, err, common.ErrDocumentNotFound)
	assert.Equal(t, before, f.count(t, 77))
}

func TestRestoreTenantScoped(t *testing.T) {
	f := setupRestore(t)

	doc := &domain.Document{TenantID: uint64Ptr(7), Title: "Tenant Doc", Body: "b"}
	assert.NoError(t, f.documents.Create(doc))
	rev, err := f.snapshots.CreateFromDocument(doc, "manual", "", editor(), SnapshotRequest{})
	assert.NoError(t, err)

	// Wrong tenant and global scope both see nothing
	other := uint64(8)
	assert.ErrorIs(t, f.restores.Restore(rev.ID, &other, editor(), SnapshotRequest{}), common.ErrRevisionNotFound)
	assert.ErrorIs(t, f.restores.Restore(rev.ID, nil, editor(), SnapshotRequest{}), common.ErrRevisionNotFound)

	// The owning tenant can restore
	owner := uint64(7)
	assert.NoError(t, f.restores.Restore(rev.ID, &owner, editor(), SnapshotRequest{}))
}

// failingDocumentRepo fails the overwrite step after the backup succeeded
type failingDocumentRepo struct {
	repository.DocumentRepository
}

func (f *failingDocumentRepo) ApplyRevision(uint64, *domain.Revision) error {
	return common.ErrPersistence
}

func TestRestoreFailureAfterBackupPreservesState(t *testing.T) {
	f := setupRestore(t)
	broken := NewRestoreService(f.revisions, &failingDocumentRepo{f.documents}, f.snapshots)

	doc := &domain.Document{Title: "Current", Body: "current body"}
	assert.NoError(t, f.documents.Create(doc))
	rev, err := f.snapshots.CreateFromDocument(doc, "manual", "", editor(), SnapshotRequest{})
	assert.NoError(t, err)

	f.setTitle(t, doc.ID, "Newest")
	before := f.count(t, doc.ID)

	err = broken.Restore(rev.ID, nil, editor(), SnapshotRequest{})
	assert.ErrorIs(t, err, common.ErrRestoreFailed)

	// The document was not overwritten
	unchanged, lookupErr := f.documents.FindByID(doc.ID)
	assert.NoError(t, lookupErr)
	assert.Equal(t, "Newest", unchanged.Title)

	// The backup revision exists and preserves the pre-restore content
	assert.Equal(t, before+1, f.count(t, doc.ID))
	revisions, lookupErr := f.revisions.FindByDocumentID(doc.ID, 10)
	assert.NoError(t, lookupErr)
	backup := revisions[0]
	assert.Equal(t, domain.RevisionManual, backup.RevisionType)
	assert.Equal(t, "Newest", backup.Title)
	assert.Contains(t, *backup.ChangesSummary, "automatic backup")
}

func TestRestoreMetricSeparatesStorageFailureFromMiss(t *testing.T) {
	f := setupRestore(t)
	broken := NewRestoreService(&failingRevisionRepo{}, f.documents, f.snapshots)

	beforeFailure := testutil.ToFloat64(restoresTotal.WithLabelValues("failure"))
	beforeNotFound := testutil.ToFloat64(restoresTotal.WithLabelValues("not_found"))

	err := broken.Restore(1, nil, editor(), SnapshotRequest{})
	assert.ErrorIs(t, err, common.ErrPersistence)

	assert.Equal(t, beforeFailure+1, testutil.ToFloat64(restoresTotal.WithLabelValues("failure")))
	assert.Equal(t, beforeNotFound, testutil.ToFloat64(restoresTotal.WithLabelValues("not_found")))

	// A genuine miss still counts as not_found
	err = f.restores.Restore(999, nil, editor(), SnapshotRequest{})
	assert.ErrorIs(t, err, common.ErrRevisionNotFound)
	assert.Equal(t, beforeNotFound+1, testutil.ToFloat64(restoresTotal.WithLabelValues("not_found")))
}

func TestRestoreRecordsActorProvenance(t *testing.T) {
	f := setupRestore(t)

	doc := &domain.Document{Title: "Draft", Body: "b"}
	assert.NoError(t, f.documents.Create(doc))
	rev, err := f.snapshots.CreateFromDocument(doc, "manual", "", editor(), SnapshotRequest{})
	assert.NoError(t, err)

	actor := editor()
	assert.NoError(t, f.restores.Restore(rev.ID, nil, actor, SnapshotRequest{IPAddress: "198.51.100.4"}))

	revisions, err := f.revisions.FindByDocumentID(doc.ID, 2)
	assert.NoError(t, err)
	for _, r := range revisions {
		assert.Equal(t, *actor.ID, *r.ActorID)
		assert.Equal(t, actor.Name, r.ActorName)
		assert.Equal(t, "198.51.100.4", *r.IPAddress)
	}
}
