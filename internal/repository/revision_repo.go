package repository

import (
	"errors"
	"fmt"

	"github.com/coralcms/coral-backend/internal/common"
	"github.com/coralcms/coral-backend/internal/domain"
	"gorm.io/gorm"
)

// List limit bounds for revision history queries
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// RevisionRepository content revision data access. Revisions are append-only:
// there is deliberately no update method.
type RevisionRepository interface {
	// Create persists a new immutable revision and assigns its ID
	Create(revision *domain.Revision) error
	// FindByID returns a revision without tenant scoping
	FindByID(id uint64) (*domain.Revision, error)
	// FindByIDAndTenant returns a revision only if it belongs to the given
	// tenant; a nil tenantID matches only tenant-less revisions. A tenant
	// mismatch is indistinguishable from not-found.
	FindByIDAndTenant(id uint64, tenantID *uint64) (*domain.Revision, error)
	// FindByDocumentID lists revisions for a document, newest first.
	// limit is clamped to [1, MaxListLimit]; <1 means DefaultListLimit.
	FindByDocumentID(documentID uint64, limit int) ([]*domain.Revision, error)
	// DeleteAutosavesKeeping deletes autosave revisions of a document beyond
	// the keepLast most recent ones. Other revision types are never touched.
	DeleteAutosavesKeeping(documentID uint64, keepLast int) (int64, error)
	// CountByDocumentID returns the total revision count for a document
	CountByDocumentID(documentID uint64) (int64, error)
	// DocumentIDsWithAutosaves lists document ids that have at least one
	// autosave revision (used by the scheduled retention job)
	DocumentIDsWithAutosaves() ([]uint64, error)
}

type revisionRepository struct {
	db *gorm.DB
}

// NewRevisionRepository creates a new RevisionRepository
func NewRevisionRepository(db *gorm.DB) RevisionRepository {
	return &revisionRepository{db: db}
}

func (r *revisionRepository) Create(revision *domain.Revision) error {
	if err := r.db.Create(revision).Error; err != nil {
		return fmt.Errorf("%w: insert revision: %v", common.ErrPersistence, err)
	}
	return nil
}

func (r *revisionRepository) FindByID(id uint64) (*domain.Revision, error) {
	var revision domain.Revision
	err := r.db.Where("id = ?", id).First(&revision).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrRevisionNotFound
		}
		return nil, fmt.Errorf("%w: find revision: %v", common.ErrPersistence, err)
	}
	return &revision, nil
}

func (r *revisionRepository) FindByIDAndTenant(id uint64, tenantID *uint64) (*domain.Revision, error) {
	query := r.db.Where("id = ?", id)
	if tenantID == nil {
		query = query.Where("tenant_id IS NULL")
	} else {
		query = query.Where("tenant_id = ?", *tenantID)
	}

	var revision domain.Revision
	err := query.First(&revision).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Tenant mismatch must not leak existence
			return nil, common.ErrRevisionNotFound
		}
		return nil, fmt.Errorf("%w: find revision: %v", common.ErrPersistence, err)
	}
	return &revision, nil
}

func (r *revisionRepository) FindByDocumentID(documentID uint64, limit int) ([]*domain.Revision, error) {
	if limit < 1 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	var revisions []*domain.Revision
	err := r.db.Where("document_id = ?", documentID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&revisions).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list revisions: %v", common.ErrPersistence, err)
	}
	return revisions, nil
}

func (r *revisionRepository) DeleteAutosavesKeeping(documentID uint64, keepLast int) (int64, error) {
	if keepLast < 0 {
		keepLast = 0
	}

	// Pluck the retained window first, then delete what falls outside it.
	// An offset-without-limit select is not portable across SQL dialects.
	var keepIDs []uint64
	if keepLast > 0 {
		err := r.db.Model(&domain.Revision{}).
			Where("document_id = ? AND revision_type = ?", documentID, domain.RevisionAutosave).
			Order("created_at DESC, id DESC").
			Limit(keepLast).
			Pluck("id", &keepIDs).Error
		if err != nil {
			return 0, fmt.Errorf("%w: select retained autosaves: %v", common.ErrPersistence, err)
		}
	}

	query := r.db.Where("document_id = ? AND revision_type = ?", documentID, domain.RevisionAutosave)
	if len(keepIDs) > 0 {
		query = query.Where("id NOT IN ?", keepIDs)
	}
	result := query.Delete(&domain.Revision{})
	if result.Error != nil {
		return 0, fmt.Errorf("%w: delete autosaves: %v", common.ErrPersistence, result.Error)
	}
	return result.RowsAffected, nil
}

func (r *revisionRepository) CountByDocumentID(documentID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Revision{}).
		Where("document_id = ?", documentID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("%w: count revisions: %v", common.ErrPersistence, err)
	}
	return count, nil
}

func (r *revisionRepository) DocumentIDsWithAutosaves() ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&domain.Revision{}).
		Where("revision_type = ?", domain.RevisionAutosave).
		Distinct().
		Pluck("document_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list documents with autosaves: %v", common.ErrPersistence, err)
	}
	return ids, nil
}
