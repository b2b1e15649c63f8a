package repository

import (
	"errors"
	"fmt"

	"github.com/coralcms/coral-backend/internal/common"
	"github.com/coralcms/coral-backend/internal/domain"
	"gorm.io/gorm"
)

// DocumentRepository live document data access. The revision engine only
// reads documents and overwrites the snapshotted field subset on restore;
// everything else about documents belongs to the document store proper.
type DocumentRepository interface {
	Create(doc *domain.Document) error
	FindByID(id uint64) (*domain.Document, error)
	// ApplyRevision overwrites the snapshotted field subset of a document
	// with the content of a revision, as one single update. Identity fields,
	// tenant and creation timestamp are untouched.
	ApplyRevision(documentID uint64, revision *domain.Revision) error
}

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(doc *domain.Document) error {
	if err := r.db.Create(doc).Error; err != nil {
		return fmt.Errorf("%w: insert document: %v", common.ErrPersistence, err)
	}
	return nil
}

func (r *documentRepository) FindByID(id uint64) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.Where("id = ?", id).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("%w: find document: %v", common.ErrPersistence, err)
	}
	return &doc, nil
}

func (r *documentRepository) ApplyRevision(documentID uint64, revision *domain.Revision) error {
	meta := domain.DecodeMetadata(revision.Metadata)

	// Column map rather than a struct so nil pointers write NULL and false
	// flags are not skipped as zero values.
	updates := map[string]interface{}{
		"title":           revision.Title,
		"slug":            revision.Slug,
		"body":            revision.Body,
		"excerpt":         revision.Excerpt,
		"featured_image":  revision.FeaturedImage,
		"status":          revision.Status,
		"seo_title":       meta.SEOTitle,
		"seo_description": meta.SEODescription,
		"seo_keywords":    meta.SEOKeywords,
		"visibility":      meta.Visibility,
		"is_featured":     meta.IsFeatured,
		"allow_comments":  meta.AllowComments,
		"canonical_url":   meta.CanonicalURL,
		"robots":          meta.Robots,
	}

	result := r.db.Model(&domain.Document{}).
		Where("id = ?", documentID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("%w: apply revision: %v", common.ErrPersistence, result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrDocumentNotFound
	}
	return nil
}
