package repository

import (
	"testing"

	"github.com/coralcms/coral-backend/internal/common"
	"github.com/coralcms/coral-backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestDocumentApplyRevision(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDocumentRepository(db)

	doc := &domain.Document{
		TenantID:   uint64Ptr(3),
		Title:      "Current Title",
		Body:       "current body",
		Visibility: domain.VisibilityPublic,
	}
	assert.NoError(t, repo.Create(doc))
	createdAt := doc.CreatedAt

	meta := `{"seo_title":"Old SEO","visibility":"private","is_featured":true,"allow_comments":false}`
	revision := &domain.Revision{
		DocumentID:    doc.ID,
		RevisionType:  domain.RevisionManual,
		Title:         "Old Title",
		Body:          "old body",
		Excerpt:       strPtr("old excerpt"),
		Status:        strPtr("draft"),
		Metadata:      &meta,
		FeaturedImage: strPtr("/img/old.png"),
	}
	assert.NoError(t, repo.ApplyRevision(doc.ID, revision))

	restored, err := repo.FindByID(doc.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Old Title", restored.Title)
	assert.Equal(t, "old body", restored.Body)
	assert.Equal(t, "old excerpt", *restored.Excerpt)
	assert.Equal(t, "draft", *restored.Status)
	assert.Equal(t, "/img/old.png", *restored.FeaturedImage)
	assert.Equal(t, "Old SEO", *restored.SEOTitle)
	assert.Equal(t, domain.VisibilityPrivate, restored.Visibility)
	assert.True(t, restored.IsFeatured)
	assert.False(t, restored.AllowComments)

	// Identity, tenant and creation time are untouched
	assert.Equal(t, uint64(3), *restored.TenantID)
	assert.Equal(t, createdAt.Unix(), restored.CreatedAt.Unix())
}

func TestDocumentApplyRevisionNilMetadata(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDocumentRepository(db)

	doc := &domain.Document{Title: "T", Body: "b", Visibility: domain.VisibilityPrivate, IsFeatured: true}
	assert.NoError(t, repo.Create(doc))

	// A revision without a metadata blob applies the metadata defaults
	revision := &domain.Revision{DocumentID: doc.ID, Title: "T2", Body: "b2"}
	assert.NoError(t, repo.ApplyRevision(doc.ID, revision))

	restored, err := repo.FindByID(doc.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.VisibilityPublic, restored.Visibility)
	assert.False(t, restored.IsFeatured)
	assert.True(t, restored.AllowComments)
}

func TestDocumentApplyRevisionMissingDocument(t *testing.T) {
	repo := NewDocumentRepository(setupTestDB(t))

	err := repo.ApplyRevision(42, &domain.Revision{Title: "x"})
	assert.ErrorIs(t, err, common.ErrDocumentNotFound)
}

func TestDocumentFindByIDNotFound(t *testing.T) {
	repo := NewDocumentRepository(setupTestDB(t))

	_, err := repo.FindByID(1)
	assert.ErrorIs(t, err, common.ErrDocumentNotFound)
}
