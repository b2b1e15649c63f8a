package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coralcms/coral-backend/internal/common"
	"github.com/coralcms/coral-backend/internal/domain"
	"github.com/coralcms/coral-backend/internal/middleware"
	"github.com/coralcms/coral-backend/internal/repository"
	"github.com/coralcms/coral-backend/internal/service"
	pkgcache "github.com/coralcms/coral-backend/pkg/cache"
	"github.com/coralcms/coral-backend/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// RevisionHandler exposes the revision engine to its HTTP consumers: the
// editor save paths, the history/diff UI, the restore action and the
// housekeeping trigger.
type RevisionHandler struct {
	snapshots service.SnapshotService
	restores  service.RestoreService
	pruner    service.PruneService
	revisions repository.RevisionRepository
	documents repository.DocumentRepository
	cache     pkgcache.Service
}

// NewRevisionHandler creates a new RevisionHandler
func NewRevisionHandler(
	snapshots service.SnapshotService,
	restores service.RestoreService,
	pruner service.PruneService,
	revisions repository.RevisionRepository,
	documents repository.DocumentRepository,
	cache pkgcache.Service,
) *RevisionHandler {
	return &RevisionHandler{
		snapshots: snapshots,
		restores:  restores,
		pruner:    pruner,
		revisions: revisions,
		documents: documents,
		cache:     cache,
	}
}

// CreateRevision handles POST /api/v1/documents/:id/revisions
// Editor save path: explicit saves, publish and schedule transitions.
// @Summary Create a revision
// @Description Snapshots the current document state as a new immutable revision
// @Tags revisions
// @Accept json
// @Produce json
// @Param id path int true "Document ID"
// @Param request body domain.CreateRevisionRequest true "Revision type and change summary"
// @Success 201 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /documents/{id}/revisions [post]
func (h *RevisionHandler) CreateRevision(c *gin.Context) {
	doc, ok := h.loadScopedDocument(c)
	if !ok {
		return
	}

	var req domain.CreateRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	revision, err := h.snapshots.CreateFromDocument(doc, req.Type, req.Summary,
		middleware.GetActor(c), snapshotRequest(c))
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to save revision", nil)
		return
	}

	h.invalidateListing(c, doc.ID)
	c.JSON(http.StatusCreated, common.APIResponse{Data: revision})
}

// Autosave handles POST /api/v1/documents/:id/autosave
// Timer save path: persistence failures are reported as saved=false with
// HTTP 200 so the editor's autosave loop never breaks.
// @Summary Autosave the document
// @Description Takes an autosave snapshot; a storage failure answers saved=false, never 5xx
// @Tags revisions
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /documents/{id}/autosave [post]
func (h *RevisionHandler) Autosave(c *gin.Context) {
	doc, ok := h.loadScopedDocument(c)
	if !ok {
		return
	}

	revision, err := h.snapshots.CreateFromDocument(doc, string(domain.RevisionAutosave), "",
		middleware.GetActor(c), snapshotRequest(c))
	if err != nil {
		c.JSON(http.StatusOK, common.APIResponse{Data: domain.AutosaveResponse{Saved: false}})
		return
	}

	h.invalidateListing(c, doc.ID)
	c.JSON(http.StatusOK, common.APIResponse{
		Data: domain.AutosaveResponse{Saved: true, RevisionID: revision.ID},
	})
}

// ListRevisions handles GET /api/v1/documents/:id/revisions
// @Summary List revisions
// @Description Revision history of a document, newest first
// @Tags revisions
// @Produce json
// @Param id path int true "Document ID"
// @Param limit query int false "Maximum entries (default 50, max 200)"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /documents/{id}/revisions [get]
func (h *RevisionHandler) ListRevisions(c *gin.Context) {
	doc, ok := h.loadScopedDocument(c)
	if !ok {
		return
	}
	limit := ginutil.QueryInt(c, "limit", repository.DefaultListLimit)

	// Listing cache (best effort, skipped when Redis is down)
	if h.cache != nil && h.cache.IsAvailable() {
		if data, err := h.cache.GetRevisions(c.Request.Context(), doc.ID, limit); err == nil {
			var cached []domain.RevisionListItem
			if json.Unmarshal(data, &cached) == nil {
				c.Header("X-Cache", "HIT")
				common.SuccessResponse(c, cached, &common.Meta{DocumentID: doc.ID, Limit: limit})
				return
			}
		}
	}

	revisions, err := h.revisions.FindByDocumentID(doc.ID, limit)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list revisions", nil)
		return
	}

	items := make([]domain.RevisionListItem, len(revisions))
	for i, r := range revisions {
		items[i] = r.ToListItem()
	}

	if h.cache != nil && h.cache.IsAvailable() {
		_ = h.cache.SetRevisions(c.Request.Context(), doc.ID, limit, items)
	}

	total, _ := h.revisions.CountByDocumentID(doc.ID)
	common.SuccessResponse(c, items, &common.Meta{DocumentID: doc.ID, Limit: limit, Total: total})
}

// GetRevision handles GET /api/v1/revisions/:id
// @Summary Get a revision
// @Tags revisions
// @Produce json
// @Param id path int true "Revision ID"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /revisions/{id} [get]
func (h *RevisionHandler) GetRevision(c *gin.Context) {
	revision, ok := h.loadScopedRevision(c, "id")
	if !ok {
		return
	}
	common.SuccessResponse(c, revision, nil)
}

// DiffRevisions handles GET /api/v1/revisions/:id/diff/:other
// @Summary Compare two revisions
// @Description Field-level change report between two revisions
// @Tags revisions
// @Produce json
// @Param id path int true "Revision ID"
// @Param other path int true "Other revision ID"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /revisions/{id}/diff/{other} [get]
func (h *RevisionHandler) DiffRevisions(c *gin.Context) {
	a, ok := h.loadScopedRevision(c, "id")
	if !ok {
		return
	}
	b, ok := h.loadScopedRevision(c, "other")
	if !ok {
		return
	}
	common.SuccessResponse(c, domain.Diff(a, b), nil)
}

// Restore handles POST /api/v1/revisions/:id/restore
// @Summary Restore a revision
// @Description Overwrites the live document with this revision's content; an automatic backup revision is taken first
// @Tags revisions
// @Produce json
// @Param id path int true "Revision ID"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Failure 500 {object} common.APIResponse
// @Router /revisions/{id}/restore [post]
func (h *RevisionHandler) Restore(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid revision id", err)
		return
	}

	tenantID := middleware.GetTenantID(c)
	err = h.restores.Restore(id, tenantID, middleware.GetActor(c), snapshotRequest(c))
	switch {
	case err == nil:
	case isNotFound(err):
		common.ErrorResponse(c, http.StatusNotFound, "revision not found", nil)
		return
	default:
		// the backup revision is recorded before the document is touched
		common.ErrorResponse(c, http.StatusInternalServerError,
			"restore failed, your current version was NOT lost", nil)
		return
	}

	if revision, lookupErr := h.revisions.FindByIDAndTenant(id, tenantID); lookupErr == nil {
		h.invalidateListing(c, revision.DocumentID)
	}
	common.SuccessResponse(c, domain.RestoreResponse{Restored: true}, nil)
}

// PruneAutosaves handles DELETE /api/v1/documents/:id/autosaves
// @Summary Prune autosave revisions
// @Description Deletes autosave revisions beyond the newest keep window; other revision types are never touched
// @Tags revisions
// @Produce json
// @Param id path int true "Document ID"
// @Param keep query int false "Autosaves to keep (default 50)"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /documents/{id}/autosaves [delete]
func (h *RevisionHandler) PruneAutosaves(c *gin.Context) {
	doc, ok := h.loadScopedDocument(c)
	if !ok {
		return
	}
	keep := ginutil.QueryInt(c, "keep", service.DefaultKeepAutosaves)

	deleted, err := h.pruner.PruneAutosaves(doc.ID, keep)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "pruning failed", nil)
		return
	}

	h.invalidateListing(c, doc.ID)
	common.SuccessResponse(c, domain.PruneResponse{Deleted: deleted}, nil)
}

// loadScopedDocument resolves the :id document within the request's tenant
// scope. A document of another tenant is reported as not-found.
func (h *RevisionHandler) loadScopedDocument(c *gin.Context) (*domain.Document, bool) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid document id", err)
		return nil, false
	}

	doc, err := h.documents.FindByID(id)
	if errors.Is(err, common.ErrPersistence) {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to load document", nil)
		return nil, false
	}
	if err != nil || !tenantMatches(doc.TenantID, middleware.GetTenantID(c)) {
		common.ErrorResponse(c, http.StatusNotFound, "document not found", nil)
		return nil, false
	}
	return doc, true
}

func (h *RevisionHandler) loadScopedRevision(c *gin.Context, param string) (*domain.Revision, bool) {
	id, err := ginutil.ParamUint64(c, param)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid revision id", err)
		return nil, false
	}

	revision, err := h.revisions.FindByIDAndTenant(id, middleware.GetTenantID(c))
	if errors.Is(err, common.ErrPersistence) {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to load revision", nil)
		return nil, false
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusNotFound, "revision not found", nil)
		return nil, false
	}
	return revision, true
}

func (h *RevisionHandler) invalidateListing(c *gin.Context, documentID uint64) {
	if h.cache != nil && h.cache.IsAvailable() {
		_ = h.cache.InvalidateRevisions(c.Request.Context(), documentID)
	}
}

func snapshotRequest(c *gin.Context) service.SnapshotRequest {
	return service.SnapshotRequest{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

func tenantMatches(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func isNotFound(err error) bool {
	return errors.Is(err, common.ErrRevisionNotFound) || errors.Is(err, common.ErrDocumentNotFound)
}
