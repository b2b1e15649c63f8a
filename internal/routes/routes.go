package routes

import (
	"github.com/coralcms/coral-backend/internal/handler"
	"github.com/gin-gonic/gin"
)

// Setup configures the revision API routes. Authentication happens at the
// edge gateway; it injects the tenant and actor headers the middleware reads.
func Setup(router *gin.Engine, revisionHandler *handler.RevisionHandler) {
	api := router.Group("/api/v1")

	// Document-scoped operations (editor save paths, history, housekeeping)
	documents := api.Group("/documents")
	documents.POST("/:id/revisions", revisionHandler.CreateRevision)
	documents.POST("/:id/autosave", revisionHandler.Autosave)
	documents.GET("/:id/revisions", revisionHandler.ListRevisions)
	documents.DELETE("/:id/autosaves", revisionHandler.PruneAutosaves)

	// Revision-scoped operations (history/diff UI, restore action)
	revisions := api.Group("/revisions")
	revisions.GET("/:id", revisionHandler.GetRevision)
	revisions.GET("/:id/diff/:other", revisionHandler.DiffRevisions)
	revisions.POST("/:id/restore", revisionHandler.Restore)
}
