package service

import (
	"github.com/coralcms/coral-backend/internal/repository"
	"github.com/coralcms/coral-backend/pkg/logger"
)

// DefaultKeepAutosaves is the retention count used when none is configured
const DefaultKeepAutosaves = 50

// PruneService deletes disposable autosave revisions beyond a retention
// count. No other revision type is ever deleted, regardless of age.
type PruneService interface {
	// PruneAutosaves prunes one document's autosaves down to keepLast.
	// Idempotent: a second run with the same keepLast deletes nothing.
	PruneAutosaves(documentID uint64, keepLast int) (int64, error)
	// PruneAll runs the retention pass over every document that has
	// autosaves; per-document failures are logged and skipped.
	PruneAll(keepLast int) (int64, error)
}

type pruneService struct {
	revisions repository.RevisionRepository
}

// NewPruneService creates a new PruneService
func NewPruneService(revisions repository.RevisionRepository) PruneService {
	return &pruneService{revisions: revisions}
}

func (s *pruneService) PruneAutosaves(documentID uint64, keepLast int) (int64, error) {
	if keepLast < 0 {
		keepLast = DefaultKeepAutosaves
	}

	log := logger.WithDocumentID(documentID)
	deleted, err := s.revisions.DeleteAutosavesKeeping(documentID, keepLast)
	if err != nil {
		log.Error().Err(err).
			Int("keep_last", keepLast).
			Msg("autosave pruning failed")
		return 0, err
	}

	if deleted > 0 {
		revisionsPruned.Add(float64(deleted))
		log.Info().
			Int64("deleted", deleted).
			Int("keep_last", keepLast).
			Msg("autosave revisions pruned")
	}
	return deleted, nil
}

func (s *pruneService) PruneAll(keepLast int) (int64, error) {
	ids, err := s.revisions.DocumentIDsWithAutosaves()
	if err != nil {
		logger.GetLogger().Error().Err(err).Msg("retention pass failed to list documents")
		return 0, err
	}

	var total int64
	for _, id := range ids {
		deleted, err := s.PruneAutosaves(id, keepLast)
		if err != nil {
			// Already logged; one bad document must not stop the pass
			continue
		}
		total += deleted
	}
	return total, nil
}
