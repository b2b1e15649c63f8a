package service

import (
	"net"
	"strings"
	"unicode/utf8"

	"github.com/coralcms/coral-backend/internal/domain"
	"github.com/coralcms/coral-backend/internal/repository"
	"github.com/coralcms/coral-backend/pkg/logger"
)

// SnapshotRequest carries transport-level provenance for a snapshot.
// Fields failing validation are stored as NULL, never rejected.
type SnapshotRequest struct {
	IPAddress string
	UserAgent string
}

// SnapshotService builds immutable revisions from live document state
type SnapshotService interface {
	// CreateFromDocument snapshots the current state of a document.
	// revType is normalized against the closed revision type set (invalid
	// input coerces to manual). Persistence failures are logged and returned
	// as an error; autosave callers drop it without surfacing to the editor.
	CreateFromDocument(doc *domain.Document, revType string, summary string, actor domain.ActorContext, req SnapshotRequest) (*domain.Revision, error)
	// RevisionCount returns the derived revision count for a document
	RevisionCount(documentID uint64) (int64, error)
}

type snapshotService struct {
	revisions repository.RevisionRepository
}

// NewSnapshotService creates a new SnapshotService
func NewSnapshotService(revisions repository.RevisionRepository) SnapshotService {
	return &snapshotService{revisions: revisions}
}

// CreateFromDocument snapshots the current state of a document
func (s *snapshotService) CreateFromDocument(doc *domain.Document, revType string, summary string, actor domain.ActorContext, req SnapshotRequest) (*domain.Revision, error) {
	normalized, coerced := domain.NormalizeRevisionType(revType)
	if coerced {
		// Fail open: an editor save must never be blocked by a bad type tag
		logger.GetLogger().Warn().
			Uint64("document_id", doc.ID).
			Str("requested_type", revType).
			Msg("invalid revision type coerced to manual")
	}

	if !actor.IsResolved() {
		actor = domain.SystemActor()
	}

	metadata, err := domain.EncodeMetadata(doc)
	if err != nil {
		// Metadata is a side blob; losing it must not lose the snapshot
		logger.GetLogger().Error().Err(err).
			Uint64("document_id", doc.ID).
			Msg("metadata encoding failed, snapshotting without metadata")
		metadata = nil
	}

	revision := &domain.Revision{
		DocumentID:     doc.ID,
		TenantID:       doc.TenantID,
		RevisionType:   normalized,
		Title:          truncate(doc.Title, domain.MaxTitleLen),
		Slug:           doc.Slug,
		Body:           doc.Body,
		Excerpt:        doc.Excerpt,
		FeaturedImage:  doc.FeaturedImage,
		Metadata:       metadata,
		Status:         doc.Status,
		ActorID:        actor.ID,
		ActorName:      truncate(strings.TrimSpace(actor.Name), domain.MaxActorNameLen),
		ActorRole:      domain.NormalizeRole(actor.Role),
		IPAddress:      validIP(req.IPAddress),
		UserAgent:      optional(truncate(req.UserAgent, domain.MaxUserAgentLen)),
		ChangesSummary: optional(truncate(strings.TrimSpace(summary), domain.MaxSummaryLen)),
	}

	if err := s.revisions.Create(revision); err != nil {
		logger.GetLogger().Error().Err(err).
			Uint64("document_id", doc.ID).
			Str("revision_type", string(normalized)).
			Msg("failed to persist revision")
		return nil, err
	}

	snapshotsCreated.WithLabelValues(string(normalized)).Inc()
	return revision, nil
}

// RevisionCount returns the derived revision count for a document
func (s *snapshotService) RevisionCount(documentID uint64) (int64, error) {
	return s.revisions.CountByDocumentID(documentID)
}

// validIP returns the address if it parses as IPv4/IPv6, nil otherwise
func validIP(ip string) *string {
	ip = strings.TrimSpace(ip)
	if ip == "" || net.ParseIP(ip) == nil {
		return nil
	}
	if len(ip) > domain.MaxIPLen {
		return nil
	}
	return &ip
}

// truncate caps s at max bytes without splitting a multi-byte rune.
// The column charsets are utf8mb4; a byte-sliced rune would be rejected
// by the database under strict mode.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
