package domain

import "time"

// RevisionType classifies why a revision was taken.
type RevisionType string

const (
	RevisionInitial   RevisionType = "initial"
	RevisionAutosave  RevisionType = "autosave"
	RevisionManual    RevisionType = "manual"
	RevisionPublished RevisionType = "published"
	RevisionScheduled RevisionType = "scheduled"
	RevisionRestored  RevisionType = "restored"
)

// Provenance field caps (enforced on write, mirrored in column sizes)
const (
	MaxActorNameLen = 100
	MaxIPLen        = 45
	MaxUserAgentLen = 500
	MaxSummaryLen   = 255
	MaxTitleLen     = 255
)

// NormalizeRevisionType maps arbitrary input onto the closed revision type set.
// Unknown values coerce to RevisionManual; the second return reports whether
// coercion happened so callers can log or reject it.
func NormalizeRevisionType(s string) (RevisionType, bool) {
	switch RevisionType(s) {
	case RevisionInitial, RevisionAutosave, RevisionManual,
		RevisionPublished, RevisionScheduled, RevisionRestored:
		return RevisionType(s), false
	}
	return RevisionManual, true
}

// Revision is an immutable point-in-time snapshot of a document's content.
// Rows are only ever inserted, read, or deleted (autosaves, by the pruner);
// there is no update path anywhere in the codebase.
type Revision struct {
	ID         uint64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	DocumentID uint64  `gorm:"column:document_id;index:idx_rev_doc_created,priority:1;index:idx_rev_doc_type_created,priority:1" json:"document_id"`
	TenantID   *uint64 `gorm:"column:tenant_id;index" json:"tenant_id,omitempty"`

	RevisionType RevisionType `gorm:"column:revision_type;type:varchar(20);index:idx_rev_doc_type_created,priority:2" json:"revision_type"`

	// Content payload (the snapshotted document field subset)
	Title         string  `gorm:"column:title;type:varchar(255)" json:"title"`
	Slug          *string `gorm:"column:slug;type:varchar(255)" json:"slug,omitempty"`
	Body          string  `gorm:"column:body;type:mediumtext" json:"body"`
	Excerpt       *string `gorm:"column:excerpt;type:text" json:"excerpt,omitempty"`
	FeaturedImage *string `gorm:"column:featured_image;type:varchar(500)" json:"featured_image,omitempty"`
	Metadata      *string `gorm:"column:metadata;type:json" json:"metadata,omitempty"`
	Status        *string `gorm:"column:status;type:varchar(20)" json:"status,omitempty"`

	// Provenance
	ActorID        *uint64   `gorm:"column:actor_id" json:"actor_id,omitempty"`
	ActorName      string    `gorm:"column:actor_name;type:varchar(100)" json:"actor_name"`
	ActorRole      ActorRole `gorm:"column:actor_role;type:varchar(20)" json:"actor_role"`
	IPAddress      *string   `gorm:"column:ip_address;type:varchar(45)" json:"ip_address,omitempty"`
	UserAgent      *string   `gorm:"column:user_agent;type:varchar(500)" json:"user_agent,omitempty"`
	ChangesSummary *string   `gorm:"column:changes_summary;type:varchar(255)" json:"changes_summary,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index:idx_rev_doc_created,priority:2;index:idx_rev_doc_type_created,priority:3" json:"created_at"`
}

func (Revision) TableName() string { return "content_revisions" }

// RevisionListItem is the trimmed shape returned by the history listing
type RevisionListItem struct {
	ID             uint64    `json:"id"`
	RevisionType   string    `json:"revision_type"`
	Title          string    `json:"title"`
	ActorName      string    `json:"actor_name"`
	ChangesSummary string    `json:"changes_summary,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToListItem converts a revision to its listing shape
func (r *Revision) ToListItem() RevisionListItem {
	item := RevisionListItem{
		ID:           r.ID,
		RevisionType: string(r.RevisionType),
		Title:        r.Title,
		ActorName:    r.ActorName,
		CreatedAt:    r.CreatedAt,
	}
	if r.ChangesSummary != nil {
		item.ChangesSummary = *r.ChangesSummary
	}
	return item
}
