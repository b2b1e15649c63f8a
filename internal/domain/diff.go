package domain

// DiffReport is a field-level change report between two revisions.
// ContentLengthDiff is signed: Diff(a, b) == -Diff(b, a) for that field.
type DiffReport struct {
	RevisionA uint64 `json:"revision_a"`
	RevisionB uint64 `json:"revision_b"`

	TitleChanged         bool `json:"title_changed"`
	BodyChanged          bool `json:"body_changed"`
	ExcerptChanged       bool `json:"excerpt_changed"`
	FeaturedImageChanged bool `json:"featured_image_changed"`
	StatusChanged        bool `json:"status_changed"`

	ContentLengthDiff int `json:"content_length_diff"`
}

// Diff compares the tracked content fields of two revisions by exact
// inequality. Pure function, no persistence.
func Diff(a, b *Revision) DiffReport {
	return DiffReport{
		RevisionA:            a.ID,
		RevisionB:            b.ID,
		TitleChanged:         a.Title != b.Title,
		BodyChanged:          a.Body != b.Body,
		ExcerptChanged:       !strPtrEqual(a.Excerpt, b.Excerpt),
		FeaturedImageChanged: !strPtrEqual(a.FeaturedImage, b.FeaturedImage),
		StatusChanged:        !strPtrEqual(a.Status, b.Status),
		ContentLengthDiff:    len(a.Body) - len(b.Body),
	}
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
