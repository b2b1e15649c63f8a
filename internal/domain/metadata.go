package domain

import "encoding/json"

// Metadata default values
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// RevisionMeta is the SEO/flags side blob stored with each revision.
type RevisionMeta struct {
	SEOTitle       *string `json:"seo_title"`
	SEODescription *string `json:"seo_description"`
	SEOKeywords    *string `json:"seo_keywords"`
	Visibility     string  `json:"visibility"`
	IsFeatured     bool    `json:"is_featured"`
	AllowComments  bool    `json:"allow_comments"`
	CanonicalURL   *string `json:"canonical_url"`
	Robots         *string `json:"robots"`
}

// DefaultMeta returns the all-defaults metadata structure used when a stored
// blob is missing or unreadable.
func DefaultMeta() RevisionMeta {
	return RevisionMeta{
		Visibility:    VisibilityPublic,
		AllowComments: true,
	}
}

// EncodeMetadata packs a document's SEO/flag fields into the serialized blob
// stored on a revision.
func EncodeMetadata(doc *Document) (*string, error) {
	meta := RevisionMeta{
		SEOTitle:       doc.SEOTitle,
		SEODescription: doc.SEODescription,
		SEOKeywords:    doc.SEOKeywords,
		Visibility:     doc.Visibility,
		IsFeatured:     doc.IsFeatured,
		AllowComments:  doc.AllowComments,
		CanonicalURL:   doc.CanonicalURL,
		Robots:         doc.Robots,
	}
	if meta.Visibility == "" {
		meta.Visibility = VisibilityPublic
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	blob := string(data)
	return &blob, nil
}

// DecodeMetadata is the inverse of EncodeMetadata. A nil or malformed blob
// yields DefaultMeta rather than an error; restore depends on this tolerance.
func DecodeMetadata(blob *string) RevisionMeta {
	if blob == nil || *blob == "" {
		return DefaultMeta()
	}
	meta := DefaultMeta()
	if err := json.Unmarshal([]byte(*blob), &meta); err != nil {
		return DefaultMeta()
	}
	if meta.Visibility == "" {
		meta.Visibility = VisibilityPublic
	}
	return meta
}
