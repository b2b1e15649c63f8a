package domain

import "time"

// Document is the live content entity. It is owned by the document store;
// the revision engine reads it to snapshot and overwrites a fixed field
// subset on restore. The per-document revision count is derived by counting
// revisions, there is no counter column.
type Document struct {
	ID       uint64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TenantID *uint64 `gorm:"column:tenant_id;index" json:"tenant_id,omitempty"`

	Title         string  `gorm:"column:title;type:varchar(255)" json:"title"`
	Slug          *string `gorm:"column:slug;type:varchar(255)" json:"slug,omitempty"`
	Body          string  `gorm:"column:body;type:mediumtext" json:"body"`
	Excerpt       *string `gorm:"column:excerpt;type:text" json:"excerpt,omitempty"`
	FeaturedImage *string `gorm:"column:featured_image;type:varchar(500)" json:"featured_image,omitempty"`
	Status        *string `gorm:"column:status;type:varchar(20)" json:"status,omitempty"`

	// SEO / presentation fields, snapshotted as one metadata blob
	SEOTitle       *string `gorm:"column:seo_title;type:varchar(255)" json:"seo_title,omitempty"`
	SEODescription *string `gorm:"column:seo_description;type:text" json:"seo_description,omitempty"`
	SEOKeywords    *string `gorm:"column:seo_keywords;type:varchar(500)" json:"seo_keywords,omitempty"`
	Visibility     string  `gorm:"column:visibility;type:varchar(20);default:'public'" json:"visibility"`
	IsFeatured     bool    `gorm:"column:is_featured;default:false" json:"is_featured"`
	AllowComments  bool    `gorm:"column:allow_comments;default:true" json:"allow_comments"`
	CanonicalURL   *string `gorm:"column:canonical_url;type:varchar(500)" json:"canonical_url,omitempty"`
	Robots         *string `gorm:"column:robots;type:varchar(100)" json:"robots,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Document) TableName() string { return "documents" }
