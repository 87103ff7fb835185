package models

// Post publication states.
const (
	PostStatusDraft     = "draft"
	PostStatusPending   = "pending"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

// PostModel is a blog post with markdown source and rendered HTML.
type PostModel struct {
	Base
	Title    string  `json:"title"     gorm:"size:255;not null"`
	Slug     string  `json:"slug"      gorm:"size:255;uniqueIndex;not null"`
	BodyMD   string  `json:"body_md"   gorm:"type:longtext;not null"`
	BodyHTML string  `json:"body_html" gorm:"type:longtext"`
	Status   string  `json:"status"    gorm:"size:50;default:draft;index"`
	AuthorID string  `json:"author_id"   gorm:"type:char(36);index;not null"`
	CategoryID *string `json:"category_id" gorm:"type:char(36);index"`

	Author    *UserModel          `json:"author,omitempty"    gorm:"foreignKey:AuthorID"`
	Category  *CategoryModel      `json:"category,omitempty"  gorm:"foreignKey:CategoryID"`
	Tags      []TagModel          `json:"tags,omitempty"      gorm:"many2many:post_tags"`
	Versions  []PostVersionModel  `json:"versions,omitempty"  gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Comments  []CommentModel      `json:"comments,omitempty"  gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Analytics *PostAnalyticsModel `json:"analytics,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

func (PostModel) TableName() string { return "posts" }

// PostVersionModel snapshots the markdown body before each update.
type PostVersionModel struct {
	Base
	PostID        string `json:"post_id"        gorm:"type:char(36);index;not null"`
	VersionNumber int    `json:"version_number" gorm:"not null"`
	BodyMD        string `json:"body_md"        gorm:"type:longtext"`
}

func (PostVersionModel) TableName() string { return "post_versions" }

// PostAnalyticsModel tracks per-post counters.
type PostAnalyticsModel struct {
	Base
	PostID          string `json:"post_id" gorm:"type:char(36);uniqueIndex;not null"`
	Views           int    `json:"views"   gorm:"default:0"`
	Likes           int    `json:"likes"   gorm:"default:0"`
	ReadTimeSeconds int    `json:"read_time_seconds" gorm:"default:0"`
}

func (PostAnalyticsModel) TableName() string { return "post_analytics" }
