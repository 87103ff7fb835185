package models

import "time"

// MediaAssetModel records an uploaded file, optionally attached to a post.
type MediaAssetModel struct {
	Base
	Filename   string  `json:"filename"    gorm:"size:255;not null"`
	Filepath   string  `json:"filepath"    gorm:"size:255;not null"`
	UploadedBy string  `json:"uploaded_by" gorm:"type:char(36);index;not null"`
	PostID     *string `json:"post_id"     gorm:"type:char(36);index"`

	Uploader *UserModel `json:"uploader,omitempty" gorm:"foreignKey:UploadedBy"`
}

func (MediaAssetModel) TableName() string { return "media_assets" }

// SubscriberModel holds newsletter subscriptions.
type SubscriberModel struct {
	Base
	Email        string    `json:"email"  gorm:"size:255;uniqueIndex;not null"`
	Active       bool      `json:"active" gorm:"default:true"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

func (SubscriberModel) TableName() string { return "subscribers" }
