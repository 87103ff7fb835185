package models

// CommentModel is a threaded comment; ParentID is nil for top-level comments.
type CommentModel struct {
	Base
	PostID   string  `json:"post_id"   gorm:"type:char(36);index;not null"`
	UserID   string  `json:"user_id"   gorm:"type:char(36);index;not null"`
	Body     string  `json:"body"      gorm:"type:text;not null"`
	ParentID *string `json:"parent_id" gorm:"type:char(36);index"`

	User    *UserModel     `json:"user,omitempty"    gorm:"foreignKey:UserID"`
	Replies []CommentModel `json:"replies,omitempty" gorm:"foreignKey:ParentID"`
}

func (CommentModel) TableName() string { return "comments" }
