package models

// CategoryModel groups posts into a single category each.
type CategoryModel struct {
	Base
	Name string `json:"name" gorm:"size:50;uniqueIndex;not null"`

	Posts []PostModel `json:"posts,omitempty" gorm:"foreignKey:CategoryID"`
}

func (CategoryModel) TableName() string { return "categories" }

// TagModel is a free-form label attached to posts many-to-many.
type TagModel struct {
	Base
	Name string `json:"name" gorm:"size:50;uniqueIndex;not null"`

	Posts []PostModel `json:"posts,omitempty" gorm:"many2many:post_tags"`
}

func (TagModel) TableName() string { return "tags" }
