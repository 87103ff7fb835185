package models

// Roles a user can hold. There is no hierarchy between them; every
// protected route enumerates the roles it accepts.
const (
	RoleAuthor = "author"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

// UserModel represents a registered writer or administrator.
type UserModel struct {
	Base
	Username string `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email    string `json:"email"    gorm:"size:150;uniqueIndex;not null"`
	Password string `json:"-"        gorm:"size:255;not null"`
	Role     string `json:"role"     gorm:"size:50;default:author"`

	Posts    []PostModel    `json:"posts,omitempty"    gorm:"foreignKey:AuthorID"`
	Comments []CommentModel `json:"comments,omitempty" gorm:"foreignKey:UserID"`
}

func (UserModel) TableName() string { return "users" }

// ValidRole reports whether role is one of the enumerated roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAuthor, RoleEditor, RoleAdmin:
		return true
	}
	return false
}
