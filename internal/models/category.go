package models

// DefaultCategoryName is the protected root category every user owns.
// Transactions created without an explicit category land here, and the
// category itself can never be deleted.
const DefaultCategoryName = "Uncategorized"

// Category represents a node in a user's category tree. Categories are scoped
// to one user and form a forest through the nullable ParentID self-reference.
// Sibling names are unique within the same (user, parent) level; the parent
// chain is kept acyclic by the category service.
type Category struct {
	Base
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	Name     string `gorm:"not null" json:"name"`
	ParentID *uint  `gorm:"index" json:"parent_id,omitempty"`

	Parent       *Category     `gorm:"foreignKey:ParentID" json:"-"`
	Children     []Category    `gorm:"foreignKey:ParentID" json:"-"`
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"-"`
}

// IsDefault reports whether this is the protected root "Uncategorized" category.
func (c *Category) IsDefault() bool {
	return c.ParentID == nil && c.Name == DefaultCategoryName
}
