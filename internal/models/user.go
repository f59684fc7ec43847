package models

// User represents a registered account. The password column stores a bcrypt
// hash and is never serialized.
type User struct {
	Base
	Email        string        `gorm:"uniqueIndex;not null" json:"email"`
	Password     string        `gorm:"not null" json:"-"`
	Username     string        `json:"username,omitempty"`
	Categories   []Category    `gorm:"foreignKey:UserID" json:"categories,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	Libraries    []Library     `gorm:"foreignKey:UserID" json:"libraries,omitempty"`
}
