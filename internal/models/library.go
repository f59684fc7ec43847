package models

// Library represents a user-scoped library record: a name, a city, and the
// current book and visitor counts. Counts are never negative.
type Library struct {
	Base
	UserID       uint   `gorm:"not null;index" json:"user_id"`
	Name         string `gorm:"not null" json:"name"`
	City         string `json:"city"`
	BookCount    int    `gorm:"not null;default:0" json:"book_count"`
	VisitorCount int    `gorm:"not null;default:0" json:"visitor_count"`
}
