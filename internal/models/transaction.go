package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a single bookkeeping entry. Amount is a signed exact
// decimal: positive values are income, negative values are expenses. Every
// persisted transaction references a concrete category owned by the same user;
// the column is nullable at the storage layer but the ledger always resolves
// it (falling back to the user's default category) before writing.
type Transaction struct {
	Base
	UserID     uint            `gorm:"not null;index" json:"user_id"`
	CategoryID uint            `gorm:"index" json:"category_id"`
	Title      string          `json:"title,omitempty"`
	Amount     decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"amount"`
	Date       time.Time       `gorm:"not null;index" json:"date"`
	Notes      string          `json:"notes,omitempty"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"-"`
}
