package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kovalsofiia/finance-tracker/internal/models"
	"github.com/kovalsofiia/finance-tracker/internal/optional"
	"github.com/kovalsofiia/finance-tracker/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(email, password, username string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateProfile(userID uint, email, username, password *string) (*models.User, error)
	DeleteUser(userID uint) error
}

// CategoryNode is one node of the materialized category forest: the category
// itself, its children (recursively), and its directly-attached transactions
// ordered by date descending. The forest is rebuilt on every call, never stored.
type CategoryNode struct {
	models.Category
	Children     []*CategoryNode      `json:"children"`
	Transactions []models.Transaction `json:"transactions"`
}

// CategoryServicer defines the contract for the category tree engine. All
// operations are scoped to the owning user; categories belonging to other
// users are reported as not found.
type CategoryServicer interface {
	CreateCategory(userID uint, name string, parentID *uint) (*models.Category, error)
	GetCategoryTree(userID uint) ([]*CategoryNode, error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	UpdateCategory(userID, categoryID uint, name *string, parentID optional.Field[uint]) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
	GetOrCreateDefault(userID uint) (*models.Category, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
// All set filters apply conjunctively.
type TransactionFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID *uint
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	Title      string
}

// TransactionUpdate holds the partial-update payload for a transaction. Nil
// pointers leave the field untouched; CategoryID distinguishes "absent" from
// "explicitly null" because a null category reassigns the transaction to the
// user's default category.
type TransactionUpdate struct {
	Amount     *decimal.Decimal
	Title      *string
	Notes      *string
	Date       *time.Time
	CategoryID optional.Field[uint]
}

// TransactionServicer defines the contract for the transaction ledger.
type TransactionServicer interface {
	CreateTransaction(userID uint, amount decimal.Decimal, title string, categoryID *uint, date *time.Time, notes string) (*models.Transaction, error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, update TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetCategoryTransactions(userID, categoryID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	GetUserBalance(userID uint) (decimal.Decimal, error)
}

// LibraryServicer defines the contract for library record management.
type LibraryServicer interface {
	CreateLibrary(userID uint, name, city string, bookCount, visitorCount int) (*models.Library, error)
	GetUserLibraries(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Library], error)
	GetLibraryByID(userID, libraryID uint) (*models.Library, error)
	UpdateLibrary(userID, libraryID uint, name, city *string, bookCount, visitorCount *int) (*models.Library, error)
	DeleteLibrary(userID, libraryID uint) error
}
