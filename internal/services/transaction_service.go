package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/kovalsofiia/finance-tracker/internal/errors"
	"github.com/kovalsofiia/finance-tracker/internal/models"
	"github.com/kovalsofiia/finance-tracker/internal/pagination"
)

// transactionService is the ledger. It depends on the category service to
// resolve every write to a concrete category owned by the same user.
type transactionService struct {
	db              *gorm.DB
	categoryService CategoryServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, categoryService CategoryServicer) TransactionServicer {
	return &transactionService{db: db, categoryService: categoryService}
}

// CreateTransaction records a new signed-amount entry. A supplied category
// must belong to the user; an omitted one resolves to the default category.
// An omitted date defaults to the current UTC time.
func (s *transactionService) CreateTransaction(
	userID uint,
	amount decimal.Decimal,
	title string,
	categoryID *uint,
	date *time.Time,
	notes string,
) (*models.Transaction, error) {
	resolvedCategory, err := s.resolveCategory(userID, categoryID)
	if err != nil {
		return nil, err
	}

	txDate := time.Now().UTC()
	if date != nil {
		txDate = *date
	}

	transaction := &models.Transaction{
		UserID:     userID,
		CategoryID: resolvedCategory,
		Title:      title,
		Amount:     amount,
		Date:       txDate,
		Notes:      notes,
	}
	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// GetTransactionByID retrieves a transaction scoped to the given user.
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction applies a partial update. Only supplied fields change; an
// explicitly null category reassigns the transaction to the user's default
// category, while an absent one keeps the current reference.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, update TransactionUpdate) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if update.Amount != nil {
		updates["amount"] = *update.Amount
	}
	if update.Title != nil {
		updates["title"] = *update.Title
	}
	if update.Notes != nil {
		updates["notes"] = *update.Notes
	}
	if update.Date != nil {
		updates["date"] = *update.Date
	}
	if update.CategoryID.Set {
		resolved, err := s.resolveCategory(userID, update.CategoryID.Value)
		if err != nil {
			return nil, err
		}
		updates["category_id"] = resolved
	}

	if len(updates) > 0 {
		if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return transaction, nil
}

// DeleteTransaction removes a transaction scoped to the given user.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's
// transactions ordered by date descending.
func (s *transactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryTransactions retrieves a page of transactions for one category.
// A category not owned by the user yields an empty page, not an error; the
// boundary performs its own existence check when it wants a 404.
func (s *transactionService) GetCategoryTransactions(userID, categoryID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	if _, err := s.categoryService.GetCategoryByID(userID, categoryID); err != nil {
		if errors.Is(err, apperrors.ErrCategoryNotFound) {
			result := pagination.NewPageResponse([]models.Transaction{}, page.Page, page.PageSize, 0)
			return &result, nil
		}
		return nil, err
	}

	base := s.db.Model(&models.Transaction{}).Where("user_id = ? AND category_id = ?", userID, categoryID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetUserBalance sums the signed amounts of all the user's transactions.
// A user with no transactions has a balance of zero, not an error.
func (s *transactionService) GetUserBalance(userID uint) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.db.Model(&models.Transaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&balance).Error
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return balance, nil
}

// resolveCategory maps an optional category reference to a concrete category
// ID: nil falls back to the user's default category, a concrete value must
// resolve within the user's ownership scope.
func (s *transactionService) resolveCategory(userID uint, categoryID *uint) (uint, error) {
	if categoryID == nil {
		defaultCategory, err := s.categoryService.GetOrCreateDefault(userID)
		if err != nil {
			return 0, err
		}
		return defaultCategory.ID, nil
	}

	if _, err := s.categoryService.GetCategoryByID(userID, *categoryID); err != nil {
		if errors.Is(err, apperrors.ErrCategoryNotFound) {
			return 0, apperrors.ErrInvalidCategory
		}
		return 0, err
	}
	return *categoryID, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.StartDate != nil {
		q = q.Where("date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("date <= ?", *f.EndDate)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	if f.Title != "" {
		// LOWER+LIKE behaves the same on PostgreSQL and the sqlite test DB.
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(f.Title)+"%")
	}
	return q
}
