package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kovalsofiia/finance-tracker/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Username: fmt.Sprintf("testuser%d", nextID()),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a root-level category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint) *models.Category {
	t.Helper()
	return CreateTestCategoryWithName(t, db, userID, fmt.Sprintf("Test Category %d", nextID()))
}

// CreateTestCategoryWithName creates a root-level category with the given name.
func CreateTestCategoryWithName(t *testing.T, db *gorm.DB, userID uint, name string) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   name,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestChildCategory creates a category nested under the given parent.
func CreateTestChildCategory(t *testing.T, db *gorm.DB, userID, parentID uint) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID:   userID,
		Name:     fmt.Sprintf("Test Child %d", nextID()),
		ParentID: &parentID,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test child category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction with the given amount attached
// to the given category.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, categoryID uint, amount decimal.Decimal) *models.Transaction {
	t.Helper()

	transaction := &models.Transaction{
		UserID:     userID,
		CategoryID: categoryID,
		Title:      fmt.Sprintf("Test Transaction %d", nextID()),
		Amount:     amount,
		Date:       time.Now().UTC(),
	}
	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return transaction
}

// CreateTestLibrary creates a library record with unique name and fixed counts.
func CreateTestLibrary(t *testing.T, db *gorm.DB, userID uint) *models.Library {
	t.Helper()

	library := &models.Library{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Library %d", nextID()),
		City:         "Kyiv",
		BookCount:    1000,
		VisitorCount: 250,
	}
	if err := db.Create(library).Error; err != nil {
		t.Fatalf("failed to create test library: %v", err)
	}
	return library
}
