package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/kovalsofiia/finance-tracker/internal/errors"
	"github.com/kovalsofiia/finance-tracker/internal/models"
	"github.com/kovalsofiia/finance-tracker/internal/optional"
	"github.com/kovalsofiia/finance-tracker/internal/pagination"
	"github.com/kovalsofiia/finance-tracker/internal/services"
)

// --- mock category service ---

type mockCategoryService struct {
	createCategoryFn     func(userID uint, name string, parentID *uint) (*models.Category, error)
	getCategoryTreeFn    func(userID uint) ([]*services.CategoryNode, error)
	getCategoryByIDFn    func(userID, categoryID uint) (*models.Category, error)
	updateCategoryFn     func(userID, categoryID uint, name *string, parentID optional.Field[uint]) (*models.Category, error)
	deleteCategoryFn     func(userID, categoryID uint) error
	getOrCreateDefaultFn func(userID uint) (*models.Category, error)
}

func (m *mockCategoryService) CreateCategory(userID uint, name string, parentID *uint) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(userID, name, parentID)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) GetCategoryTree(userID uint) ([]*services.CategoryNode, error) {
	if m.getCategoryTreeFn != nil {
		return m.getCategoryTreeFn(userID)
	}
	return []*services.CategoryNode{}, nil
}

func (m *mockCategoryService) GetCategoryByID(userID, categoryID uint) (*models.Category, error) {
	if m.getCategoryByIDFn != nil {
		return m.getCategoryByIDFn(userID, categoryID)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) UpdateCategory(userID, categoryID uint, name *string, parentID optional.Field[uint]) (*models.Category, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(userID, categoryID, name, parentID)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) DeleteCategory(userID, categoryID uint) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(userID, categoryID)
	}
	return nil
}

func (m *mockCategoryService) GetOrCreateDefault(userID uint) (*models.Category, error) {
	if m.getOrCreateDefaultFn != nil {
		return m.getOrCreateDefaultFn(userID)
	}
	return &models.Category{Name: models.DefaultCategoryName}, nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

// --- mock transaction service ---

type mockTransactionService struct {
	createTransactionFn       func(userID uint, amount decimal.Decimal, title string, categoryID *uint, date *time.Time, notes string) (*models.Transaction, error)
	getTransactionByIDFn      func(userID, transactionID uint) (*models.Transaction, error)
	updateTransactionFn       func(userID, transactionID uint, update services.TransactionUpdate) (*models.Transaction, error)
	deleteTransactionFn       func(userID, transactionID uint) error
	getUserTransactionsFn     func(userID uint, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	getCategoryTransactionsFn func(userID, categoryID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	getUserBalanceFn          func(userID uint) (decimal.Decimal, error)
}

func (m *mockTransactionService) CreateTransaction(userID uint, amount decimal.Decimal, title string, categoryID *uint, date *time.Time, notes string) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(userID, amount, title, categoryID, date, notes)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(userID, transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) UpdateTransaction(userID, transactionID uint, update services.TransactionUpdate) (*models.Transaction, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(userID, transactionID, update)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) DeleteTransaction(userID, transactionID uint) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(userID, transactionID)
	}
	return nil
}

func (m *mockTransactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getUserTransactionsFn != nil {
		return m.getUserTransactionsFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetCategoryTransactions(userID, categoryID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	if m.getCategoryTransactionsFn != nil {
		return m.getCategoryTransactionsFn(userID, categoryID, page)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetUserBalance(userID uint) (decimal.Decimal, error) {
	if m.getUserBalanceFn != nil {
		return m.getUserBalanceFn(userID)
	}
	return decimal.Zero, nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func setupCategoryRouter(catSvc services.CategoryServicer, txSvc services.TransactionServicer) *gin.Engine {
	handler := NewCategoryHandler(catSvc, txSvc)
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/categories", handler.CreateCategory)
	auth.GET("/categories", handler.GetCategoryTree)
	auth.GET("/categories/:id", handler.GetCategoryByID)
	auth.PUT("/categories/:id", handler.UpdateCategory)
	auth.DELETE("/categories/:id", handler.DeleteCategory)
	auth.GET("/categories/:id/transactions", handler.GetCategoryTransactions)
	return r
}

func TestCategoryHandler_CreateCategory(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		catSvc := &mockCategoryService{
			createCategoryFn: func(_ uint, name string, parentID *uint) (*models.Category, error) {
				return &models.Category{Base: models.Base{ID: 1}, Name: name, ParentID: parentID}, nil
			},
		}
		r := setupCategoryRouter(catSvc, &mockTransactionService{})

		rec := doRequest(r, "POST", "/categories", `{"name":"Food"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		cat := parseJSON(t, rec)["category"].(map[string]interface{})
		if cat["name"] != "Food" {
			t.Errorf("expected Food, got %v", cat["name"])
		}
	})

	t.Run("returns 400 on blank name", func(t *testing.T) {
		r := setupCategoryRouter(&mockCategoryService{}, &mockTransactionService{})

		rec := doRequest(r, "POST", "/categories", `{"name":"   "}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 on duplicate sibling", func(t *testing.T) {
		catSvc := &mockCategoryService{
			createCategoryFn: func(_ uint, _ string, _ *uint) (*models.Category, error) {
				return nil, apperrors.ErrDuplicateCategory
			},
		}
		r := setupCategoryRouter(catSvc, &mockTransactionService{})

		rec := doRequest(r, "POST", "/categories", `{"name":"Food"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_CATEGORY")
	})
}

func TestCategoryHandler_UpdateCategory(t *testing.T) {
	t.Run("omitted parent_id stays unset", func(t *testing.T) {
		var gotParent optional.Field[uint]
		catSvc := &mockCategoryService{
			updateCategoryFn: func(_, _ uint, _ *string, parentID optional.Field[uint]) (*models.Category, error) {
				gotParent = parentID
				return &models.Category{}, nil
			},
		}
		r := setupCategoryRouter(catSvc, &mockTransactionService{})

		rec := doRequest(r, "PUT", "/categories/5", `{"name":"Renamed"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotParent.Set {
			t.Error("expected parent_id to be unset when omitted from the payload")
		}
	})

	t.Run("null parent_id decodes as explicit null", func(t *testing.T) {
		var gotParent optional.Field[uint]
		catSvc := &mockCategoryService{
			updateCategoryFn: func(_, _ uint, _ *string, parentID optional.Field[uint]) (*models.Category, error) {
				gotParent = parentID
				return &models.Category{}, nil
			},
		}
		r := setupCategoryRouter(catSvc, &mockTransactionService{})

		rec := doRequest(r, "PUT", "/categories/5", `{"parent_id":null}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !gotParent.Set || gotParent.Value != nil {
			t.Errorf("expected explicit null, got Set=%v Value=%v", gotParent.Set, gotParent.Value)
		}
	})

	t.Run("concrete parent_id decodes as value", func(t *testing.T) {
		var gotParent optional.Field[uint]
		catSvc := &mockCategoryService{
			updateCategoryFn: func(_, _ uint, _ *string, parentID optional.Field[uint]) (*models.Category, error) {
				gotParent = parentID
				return &models.Category{}, nil
			},
		}
		r := setupCategoryRouter(catSvc, &mockTransactionService{})

		rec := doRequest(r, "PUT", "/categories/5", `{"parent_id":9}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !gotParent.Set || gotParent.Value == nil || *gotParent.Value != 9 {
			t.Errorf("expected parent 9, got Set=%v Value=%v", gotParent.Set, gotParent.Value)
		}
	})

	t.Run("maps cycle error to 400", func(t *testing.T) {
		catSvc := &mockCategoryService{
			updateCategoryFn: func(_, _ uint, _ *string, _ optional.Field[uint]) (*models.Category, error) {
				return nil, apperrors.ErrCategoryCycle
			},
		}
		r := setupCategoryRouter(catSvc, &mockTransactionService{})

		rec := doRequest(r, "PUT", "/categories/5", `{"parent_id":9}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_CYCLE")
	})

	t.Run("maps protected category error to 400", func(t *testing.T) {
		catSvc := &mockCategoryService{
			updateCategoryFn: func(_, _ uint, _ *string, _ optional.Field[uint]) (*models.Category, error) {
				return nil, apperrors.ErrProtectedCategory
			},
		}
		r := setupCategoryRouter(catSvc, &mockTransactionService{})

		rec := doRequest(r, "PUT", "/categories/5", `{"name":"Nope"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PROTECTED_CATEGORY")
	})
}

func TestCategoryHandler_DeleteCategory(t *testing.T) {
	t.Run("returns 204 on success", func(t *testing.T) {
		r := setupCategoryRouter(&mockCategoryService{}, &mockTransactionService{})

		rec := doRequest(r, "DELETE", "/categories/5", "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("maps in-use error to 400", func(t *testing.T) {
		catSvc := &mockCategoryService{
			deleteCategoryFn: func(_, _ uint) error {
				return apperrors.ErrCategoryInUse
			},
		}
		r := setupCategoryRouter(catSvc, &mockTransactionService{})

		rec := doRequest(r, "DELETE", "/categories/5", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_IN_USE")
	})

	t.Run("returns 400 on non-numeric id", func(t *testing.T) {
		r := setupCategoryRouter(&mockCategoryService{}, &mockTransactionService{})

		rec := doRequest(r, "DELETE", "/categories/abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_GetCategoryTransactions(t *testing.T) {
	t.Run("returns 404 when category is missing", func(t *testing.T) {
		catSvc := &mockCategoryService{
			getCategoryByIDFn: func(_, _ uint) (*models.Category, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		r := setupCategoryRouter(catSvc, &mockTransactionService{})

		rec := doRequest(r, "GET", "/categories/99/transactions", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_NOT_FOUND")
	})

	t.Run("returns page when category exists", func(t *testing.T) {
		txSvc := &mockTransactionService{
			getCategoryTransactionsFn: func(_, _ uint, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
				resp := pagination.NewPageResponse([]models.Transaction{
					{Base: models.Base{ID: 1}, Amount: decimal.NewFromInt(10)},
				}, page.Page, page.PageSize, 1)
				return &resp, nil
			},
		}
		r := setupCategoryRouter(&mockCategoryService{}, txSvc)

		rec := doRequest(r, "GET", "/categories/5/transactions", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["total_items"] != float64(1) {
			t.Errorf("expected 1 total item, got %v", result["total_items"])
		}
	})
}
