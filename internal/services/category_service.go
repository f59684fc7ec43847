package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/kovalsofiia/finance-tracker/internal/errors"
	"github.com/kovalsofiia/finance-tracker/internal/models"
	"github.com/kovalsofiia/finance-tracker/internal/optional"
)

// categoryService is the category tree engine. It enforces the structural
// invariants the database cannot express declaratively: per-level sibling
// uniqueness, an acyclic parent chain, and the protected default category.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new category, optionally under a parent owned by
// the same user.
func (s *categoryService) CreateCategory(userID uint, name string, parentID *uint) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	if parentID != nil {
		if _, err := s.GetCategoryByID(userID, *parentID); err != nil {
			if errors.Is(err, apperrors.ErrCategoryNotFound) {
				return nil, apperrors.WithMessage(apperrors.ErrCategoryNotFound, "parent category not found")
			}
			return nil, err
		}
	}

	taken, err := s.siblingNameTaken(userID, parentID, name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrDuplicateCategory
	}

	category := &models.Category{
		UserID:   userID,
		Name:     name,
		ParentID: parentID,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// GetCategoryByID retrieves a category scoped to the given user. A category
// owned by another user is indistinguishable from a missing one.
func (s *categoryService) GetCategoryByID(userID, categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// GetCategoryTree materializes the user's full category forest: every root
// category with its children populated recursively and each node carrying its
// own transactions ordered by date descending. The tree is rebuilt from two
// bulk queries and an id index on every call; nothing recursive is stored.
func (s *categoryService) GetCategoryTree(userID uint) ([]*CategoryNode, error) {
	var categories []models.Category
	if err := s.db.Where("user_id = ?", userID).Order("id").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := s.db.Where("user_id = ?", userID).Order("date DESC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	nodes := make(map[uint]*CategoryNode, len(categories))
	for i := range categories {
		nodes[categories[i].ID] = &CategoryNode{
			Category:     categories[i],
			Children:     []*CategoryNode{},
			Transactions: []models.Transaction{},
		}
	}

	// The query is ordered by date DESC, so appending keeps per-node order.
	for _, tx := range transactions {
		if node, ok := nodes[tx.CategoryID]; ok {
			node.Transactions = append(node.Transactions, tx)
		}
	}

	roots := []*CategoryNode{}
	for i := range categories {
		node := nodes[categories[i].ID]
		if categories[i].ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*categories[i].ParentID]
		if !ok {
			// Parent missing from the scoped set; surface the node at the
			// root rather than dropping its subtree.
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots, nil
}

// UpdateCategory applies a partial update: a nil name leaves the name alone,
// and the tri-state parentID distinguishes "keep parent" (unset) from "move
// to root" (null or zero) from "reparent" (a concrete id). Reparenting is
// rejected when it would make the category its own ancestor.
func (s *categoryService) UpdateCategory(userID, categoryID uint, name *string, parentID optional.Field[uint]) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}
	if category.IsDefault() {
		return nil, apperrors.ErrProtectedCategory
	}

	newName := category.Name
	if name != nil {
		newName = strings.TrimSpace(*name)
		if newName == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
		}
	}

	newParent := category.ParentID
	if parentID.Set {
		if parentID.Value == nil || *parentID.Value == 0 {
			newParent = nil
		} else {
			target := *parentID.Value
			if target == categoryID {
				return nil, apperrors.ErrSelfParentCategory
			}
			if _, err := s.GetCategoryByID(userID, target); err != nil {
				if errors.Is(err, apperrors.ErrCategoryNotFound) {
					return nil, apperrors.WithMessage(apperrors.ErrCategoryNotFound, "parent category not found")
				}
				return nil, err
			}
			cycle, err := s.wouldCreateCycle(userID, categoryID, target)
			if err != nil {
				return nil, err
			}
			if cycle {
				return nil, apperrors.ErrCategoryCycle
			}
			newParent = &target
		}
	}

	if newName != category.Name || !parentEqual(newParent, category.ParentID) {
		taken, err := s.siblingNameTaken(userID, newParent, newName, categoryID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.ErrDuplicateCategory
		}
	}

	updates := map[string]interface{}{}
	if name != nil {
		updates["name"] = newName
	}
	if parentID.Set {
		updates["parent_id"] = newParent
	}
	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return category, nil
}

// DeleteCategory removes a leaf category with no transactions. Deletion is
// rejected outright when the category still has transactions or children, or
// when it is the protected default.
func (s *categoryService) DeleteCategory(userID, categoryID uint) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}
	if category.IsDefault() {
		return apperrors.ErrProtectedCategory
	}

	var txCount int64
	if err := s.db.Model(&models.Transaction{}).Where("category_id = ?", categoryID).Count(&txCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if txCount > 0 {
		return apperrors.ErrCategoryInUse
	}

	var childCount int64
	if err := s.db.Model(&models.Category{}).Where("parent_id = ?", categoryID).Count(&childCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if childCount > 0 {
		return apperrors.ErrCategoryHasChildren
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetOrCreateDefault idempotently returns the user's root "Uncategorized"
// category, creating it if absent. Two concurrent calls may both attempt the
// create; the composite unique index turns the loser's insert into an error
// that is retried as a read.
func (s *categoryService) GetOrCreateDefault(userID uint) (*models.Category, error) {
	find := func() (*models.Category, error) {
		var category models.Category
		err := s.db.Where("user_id = ? AND parent_id IS NULL AND name = ?", userID, models.DefaultCategoryName).
			First(&category).Error
		if err != nil {
			return nil, err
		}
		return &category, nil
	}

	category, err := find()
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	created := &models.Category{UserID: userID, Name: models.DefaultCategoryName}
	if createErr := s.db.Create(created).Error; createErr != nil {
		// Lost the race: another request created it between our read and write.
		if category, err = find(); err == nil {
			return category, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, createErr)
	}
	return created, nil
}

// siblingNameTaken reports whether a category named name already exists at
// the (user, parent) level, excluding excludeID (zero excludes nothing). The
// root level is the distinct "parent IS NULL" group.
func (s *categoryService) siblingNameTaken(userID uint, parentID *uint, name string, excludeID uint) (bool, error) {
	q := s.db.Model(&models.Category{}).Where("user_id = ? AND name = ?", userID, name)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// wouldCreateCycle walks the proposed parent's ancestor chain upward and
// reports whether categoryID appears in it. The walk terminates because the
// pre-mutation tree is acyclic, bounding the loop by tree depth.
func (s *categoryService) wouldCreateCycle(userID, categoryID, newParentID uint) (bool, error) {
	current := &newParentID
	for current != nil {
		if *current == categoryID {
			return true, nil
		}
		var row struct{ ParentID *uint }
		err := s.db.Model(&models.Category{}).
			Select("parent_id").
			Where("id = ? AND user_id = ?", *current, userID).
			Take(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		current = row.ParentID
	}
	return false, nil
}

func parentEqual(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
