package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/kovalsofiia/finance-tracker/internal/errors"
	"github.com/kovalsofiia/finance-tracker/internal/models"
	"github.com/kovalsofiia/finance-tracker/internal/pagination"
)

// libraryService handles library-record business logic.
type libraryService struct {
	db *gorm.DB
}

// NewLibraryService creates a new LibraryServicer.
func NewLibraryService(db *gorm.DB) LibraryServicer {
	return &libraryService{db: db}
}

// CreateLibrary creates a library record for the user.
func (s *libraryService) CreateLibrary(userID uint, name, city string, bookCount, visitorCount int) (*models.Library, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "library name is required")
	}
	if bookCount < 0 || visitorCount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "counts cannot be negative")
	}

	library := &models.Library{
		UserID:       userID,
		Name:         strings.TrimSpace(name),
		City:         city,
		BookCount:    bookCount,
		VisitorCount: visitorCount,
	}
	if err := s.db.Create(library).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return library, nil
}

// GetUserLibraries retrieves a paginated list of the user's library records.
func (s *libraryService) GetUserLibraries(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Library], error) {
	page.Defaults()

	base := s.db.Model(&models.Library{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var libraries []models.Library
	if err := base.Scopes(pagination.Paginate(page)).Order("id").Find(&libraries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(libraries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetLibraryByID retrieves a library record scoped to the given user.
func (s *libraryService) GetLibraryByID(userID, libraryID uint) (*models.Library, error) {
	var library models.Library
	if err := s.db.Where("id = ? AND user_id = ?", libraryID, userID).First(&library).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLibraryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &library, nil
}

// UpdateLibrary applies a partial update to a library record.
func (s *libraryService) UpdateLibrary(userID, libraryID uint, name, city *string, bookCount, visitorCount *int) (*models.Library, error) {
	library, err := s.GetLibraryByID(userID, libraryID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if name != nil {
		if strings.TrimSpace(*name) == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "library name is required")
		}
		updates["name"] = strings.TrimSpace(*name)
	}
	if city != nil {
		updates["city"] = *city
	}
	if bookCount != nil {
		if *bookCount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "counts cannot be negative")
		}
		updates["book_count"] = *bookCount
	}
	if visitorCount != nil {
		if *visitorCount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "counts cannot be negative")
		}
		updates["visitor_count"] = *visitorCount
	}

	if len(updates) > 0 {
		if err := s.db.Model(library).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return library, nil
}

// DeleteLibrary removes a library record scoped to the given user.
func (s *libraryService) DeleteLibrary(userID, libraryID uint) error {
	library, err := s.GetLibraryByID(userID, libraryID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(library).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
