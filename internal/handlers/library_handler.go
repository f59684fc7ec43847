package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kovalsofiia/finance-tracker/internal/errors"
	"github.com/kovalsofiia/finance-tracker/internal/pagination"
	"github.com/kovalsofiia/finance-tracker/internal/services"
)

// LibraryHandler handles library-record requests.
type LibraryHandler struct {
	libraryService services.LibraryServicer
}

// NewLibraryHandler creates a new LibraryHandler.
func NewLibraryHandler(libraryService services.LibraryServicer) *LibraryHandler {
	return &LibraryHandler{libraryService: libraryService}
}

// CreateLibraryRequest represents the request payload for creating a library record
type CreateLibraryRequest struct {
	Name         string `json:"name" binding:"required,notblank,max=255"`
	City         string `json:"city" binding:"max=255"`
	BookCount    int    `json:"book_count" binding:"min=0"`
	VisitorCount int    `json:"visitor_count" binding:"min=0"`
}

// UpdateLibraryRequest represents the request payload for updating a library
// record. Only supplied fields change.
type UpdateLibraryRequest struct {
	Name         *string `json:"name" binding:"omitempty,notblank,max=255"`
	City         *string `json:"city" binding:"omitempty,max=255"`
	BookCount    *int    `json:"book_count" binding:"omitempty,min=0"`
	VisitorCount *int    `json:"visitor_count" binding:"omitempty,min=0"`
}

// LibraryResponse represents a library record in the response
type LibraryResponse struct {
	ID           uint   `json:"id"`
	UserID       uint   `json:"user_id"`
	Name         string `json:"name"`
	City         string `json:"city,omitempty"`
	BookCount    int    `json:"book_count"`
	VisitorCount int    `json:"visitor_count"`
}

// CreateLibrary handles the creation of a new library record
// @Summary     Create a library record
// @Description Create a new library record for the authenticated user
// @Tags        libraries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateLibraryRequest true "Library details"
// @Success     201 {object} LibraryResponse "Library created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /libraries [post]
func (h *LibraryHandler) CreateLibrary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateLibraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	library, err := h.libraryService.CreateLibrary(userID, req.Name, req.City, req.BookCount, req.VisitorCount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"library": library})
}

// GetUserLibraries handles listing the user's library records
// @Summary     Get library records
// @Description Get a paginated list of the user's library records
// @Tags        libraries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Library] "Paginated library records"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /libraries [get]
func (h *LibraryHandler) GetUserLibraries(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.libraryService.GetUserLibraries(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetLibraryByID handles the retrieval of a specific library record
// @Summary     Get library record by ID
// @Description Get a specific library record by ID
// @Tags        libraries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Library ID"
// @Success     200 {object} LibraryResponse "Library details"
// @Failure     400 {object} ErrorResponse "Invalid library ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Library not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /libraries/{id} [get]
func (h *LibraryHandler) GetLibraryByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	libraryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	library, err := h.libraryService.GetLibraryByID(userID, libraryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"library": library})
}

// UpdateLibrary handles updating a library record
// @Summary     Update library record
// @Description Update a library record; only supplied fields change
// @Tags        libraries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                  true "Library ID"
// @Param       request body UpdateLibraryRequest true "Fields to update"
// @Success     200 {object} LibraryResponse "Updated library"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Library not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /libraries/{id} [put]
func (h *LibraryHandler) UpdateLibrary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	libraryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateLibraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	library, err := h.libraryService.UpdateLibrary(userID, libraryID, req.Name, req.City, req.BookCount, req.VisitorCount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"library": library})
}

// DeleteLibrary handles deleting a library record
// @Summary     Delete library record
// @Description Delete a library record by ID
// @Tags        libraries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Library ID"
// @Success     204 "Library deleted"
// @Failure     400 {object} ErrorResponse "Invalid library ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Library not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /libraries/{id} [delete]
func (h *LibraryHandler) DeleteLibrary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	libraryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.libraryService.DeleteLibrary(userID, libraryID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
