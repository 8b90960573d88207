package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"librarium/internal/database/books"
	"librarium/internal/database/reviews"
	"librarium/internal/entities"
)

// ReviewStore defines database operations for review management.
type ReviewStore interface {
	Create(review *entities.Review) error
	List(bookID string) ([]entities.Review, error)
	ListForUser(userID string) ([]entities.Review, error)
	GetOwned(id, userID string) (*entities.Review, error)
	Update(review *entities.Review) error
	Deactivate(id, userID string) error
}

type ReviewsController struct {
	store ReviewStore
	books BookStore
}

func NewReviewsController(store ReviewStore, bookStore BookStore) *ReviewsController {
	return &ReviewsController{store: store, books: bookStore}
}

// Create adds a review by the authenticated user
// POST /reviews
func (rc *ReviewsController) Create(c *gin.Context) {
	var req struct {
		BookID  string `json:"book_id" binding:"required"`
		Content string `json:"content" binding:"required"`
		Rating  int    `json:"rating" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "book_id, content and rating are required")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		respondBadRequest(c, "rating must be between 1 and 5")
		return
	}

	if _, err := rc.books.GetByID(req.BookID); err != nil {
		if errors.Is(err, books.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	review := &entities.Review{
		UserID:  GetUserID(c),
		BookID:  req.BookID,
		Content: req.Content,
		Rating:  req.Rating,
	}
	if err := rc.store.Create(review); err != nil {
		respondInternalError(c, err, "create review")
		return
	}

	respondCreated(c, review)
}

// List returns active reviews, optionally filtered by book
// GET /reviews?bookId=
func (rc *ReviewsController) List(c *gin.Context) {
	result, err := rc.store.List(c.Query("bookId"))
	if err != nil {
		respondInternalError(c, err, "list reviews")
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListOwn returns the authenticated user's reviews
// GET /reviews/user
func (rc *ReviewsController) ListOwn(c *gin.Context) {
	result, err := rc.store.ListForUser(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list user reviews")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Update changes the authenticated user's review
// PUT /reviews/:id
func (rc *ReviewsController) Update(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
		Rating  int    `json:"rating"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Rating != 0 && (req.Rating < 1 || req.Rating > 5) {
		respondBadRequest(c, "rating must be between 1 and 5")
		return
	}

	review, err := rc.store.GetOwned(c.Param("id"), GetUserID(c))
	if err != nil {
		if errors.Is(err, reviews.ErrNotFound) {
			respondNotFound(c, "review")
			return
		}
		respondInternalError(c, err, "get review")
		return
	}

	if req.Content != "" {
		review.Content = req.Content
	}
	if req.Rating != 0 {
		review.Rating = req.Rating
	}

	if err := rc.store.Update(review); err != nil {
		respondInternalError(c, err, "update review")
		return
	}
	c.JSON(http.StatusOK, review)
}

// Delete deactivates the authenticated user's review
// DELETE /reviews/:id
func (rc *ReviewsController) Delete(c *gin.Context) {
	err := rc.store.Deactivate(c.Param("id"), GetUserID(c))
	if err != nil {
		if errors.Is(err, reviews.ErrNotFound) {
			respondNotFound(c, "review")
			return
		}
		respondInternalError(c, err, "delete review")
		return
	}
	c.Status(http.StatusNoContent)
}
