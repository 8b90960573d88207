// Package reviews provides database operations for book reviews.
package reviews

import (
	"errors"

	"gorm.io/gorm"

	"librarium/internal/entities"
)

// ErrNotFound is returned when a review does not exist or does not
// belong to the requesting user.
var ErrNotFound = errors.New("review not found")

// Repository handles all review database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reviews repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new review.
func (r *Repository) Create(review *entities.Review) error {
	review.IsActive = true
	return r.db.Create(review).Error
}

// List returns active reviews, newest first, optionally filtered by book.
func (r *Repository) List(bookID string) ([]entities.Review, error) {
	query := r.db.Preload("User").Preload("Book").Where("is_active = ?", true)
	if bookID != "" {
		query = query.Where("book_id = ?", bookID)
	}

	var reviews []entities.Review
	err := query.Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

// ListForUser returns a user's active reviews with books, newest first.
func (r *Repository) ListForUser(userID string) ([]entities.Review, error) {
	var reviews []entities.Review
	err := r.db.Preload("Book").
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

// GetOwned retrieves an active review only if it belongs to the user.
// A review owned by someone else is indistinguishable from a missing one.
func (r *Repository) GetOwned(id, userID string) (*entities.Review, error) {
	var review entities.Review
	err := r.db.Where("id = ? AND user_id = ? AND is_active = ?", id, userID, true).
		First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Update persists changes to a review.
func (r *Repository) Update(review *entities.Review) error {
	return r.db.Save(review).Error
}

// Deactivate soft-deletes a user's review.
func (r *Repository) Deactivate(id, userID string) error {
	review, err := r.GetOwned(id, userID)
	if err != nil {
		return err
	}
	review.IsActive = false
	return r.db.Save(review).Error
}
