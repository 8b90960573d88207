// Package users provides database operations for library members.
package users

import (
	"errors"

	"gorm.io/gorm"

	"librarium/internal/entities"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrEmailTaken   = errors.New("user already exists with this email")
	ErrHasOpenLoans = errors.New("user has open loans")
	ErrBookNotFound = errors.New("book not found")
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user, rejecting duplicate emails.
func (r *Repository) Create(user *entities.User) error {
	var existing entities.User
	err := r.db.Where("email = ?", user.Email).First(&existing).Error
	if err == nil {
		return ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	user.IsActive = true
	return r.db.Create(user).Error
}

// GetByID retrieves an active user by ID.
func (r *Repository) GetByID(id string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("id = ? AND is_active = ?", id, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves an active user by email.
func (r *Repository) GetByEmail(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("email = ? AND is_active = ?", email, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update persists changes to a user.
func (r *Repository) Update(user *entities.User) error {
	return r.db.Save(user).Error
}

// Deactivate soft-deletes a user. Users with open loans are refused so
// that loan history never points at a vanished borrower.
func (r *Repository) Deactivate(id string) error {
	user, err := r.GetByID(id)
	if err != nil {
		return err
	}

	var openLoans int64
	err = r.db.Model(&entities.Loan{}).
		Where("user_id = ? AND is_returned = ? AND is_active = ?", id, false, true).
		Count(&openLoans).Error
	if err != nil {
		return err
	}
	if openLoans > 0 {
		return ErrHasOpenLoans
	}

	user.IsActive = false
	return r.db.Save(user).Error
}

// AddFavorite associates a book with a user's favorites. Adding an
// already-favorited book is a no-op.
func (r *Repository) AddFavorite(userID, bookID string) error {
	user, err := r.GetByID(userID)
	if err != nil {
		return err
	}
	var book entities.Book
	err = r.db.Where("id = ? AND is_active = ?", bookID, true).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrBookNotFound
	}
	if err != nil {
		return err
	}
	return r.db.Model(user).Association("FavoriteBooks").Append(&book)
}

// RemoveFavorite removes a book from a user's favorites.
func (r *Repository) RemoveFavorite(userID, bookID string) error {
	user, err := r.GetByID(userID)
	if err != nil {
		return err
	}
	var book entities.Book
	err = r.db.First(&book, "id = ?", bookID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrBookNotFound
	}
	if err != nil {
		return err
	}
	return r.db.Model(user).Association("FavoriteBooks").Delete(&book)
}

// GetFavorites lists a user's favorite books.
func (r *Repository) GetFavorites(userID string) ([]entities.Book, error) {
	user, err := r.GetByID(userID)
	if err != nil {
		return nil, err
	}
	var books []entities.Book
	err = r.db.Model(user).Association("FavoriteBooks").Find(&books)
	return books, err
}
