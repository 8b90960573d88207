// Package books provides database operations for the book catalog.
package books

import (
	"errors"

	"gorm.io/gorm"

	"librarium/internal/entities"
)

var (
	ErrNotFound  = errors.New("book not found")
	ErrISBNTaken = errors.New("book already exists with this ISBN")
)

// Filter enumerates the supported list predicates explicitly, replacing
// the loose key-value maps of older iterations of this API.
type Filter struct {
	Search     string // case-insensitive substring match on title
	CategoryID string // equality match on category
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new book, rejecting duplicate ISBNs. Available
// quantity starts equal to the total quantity.
func (r *Repository) Create(book *entities.Book) error {
	var existing entities.Book
	err := r.db.Where("isbn = ?", book.ISBN).First(&existing).Error
	if err == nil {
		return ErrISBNTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	book.AvailableQuantity = book.Quantity
	book.IsActive = true
	return r.db.Create(book).Error
}

// List returns active books matching the filter.
func (r *Repository) List(filter Filter) ([]entities.Book, error) {
	query := r.db.Preload("Category").Where("is_active = ?", true)

	if filter.Search != "" {
		query = query.Where("LOWER(title) LIKE LOWER(?)", "%"+filter.Search+"%")
	}
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}

	var books []entities.Book
	err := query.Order("title ASC").Find(&books).Error
	return books, err
}

// GetByID retrieves an active book with its category and active reviews.
func (r *Repository) GetByID(id string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Category").
		Preload("Reviews", "is_active = ?", true).
		Where("id = ? AND is_active = ?", id, true).
		First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Update persists changes to a book.
func (r *Repository) Update(book *entities.Book) error {
	return r.db.Save(book).Error
}

// SetQuantity changes the total owned copies and shifts the available
// count by the same delta, clamped to [0, quantity]. Open loans are
// untouched, so shrinking below the number of copies out on loan floors
// available at zero.
func (r *Repository) SetQuantity(book *entities.Book, quantity int) {
	delta := quantity - book.Quantity
	book.Quantity = quantity

	available := book.AvailableQuantity + delta
	if available < 0 {
		available = 0
	}
	if available > quantity {
		available = quantity
	}
	book.AvailableQuantity = available
}

// Deactivate soft-deletes a book.
func (r *Repository) Deactivate(id string) error {
	book, err := r.GetByID(id)
	if err != nil {
		return err
	}
	book.IsActive = false
	return r.db.Save(book).Error
}
