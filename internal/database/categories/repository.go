// Package categories provides database operations for book categories.
package categories

import (
	"errors"

	"gorm.io/gorm"

	"librarium/internal/entities"
)

var (
	ErrNotFound  = errors.New("category not found")
	ErrNameTaken = errors.New("category already exists with this name")
	ErrInUse     = errors.New("category has active books")
)

// Repository handles all category database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new categories repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new category, rejecting duplicate names.
func (r *Repository) Create(category *entities.Category) error {
	var existing entities.Category
	err := r.db.Where("name = ?", category.Name).First(&existing).Error
	if err == nil {
		return ErrNameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	category.IsActive = true
	return r.db.Create(category).Error
}

// GetAll lists active categories.
func (r *Repository) GetAll() ([]entities.Category, error) {
	var categories []entities.Category
	err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&categories).Error
	return categories, err
}

// GetByID retrieves an active category by ID.
func (r *Repository) GetByID(id string) (*entities.Category, error) {
	var category entities.Category
	err := r.db.Where("id = ? AND is_active = ?", id, true).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Update persists changes to a category.
func (r *Repository) Update(category *entities.Category) error {
	return r.db.Save(category).Error
}

// Deactivate soft-deletes a category. Categories still referenced by
// active books are refused.
func (r *Repository) Deactivate(id string) error {
	category, err := r.GetByID(id)
	if err != nil {
		return err
	}

	var books int64
	err = r.db.Model(&entities.Book{}).
		Where("category_id = ? AND is_active = ?", id, true).
		Count(&books).Error
	if err != nil {
		return err
	}
	if books > 0 {
		return ErrInUse
	}

	category.IsActive = false
	return r.db.Save(category).Error
}
