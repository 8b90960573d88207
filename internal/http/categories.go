package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"librarium/internal/database/categories"
	"librarium/internal/entities"
)

// CategoryStore defines database operations for category management.
type CategoryStore interface {
	Create(category *entities.Category) error
	GetAll() ([]entities.Category, error)
	GetByID(id string) (*entities.Category, error)
	Update(category *entities.Category) error
	Deactivate(id string) error
}

type CategoriesController struct {
	store CategoryStore
}

func NewCategoriesController(store CategoryStore) *CategoriesController {
	return &CategoriesController{store: store}
}

// Create adds a new category
// POST /categories
func (cc *CategoriesController) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	category := &entities.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := cc.store.Create(category); err != nil {
		if errors.Is(err, categories.ErrNameTaken) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "create category")
		return
	}

	respondCreated(c, category)
}

// List returns all active categories
// GET /categories
func (cc *CategoriesController) List(c *gin.Context) {
	result, err := cc.store.GetAll()
	if err != nil {
		respondInternalError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetOne returns a category by ID
// GET /categories/:id
func (cc *CategoriesController) GetOne(c *gin.Context) {
	category, err := cc.store.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, categories.ErrNotFound) {
			respondNotFound(c, "category")
			return
		}
		respondInternalError(c, err, "get category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// Update changes a category's name and description
// PUT /categories/:id
func (cc *CategoriesController) Update(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	category, err := cc.store.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, categories.ErrNotFound) {
			respondNotFound(c, "category")
			return
		}
		respondInternalError(c, err, "get category")
		return
	}

	category.Name = req.Name
	category.Description = req.Description

	if err := cc.store.Update(category); err != nil {
		respondInternalError(c, err, "update category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// Delete deactivates a category
// DELETE /categories/:id
func (cc *CategoriesController) Delete(c *gin.Context) {
	err := cc.store.Deactivate(c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, categories.ErrNotFound):
			respondNotFound(c, "category")
		case errors.Is(err, categories.ErrInUse):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "delete category")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
