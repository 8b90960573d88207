package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"librarium/internal/database/books"
	"librarium/internal/database/categories"
	"librarium/internal/entities"
)

// BookStore defines database operations for catalog management.
type BookStore interface {
	Create(book *entities.Book) error
	List(filter books.Filter) ([]entities.Book, error)
	GetByID(id string) (*entities.Book, error)
	Update(book *entities.Book) error
	SetQuantity(book *entities.Book, quantity int)
	Deactivate(id string) error
}

type BooksController struct {
	store      BookStore
	categories CategoryStore
}

func NewBooksController(store BookStore, categoryStore CategoryStore) *BooksController {
	return &BooksController{store: store, categories: categoryStore}
}

// Create adds a new book to the catalog
// POST /books
func (bc *BooksController) Create(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required"`
		Author      string `json:"author" binding:"required"`
		ISBN        string `json:"isbn" binding:"required"`
		Description string `json:"description"`
		ImageURL    string `json:"image_url"`
		Quantity    int    `json:"quantity"`
		CategoryID  string `json:"category_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title, author, isbn and category_id are required")
		return
	}
	if req.Quantity < 0 {
		respondBadRequest(c, "quantity cannot be negative")
		return
	}

	if _, err := bc.categories.GetByID(req.CategoryID); err != nil {
		if errors.Is(err, categories.ErrNotFound) {
			respondNotFound(c, "category")
			return
		}
		respondInternalError(c, err, "get category")
		return
	}

	book := &entities.Book{
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Quantity:    req.Quantity,
		CategoryID:  req.CategoryID,
	}
	if err := bc.store.Create(book); err != nil {
		if errors.Is(err, books.ErrISBNTaken) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "create book")
		return
	}

	respondCreated(c, book)
}

// List returns active books, optionally filtered by a title substring
// and a category
// GET /books?search=&category=
func (bc *BooksController) List(c *gin.Context) {
	filter := books.Filter{
		Search:     c.Query("search"),
		CategoryID: c.Query("category"),
	}

	result, err := bc.store.List(filter)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetOne returns a book with its category and reviews
// GET /books/:id
func (bc *BooksController) GetOne(c *gin.Context) {
	book, err := bc.store.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, books.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// Update partially updates a book. A quantity change shifts the
// available count by the same delta.
// PUT /books/:id
func (bc *BooksController) Update(c *gin.Context) {
	var req struct {
		Title       string `json:"title"`
		Author      string `json:"author"`
		Description string `json:"description"`
		ImageURL    string `json:"image_url"`
		Quantity    *int   `json:"quantity"`
		CategoryID  string `json:"category_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book, err := bc.store.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, books.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	if req.Title != "" {
		book.Title = req.Title
	}
	if req.Author != "" {
		book.Author = req.Author
	}
	if req.Description != "" {
		book.Description = req.Description
	}
	if req.ImageURL != "" {
		book.ImageURL = req.ImageURL
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			respondBadRequest(c, "quantity cannot be negative")
			return
		}
		bc.store.SetQuantity(book, *req.Quantity)
	}
	if req.CategoryID != "" {
		if _, err := bc.categories.GetByID(req.CategoryID); err != nil {
			if errors.Is(err, categories.ErrNotFound) {
				respondNotFound(c, "category")
				return
			}
			respondInternalError(c, err, "get category")
			return
		}
		book.CategoryID = req.CategoryID
	}

	if err := bc.store.Update(book); err != nil {
		respondInternalError(c, err, "update book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// Delete deactivates a book
// DELETE /books/:id
func (bc *BooksController) Delete(c *gin.Context) {
	err := bc.store.Deactivate(c.Param("id"))
	if err != nil {
		if errors.Is(err, books.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "delete book")
		return
	}
	c.Status(http.StatusNoContent)
}
