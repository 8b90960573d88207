package books

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"librarium/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	t.Helper()
	dbPath := "./test_books_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.Category{},
		&entities.Book{},
		&entities.Review{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func createCategory(t *testing.T, db *gorm.DB, name string) *entities.Category {
	t.Helper()
	category := &entities.Category{Name: name, IsActive: true}
	require.NoError(t, db.Create(category).Error)
	return category
}

func TestRepository_Create(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	category := createCategory(t, db, "Fiction")
	book := &entities.Book{
		Title:      "Effective Java",
		Author:     "Joshua Bloch",
		ISBN:       "978-0-13-468599-1",
		Quantity:   4,
		CategoryID: category.ID,
	}

	require.NoError(t, repo.Create(book))
	assert.NotEmpty(t, book.ID)
	assert.Equal(t, 4, book.AvailableQuantity, "available starts equal to quantity")
	assert.True(t, book.IsActive)
}

func TestRepository_Create_DuplicateISBN(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	category := createCategory(t, db, "Fiction")
	require.NoError(t, repo.Create(&entities.Book{
		Title: "Effective Java", Author: "Joshua Bloch",
		ISBN: "978-0-13-468599-1", Quantity: 1, CategoryID: category.ID,
	}))

	err := repo.Create(&entities.Book{
		Title: "Another Book", Author: "Someone Else",
		ISBN: "978-0-13-468599-1", Quantity: 2, CategoryID: category.ID,
	})
	assert.ErrorIs(t, err, ErrISBNTaken)

	// Catalog unchanged
	var count int64
	require.NoError(t, db.Model(&entities.Book{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRepository_List_Filters(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	fiction := createCategory(t, db, "Fiction")
	science := createCategory(t, db, "Science")

	require.NoError(t, repo.Create(&entities.Book{
		Title: "The Go Programming Language", Author: "Donovan", ISBN: "isbn-1",
		Quantity: 1, CategoryID: science.ID,
	}))
	require.NoError(t, repo.Create(&entities.Book{
		Title: "Going Postal", Author: "Pratchett", ISBN: "isbn-2",
		Quantity: 1, CategoryID: fiction.ID,
	}))
	require.NoError(t, repo.Create(&entities.Book{
		Title: "Dune", Author: "Herbert", ISBN: "isbn-3",
		Quantity: 1, CategoryID: fiction.ID,
	}))

	// Case-insensitive substring on title
	books, err := repo.List(Filter{Search: "go"})
	require.NoError(t, err)
	assert.Len(t, books, 2)

	// Category equality
	books, err = repo.List(Filter{CategoryID: fiction.ID})
	require.NoError(t, err)
	assert.Len(t, books, 2)

	// Combined
	books, err = repo.List(Filter{Search: "GOING", CategoryID: fiction.ID})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Going Postal", books[0].Title)
	assert.Equal(t, fiction.ID, books[0].Category.ID)

	// No filter lists everything active
	books, err = repo.List(Filter{})
	require.NoError(t, err)
	assert.Len(t, books, 3)
}

func TestRepository_List_ExcludesInactive(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	category := createCategory(t, db, "Fiction")
	book := &entities.Book{
		Title: "Gone", Author: "Author", ISBN: "isbn-gone",
		Quantity: 1, CategoryID: category.ID,
	}
	require.NoError(t, repo.Create(book))
	require.NoError(t, repo.Deactivate(book.ID))

	books, err := repo.List(Filter{})
	require.NoError(t, err)
	assert.Empty(t, books)

	_, err = repo.GetByID(book.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_SetQuantity(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	category := createCategory(t, db, "Fiction")
	book := &entities.Book{
		Title: "Stocked", Author: "Author", ISBN: "isbn-stock",
		Quantity: 5, CategoryID: category.ID,
	}
	require.NoError(t, repo.Create(book))

	// Two copies out on loan
	book.AvailableQuantity = 3

	// Growing the stock grows availability by the same delta
	repo.SetQuantity(book, 7)
	assert.Equal(t, 7, book.Quantity)
	assert.Equal(t, 5, book.AvailableQuantity)

	// Shrinking below the loaned-out count floors available at zero
	repo.SetQuantity(book, 1)
	assert.Equal(t, 1, book.Quantity)
	assert.Equal(t, 0, book.AvailableQuantity)

	// Growing again cannot exceed the new total
	book.AvailableQuantity = 1
	repo.SetQuantity(book, 1)
	assert.Equal(t, 1, book.AvailableQuantity)
}

func TestRepository_GetByID_PreloadsReviews(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	category := createCategory(t, db, "Fiction")
	book := &entities.Book{
		Title: "Reviewed", Author: "Author", ISBN: "isbn-rev",
		Quantity: 1, CategoryID: category.ID,
	}
	require.NoError(t, repo.Create(book))

	require.NoError(t, db.Create(&entities.Review{
		BookID: book.ID, UserID: "user-1", Content: "Great", Rating: 5, IsActive: true,
	}).Error)
	require.NoError(t, db.Create(&entities.Review{
		BookID: book.ID, UserID: "user-2", Content: "Deleted", Rating: 1, IsActive: false,
	}).Error)

	got, err := repo.GetByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, category.ID, got.Category.ID)
	require.Len(t, got.Reviews, 1, "only active reviews are loaded")
	assert.Equal(t, "Great", got.Reviews[0].Content)
}
