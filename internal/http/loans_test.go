package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarium/internal/entities"
)

func TestLoans_BorrowReturnCycle(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	_, token := api.registerAndLogin(t, "cycle@example.com")
	categoryID := api.createCategory(t, token, "Fiction")
	bookID := api.createBook(t, token, categoryID, "978-0-13-468599-1", 1)

	due := time.Now().Add(14 * 24 * time.Hour)

	// Borrow the only copy.
	w := api.request(t, "POST", "/loans", token, gin.H{
		"book_id":              bookID,
		"expected_return_date": due,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	loan := decode(t, w)
	loanID := loan["id"].(string)
	assert.Equal(t, false, loan["is_returned"])

	w = api.request(t, "GET", "/books/"+bookID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["available_quantity"])

	// A second borrow must fail while no copies remain.
	w = api.request(t, "POST", "/loans", token, gin.H{
		"book_id":              bookID,
		"expected_return_date": due,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "available")

	// Return restores availability.
	w = api.request(t, "PATCH", "/loans/"+loanID, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	returned := decode(t, w)
	assert.Equal(t, true, returned["is_returned"])
	assert.NotNil(t, returned["actual_return_date"])

	w = api.request(t, "GET", "/books/"+bookID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["available_quantity"])

	// Returning the same loan again is rejected.
	w = api.request(t, "PATCH", "/loans/"+loanID, token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "returned")

	// And the book can be borrowed again.
	w = api.request(t, "POST", "/loans", token, gin.H{
		"book_id":              bookID,
		"expected_return_date": due,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestLoans_BorrowUnknownBook(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	_, token := api.registerAndLogin(t, "unknown@example.com")

	w := api.request(t, "POST", "/loans", token, gin.H{
		"book_id":              "b0000000-0000-0000-0000-000000000000",
		"expected_return_date": time.Now().Add(24 * time.Hour),
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoans_RequiresAuth(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	w := api.request(t, "POST", "/loans", "", gin.H{
		"book_id":              "irrelevant",
		"expected_return_date": time.Now(),
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.request(t, "GET", "/loans", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoans_ListOwn(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	_, aliceToken := api.registerAndLogin(t, "alice@example.com")
	_, bobToken := api.registerAndLogin(t, "bob@example.com")

	categoryID := api.createCategory(t, aliceToken, "History")
	bookID := api.createBook(t, aliceToken, categoryID, "978-1-4028-9462-6", 3)

	due := time.Now().Add(7 * 24 * time.Hour)
	w := api.request(t, "POST", "/loans", aliceToken, gin.H{
		"book_id":              bookID,
		"expected_return_date": due,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = api.request(t, "POST", "/loans", bobToken, gin.H{
		"book_id":              bookID,
		"expected_return_date": due,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// The global listing sees both loans, the per-user one only Alice's.
	w = api.request(t, "GET", "/loans", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 2)

	w = api.request(t, "GET", "/loans/user", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	loansList := decodeList(t, w)
	require.Len(t, loansList, 1)
	assert.Equal(t, bookID, loansList[0]["book_id"])
}

func TestLoans_GetOne(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	userID, token := api.registerAndLogin(t, "getone@example.com")
	categoryID := api.createCategory(t, token, "Science")
	bookID := api.createBook(t, token, categoryID, "978-3-16-148410-0", 2)

	w := api.request(t, "POST", "/loans", token, gin.H{
		"book_id":              bookID,
		"expected_return_date": time.Now().Add(24 * time.Hour),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	loanID := decode(t, w)["id"].(string)

	w = api.request(t, "GET", "/loans/"+loanID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	loan := decode(t, w)
	assert.Equal(t, userID, loan["user_id"])

	w = api.request(t, "GET", "/loans/missing-id", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoans_ReturnOverdue(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	_, token := api.registerAndLogin(t, "overdue@example.com")
	categoryID := api.createCategory(t, token, "Poetry")
	bookID := api.createBook(t, token, categoryID, "978-0-306-40615-7", 1)

	w := api.request(t, "POST", "/loans", token, gin.H{
		"book_id":              bookID,
		"expected_return_date": time.Now().Add(24 * time.Hour),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	loanID := decode(t, w)["id"].(string)

	// Push the due date into the past so the return counts as late.
	err := api.db.Model(&entities.Loan{}).
		Where("id = ?", loanID).
		Update("expected_return_date", time.Now().Add(-48*time.Hour)).Error
	require.NoError(t, err)

	w = api.request(t, "PATCH", "/loans/"+loanID, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["is_overdue"])
}
