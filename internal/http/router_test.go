package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"librarium/internal/auth"
	"librarium/internal/config"
	"librarium/internal/database/books"
	"librarium/internal/database/categories"
	"librarium/internal/database/loans"
	"librarium/internal/database/reviews"
	"librarium/internal/database/users"
	"librarium/internal/entities"
)

// testAPI wires the full router against a throwaway database so tests
// can exercise the HTTP surface end to end.
type testAPI struct {
	router  *gin.Engine
	db      *gorm.DB
	limiter *auth.RateLimiter
}

func setupTestAPI(t *testing.T) (*testAPI, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dbPath := "./test_api_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Category{},
		&entities.Book{},
		&entities.Loan{},
		&entities.Review{},
	)
	require.NoError(t, err)

	userRepo := users.NewRepository(db)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	limiter := auth.NewRateLimiter(auth.RateLimitConfig{
		MaxAttempts:     5,
		WindowDuration:  time.Minute,
		LockoutDuration: time.Minute,
	})
	authService := auth.NewService(userRepo, tokens, limiter, config.Auth{BcryptCost: bcrypt.MinCost})

	router := NewRouter(RouterConfig{
		AuthService:    authService,
		AuthMiddleware: auth.NewMiddleware(userRepo, tokens),
		UserStore:      userRepo,
		CategoryStore:  categories.NewRepository(db),
		BookStore:      books.NewRepository(db),
		LoanStore:      loans.NewRepository(db),
		ReviewStore:    reviews.NewRepository(db),
		Version:        "test",
	})

	api := &testAPI{router: router, db: db, limiter: limiter}

	cleanup := func() {
		limiter.Stop()
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return api, cleanup
}

// request performs an HTTP request with an optional JSON body and
// bearer token, returning the recorded response.
func (a *testAPI) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// registerAndLogin creates a user through the API and returns its ID
// with a valid bearer token.
func (a *testAPI) registerAndLogin(t *testing.T, email string) (string, string) {
	t.Helper()

	w := a.request(t, "POST", "/users/register", "", gin.H{
		"name":     "Test Reader",
		"email":    email,
		"password": "reading is fun",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	userID := decode(t, w)["id"].(string)

	w = a.request(t, "POST", "/users/login", "", gin.H{
		"email":    email,
		"password": "reading is fun",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := decode(t, w)["token"].(string)

	return userID, token
}

// createCategory creates a category through the API and returns its ID.
func (a *testAPI) createCategory(t *testing.T, token, name string) string {
	t.Helper()
	w := a.request(t, "POST", "/categories", token, gin.H{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["id"].(string)
}

// createBook creates a book through the API and returns its ID.
func (a *testAPI) createBook(t *testing.T, token, categoryID, isbn string, quantity int) string {
	t.Helper()
	w := a.request(t, "POST", "/books", token, gin.H{
		"title":       "Test Book " + isbn,
		"author":      "Author",
		"isbn":        isbn,
		"quantity":    quantity,
		"category_id": categoryID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["id"].(string)
}
