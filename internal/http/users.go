package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"librarium/internal/auth"
	"librarium/internal/database/users"
	"librarium/internal/entities"
)

// UserStore defines database operations for profile and favorites
// management.
type UserStore interface {
	GetByID(id string) (*entities.User, error)
	Update(user *entities.User) error
	Deactivate(id string) error
	AddFavorite(userID, bookID string) error
	RemoveFavorite(userID, bookID string) error
	GetFavorites(userID string) ([]entities.Book, error)
}

type UsersController struct {
	auth  *auth.Service
	store UserStore
}

func NewUsersController(authService *auth.Service, store UserStore) *UsersController {
	return &UsersController{auth: authService, store: store}
}

// Register creates a new user account
// POST /users/register
func (uc *UsersController) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Phone    string `json:"phone"`
		Address  string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name, email and password are required")
		return
	}

	user, err := uc.auth.Register(auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		switch {
		case errors.Is(err, users.ErrEmailTaken),
			errors.Is(err, auth.ErrEmailInvalid),
			errors.Is(err, auth.ErrPasswordTooShort),
			errors.Is(err, auth.ErrPasswordTooLong):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "register user")
		}
		return
	}

	respondCreated(c, user)
}

// Login checks credentials and issues a bearer token
// POST /users/login
func (uc *UsersController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "email and password are required")
		return
	}

	user, token, err := uc.auth.Login(c.ClientIP(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			respondUnauthorized(c, "invalid email or password")
		case errors.Is(err, auth.ErrAccountLocked):
			c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many login attempts"})
		default:
			respondInternalError(c, err, "login")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"token": token,
	})
}

// Profile returns the authenticated user
// GET /users/profile
func (uc *UsersController) Profile(c *gin.Context) {
	user, err := uc.store.GetByID(GetUserID(c))
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "get profile")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile partially updates the authenticated user
// PUT /users/profile
func (uc *UsersController) UpdateProfile(c *gin.Context) {
	var req struct {
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := uc.store.GetByID(GetUserID(c))
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "get profile")
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Address != "" {
		user.Address = req.Address
	}

	if err := uc.store.Update(user); err != nil {
		respondInternalError(c, err, "update profile")
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteProfile deactivates the authenticated user's account
// DELETE /users/profile
func (uc *UsersController) DeleteProfile(c *gin.Context) {
	err := uc.store.Deactivate(GetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, users.ErrNotFound):
			respondNotFound(c, "user")
		case errors.Is(err, users.ErrHasOpenLoans):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "delete profile")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// AddFavorite adds a book to the user's favorites
// POST /users/favorites
func (uc *UsersController) AddFavorite(c *gin.Context) {
	var req struct {
		BookID string `json:"book_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "book_id is required")
		return
	}

	if err := uc.store.AddFavorite(GetUserID(c), req.BookID); err != nil {
		switch {
		case errors.Is(err, users.ErrNotFound):
			respondNotFound(c, "user")
		case errors.Is(err, users.ErrBookNotFound):
			respondNotFound(c, "book")
		default:
			respondInternalError(c, err, "add favorite")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "book added to favorites"})
}

// RemoveFavorite removes a book from the user's favorites
// DELETE /users/favorites/:bookId
func (uc *UsersController) RemoveFavorite(c *gin.Context) {
	bookID := c.Param("bookId")

	if err := uc.store.RemoveFavorite(GetUserID(c), bookID); err != nil {
		switch {
		case errors.Is(err, users.ErrNotFound):
			respondNotFound(c, "user")
		case errors.Is(err, users.ErrBookNotFound):
			respondNotFound(c, "book")
		default:
			respondInternalError(c, err, "remove favorite")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "book removed from favorites"})
}

// ListFavorites returns the user's favorite books
// GET /users/favorites
func (uc *UsersController) ListFavorites(c *gin.Context) {
	books, err := uc.store.GetFavorites(GetUserID(c))
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "list favorites")
		return
	}
	c.JSON(http.StatusOK, books)
}
