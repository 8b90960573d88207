package http

import (
	"github.com/gin-gonic/gin"

	"librarium/internal/auth"
	"librarium/internal/database"
)

// RouterConfig receives all controller dependencies, improving
// testability and reducing parameter count.
type RouterConfig struct {
	Database       *database.Database
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	UserStore      UserStore
	CategoryStore  CategoryStore
	BookStore      BookStore
	LoanStore      LoanStore
	ReviewStore    ReviewStore
	Version        string
}

// NewRouter creates and configures the HTTP router with all endpoints.
// Catalog reads are public; everything mutating or user-scoped sits
// behind bearer authentication.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)
	usersController := NewUsersController(cfg.AuthService, cfg.UserStore)
	categoriesController := NewCategoriesController(cfg.CategoryStore)
	booksController := NewBooksController(cfg.BookStore, cfg.CategoryStore)
	loansController := NewLoansController(cfg.LoanStore)
	reviewsController := NewReviewsController(cfg.ReviewStore, cfg.BookStore)

	// Public routes
	router.GET("/health", health.Status)
	router.POST("/users/register", usersController.Register)
	router.POST("/users/login", usersController.Login)
	router.GET("/categories", categoriesController.List)
	router.GET("/categories/:id", categoriesController.GetOne)
	router.GET("/books", booksController.List)
	router.GET("/books/:id", booksController.GetOne)
	router.GET("/reviews", reviewsController.List)

	// Authenticated routes
	authed := router.Group("/", cfg.AuthMiddleware.Handler())

	authed.GET("/users/profile", usersController.Profile)
	authed.PUT("/users/profile", usersController.UpdateProfile)
	authed.DELETE("/users/profile", usersController.DeleteProfile)
	authed.GET("/users/favorites", usersController.ListFavorites)
	authed.POST("/users/favorites", usersController.AddFavorite)
	authed.DELETE("/users/favorites/:bookId", usersController.RemoveFavorite)

	authed.POST("/categories", categoriesController.Create)
	authed.PUT("/categories/:id", categoriesController.Update)
	authed.DELETE("/categories/:id", categoriesController.Delete)

	authed.POST("/books", booksController.Create)
	authed.PUT("/books/:id", booksController.Update)
	authed.DELETE("/books/:id", booksController.Delete)

	authed.POST("/reviews", reviewsController.Create)
	authed.GET("/reviews/user", reviewsController.ListOwn)
	authed.PUT("/reviews/:id", reviewsController.Update)
	authed.DELETE("/reviews/:id", reviewsController.Delete)

	authed.POST("/loans", loansController.Create)
	authed.GET("/loans", loansController.List)
	authed.GET("/loans/user", loansController.ListOwn)
	authed.GET("/loans/:id", loansController.GetOne)
	authed.PATCH("/loans/:id", loansController.Return)

	return router
}
