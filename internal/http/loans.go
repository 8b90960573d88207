package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"librarium/internal/database/loans"
	"librarium/internal/entities"
)

// LoanStore defines the loan lifecycle operations.
type LoanStore interface {
	Borrow(userID, bookID string, expectedReturn time.Time) (*entities.Loan, error)
	Return(loanID string) (*entities.Loan, error)
	GetByID(id string) (*entities.Loan, error)
	List() ([]entities.Loan, error)
	ListForUser(userID string) ([]entities.Loan, error)
}

type LoansController struct {
	store LoanStore
}

func NewLoansController(store LoanStore) *LoansController {
	return &LoansController{store: store}
}

// Create borrows a book for the authenticated user
// POST /loans
func (lc *LoansController) Create(c *gin.Context) {
	var req struct {
		BookID             string    `json:"book_id" binding:"required"`
		ExpectedReturnDate time.Time `json:"expected_return_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "book_id and expected_return_date are required")
		return
	}

	loan, err := lc.store.Borrow(GetUserID(c), req.BookID, req.ExpectedReturnDate)
	if err != nil {
		switch {
		case errors.Is(err, loans.ErrBookNotFound):
			respondNotFound(c, "book")
		case errors.Is(err, loans.ErrBorrowerNotFound):
			respondNotFound(c, "user")
		case errors.Is(err, loans.ErrOutOfStock):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "create loan")
		}
		return
	}

	respondCreated(c, loan)
}

// Return closes a loan and releases the copy
// PATCH /loans/:id
func (lc *LoansController) Return(c *gin.Context) {
	loan, err := lc.store.Return(c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, loans.ErrNotFound):
			respondNotFound(c, "loan")
		case errors.Is(err, loans.ErrAlreadyReturned):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "return loan")
		}
		return
	}

	c.JSON(http.StatusOK, loan)
}

// List returns all active loans
// GET /loans
func (lc *LoansController) List(c *gin.Context) {
	result, err := lc.store.List()
	if err != nil {
		respondInternalError(c, err, "list loans")
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListOwn returns the authenticated user's loans
// GET /loans/user
func (lc *LoansController) ListOwn(c *gin.Context) {
	result, err := lc.store.ListForUser(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list user loans")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetOne returns a loan by ID
// GET /loans/:id
func (lc *LoansController) GetOne(c *gin.Context) {
	loan, err := lc.store.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, loans.ErrNotFound) {
			respondNotFound(c, "loan")
			return
		}
		respondInternalError(c, err, "get loan")
		return
	}
	c.JSON(http.StatusOK, loan)
}
