// Package loans implements the loan lifecycle and the inventory ledger
// behind it.
//
// Every mutation of a book's available quantity goes through Borrow or
// Return, each of which runs in a single transaction. The decrement is a
// guarded UPDATE (available_quantity > 0), so two concurrent borrows of
// the last copy cannot both succeed: the invariant
// 0 <= available_quantity <= quantity holds after every commit.
package loans

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"librarium/internal/entities"
)

var (
	ErrBookNotFound     = errors.New("book not found")
	ErrBorrowerNotFound = errors.New("user not found")
	ErrOutOfStock       = errors.New("book is not available for loan")
	ErrNotFound         = errors.New("loan not found")
	ErrAlreadyReturned  = errors.New("book already returned")
)

// Repository handles all loan database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new loans repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Borrow reserves one copy of a book for a user and creates the loan
// record. The reservation and the loan insert commit together: a loan
// exists if and only if the decrement succeeded.
func (r *Repository) Borrow(userID, bookID string, expectedReturn time.Time) (*entities.Loan, error) {
	var loanID string

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		err := tx.Where("id = ? AND is_active = ?", bookID, true).First(&book).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		if err != nil {
			return err
		}

		var user entities.User
		err = tx.Where("id = ? AND is_active = ?", userID, true).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBorrowerNotFound
		}
		if err != nil {
			return err
		}

		// Atomic reservation: the guard rejects the borrow when no copy
		// is left, regardless of what the earlier read saw.
		result := tx.Model(&entities.Book{}).
			Where("id = ? AND available_quantity > 0", bookID).
			UpdateColumn("available_quantity", gorm.Expr("available_quantity - 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrOutOfStock
		}

		loan := &entities.Loan{
			UserID:             userID,
			BookID:             bookID,
			LoanDate:           time.Now(),
			ExpectedReturnDate: expectedReturn,
			IsActive:           true,
		}
		if err := tx.Create(loan).Error; err != nil {
			return err
		}
		loanID = loan.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(loanID)
}

// Return closes a loan: marks it returned, computes overdue status from
// the expected return date, and releases the copy back to the book.
// Returning an already-returned loan is rejected, not a no-op.
func (r *Repository) Return(loanID string) (*entities.Loan, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var loan entities.Loan
		err := tx.Where("id = ? AND is_active = ?", loanID, true).First(&loan).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if loan.IsReturned {
			return ErrAlreadyReturned
		}

		now := time.Now()
		loan.IsReturned = true
		loan.ActualReturnDate = &now
		loan.IsOverdue = now.After(loan.ExpectedReturnDate)

		// Release the copy. The MIN guard keeps available from ever
		// exceeding the total quantity.
		err = tx.Model(&entities.Book{}).
			Where("id = ?", loan.BookID).
			UpdateColumn("available_quantity", gorm.Expr("MIN(available_quantity + 1, quantity)")).Error
		if err != nil {
			return err
		}

		return tx.Save(&loan).Error
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(loanID)
}

// GetByID retrieves an active loan with its borrower and book.
func (r *Repository) GetByID(id string) (*entities.Loan, error) {
	var loan entities.Loan
	err := r.db.Preload("User").Preload("Book").
		Where("id = ? AND is_active = ?", id, true).
		First(&loan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// List returns all active loans with borrowers and books.
func (r *Repository) List() ([]entities.Loan, error) {
	var loans []entities.Loan
	err := r.db.Preload("User").Preload("Book").
		Where("is_active = ?", true).
		Order("loan_date DESC").
		Find(&loans).Error
	return loans, err
}

// ListForUser returns a user's active loans with books.
func (r *Repository) ListForUser(userID string) ([]entities.Loan, error) {
	var loans []entities.Loan
	err := r.db.Preload("Book").
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("loan_date DESC").
		Find(&loans).Error
	return loans, err
}

// FlagOverdue marks open loans past their expected return date as
// overdue and flags them for a reminder. Returns how many loans were
// newly flagged.
func (r *Repository) FlagOverdue(asOf time.Time) (int64, error) {
	result := r.db.Model(&entities.Loan{}).
		Where("is_returned = ? AND is_active = ? AND is_overdue = ? AND expected_return_date < ?",
			false, true, false, asOf).
		Updates(map[string]any{"is_overdue": true, "reminder_sent": true})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
