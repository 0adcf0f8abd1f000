// Package loans provides database operations for the loan lifecycle and the
// joined loan listings.
//
// Checkout and return each pair a loan write with the book status update in
// a single transaction, so Book.status stays consistent with open-loan state
// even under concurrent attempts on the same book.
package loans

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/entities"
)

// Repository handles all loan database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new loans repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// listQuery builds the filtered base query for a view. Loan listings always
// join books and patrons so filters and sort keys can reach both sides.
func (r *Repository) listQuery(state catalog.State, view catalog.View, today string) *gorm.DB {
	q := r.db.Model(&entities.Loan{}).
		Joins("JOIN books ON books.id = loans.book_id").
		Joins("JOIN patrons ON patrons.id = loans.patron_id").
		Scopes(database.Filtered(state, catalog.Loans))

	switch view {
	case catalog.ViewOut:
		q = q.Where("books.status = ? AND loans.returned_on IS NULL", entities.BookStatusOut)
	case catalog.ViewOverdue:
		q = q.Where("loans.return_by < ? AND loans.returned_on IS NULL", today)
	}
	return q
}

// List returns one page of loans with their book and patron, plus the total
// matching count.
func (r *Repository) List(state catalog.State, view catalog.View, today string) ([]entities.Loan, int64, error) {
	var total int64
	if err := r.listQuery(state, view, today).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []entities.Loan
	err := r.listQuery(state, view, today).
		Preload("Book").Preload("Patron").
		Scopes(database.Paged(state, catalog.Loans)).
		Find(&rows).Error
	return rows, total, err
}

// Checkout creates a loan and marks the book OUT as one transaction. The
// status check runs inside the transaction, so two concurrent checkouts of
// the same book cannot both succeed.
func (r *Repository) Checkout(bookID, patronID uint, today string) (*entities.Loan, error) {
	var created *entities.Loan
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return catalog.NotFound("book", bookID)
			}
			return err
		}
		if book.Status != entities.BookStatusIn {
			return catalog.Conflict("book %d (%s) is already checked out", book.ID, book.Title)
		}

		var patron entities.Patron
		if err := tx.First(&patron, patronID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return catalog.NotFound("patron", patronID)
			}
			return err
		}

		loan := entities.Loan{
			BookID:   bookID,
			PatronID: patronID,
			LoanedOn: today,
			ReturnBy: entities.DueDate(today),
		}
		if err := tx.Create(&loan).Error; err != nil {
			return err
		}
		if err := tx.Model(&entities.Book{}).Where("id = ?", bookID).
			Update("status", entities.BookStatusOut).Error; err != nil {
			return err
		}
		created = &loan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Return closes a loan and marks the book IN as one transaction. The book
// goes back IN only when no other open loan references it, which tolerates
// legacy rows that predate the single-open-loan guard.
func (r *Repository) Return(loanID uint, returnedOn string) (*entities.Loan, error) {
	var returned *entities.Loan
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var loan entities.Loan
		if err := tx.First(&loan, loanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return catalog.NotFound("loan", loanID)
			}
			return err
		}
		if loan.ReturnedOn != nil {
			return catalog.Conflict("loan %d was already returned on %s", loan.ID, *loan.ReturnedOn)
		}

		if err := tx.Model(&entities.Loan{}).Where("id = ?", loanID).
			Update("returned_on", returnedOn).Error; err != nil {
			return err
		}

		var open int64
		if err := tx.Model(&entities.Loan{}).
			Where("book_id = ? AND returned_on IS NULL", loan.BookID).
			Count(&open).Error; err != nil {
			return err
		}
		if open == 0 {
			if err := tx.Model(&entities.Book{}).Where("id = ?", loan.BookID).
				Update("status", entities.BookStatusIn).Error; err != nil {
				return err
			}
		}

		loan.ReturnedOn = &returnedOn
		returned = &loan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return returned, nil
}

// OpenLoanForBook finds the open loan for a book with its book and patron.
// Legacy duplicates are broken by most recent loaned_on.
func (r *Repository) OpenLoanForBook(bookID uint) (*entities.Loan, error) {
	var loan entities.Loan
	err := r.db.Preload("Book").Preload("Patron").
		Where("book_id = ? AND returned_on IS NULL", bookID).
		Order("loaned_on DESC, id DESC").
		First(&loan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.NotFound("open loan for book", bookID)
		}
		return nil, err
	}
	return &loan, nil
}

// LoanOptions holds the choices for a new-loan form: books currently
// available and every patron.
type LoanOptions struct {
	Books   []entities.Book   `json:"books"`
	Patrons []entities.Patron `json:"patrons"`
}

// NewLoanOptions lists the books currently IN (title order) and all patrons
// (name order).
func (r *Repository) NewLoanOptions() (*LoanOptions, error) {
	opts := &LoanOptions{}
	err := r.db.Select("id", "title").
		Where("status = ?", entities.BookStatusIn).
		Order("title ASC").
		Find(&opts.Books).Error
	if err != nil {
		return nil, err
	}
	err = r.db.Order("last_name ASC, first_name ASC").Find(&opts.Patrons).Error
	if err != nil {
		return nil, err
	}
	return opts, nil
}

// ReconcileStatuses recomputes Book.status from open-loan existence and
// repairs any drift, returning the number of corrected rows.
func (r *Repository) ReconcileStatuses() (int64, error) {
	var fixed int64

	res := r.db.Exec(`UPDATE books SET status = 'OUT'
		WHERE status <> 'OUT'
		AND id IN (SELECT book_id FROM loans WHERE returned_on IS NULL)`)
	if res.Error != nil {
		return 0, res.Error
	}
	fixed += res.RowsAffected

	res = r.db.Exec(`UPDATE books SET status = 'IN'
		WHERE status <> 'IN'
		AND id NOT IN (SELECT book_id FROM loans WHERE returned_on IS NULL)`)
	if res.Error != nil {
		return fixed, res.Error
	}
	fixed += res.RowsAffected

	return fixed, nil
}
