// Package books provides database operations for the book side of the
// catalog: the three listing views (all, checked-out, overdue), id lookups
// with loan history, and validated writes.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	rows, total, err := repo.List(state, catalog.ViewOut, entities.Today())
package books

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// listQuery builds the filtered base query for a view. The checked-out and
// overdue views join open loans; the count and the page are derived from the
// same query so they always agree.
func (r *Repository) listQuery(state catalog.State, view catalog.View, today string) *gorm.DB {
	q := r.db.Model(&entities.Book{}).Scopes(database.Filtered(state, catalog.Books))

	switch view {
	case catalog.ViewOut:
		q = q.Joins("JOIN loans ON loans.book_id = books.id AND loans.returned_on IS NULL").
			Where("books.status = ?", entities.BookStatusOut)
	case catalog.ViewOverdue:
		q = q.Joins("JOIN loans ON loans.book_id = books.id AND loans.returned_on IS NULL AND loans.return_by < ?", today)
	}
	return q
}

// List returns one page of books for the view plus the total matching count.
func (r *Repository) List(state catalog.State, view catalog.View, today string) ([]entities.Book, int64, error) {
	var total int64
	if err := r.listQuery(state, view, today).Distinct("books.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []entities.Book
	q := r.listQuery(state, view, today).Distinct("books.*").Scopes(database.Paged(state, catalog.Books))
	if view != catalog.ViewAll {
		q = q.Preload("Loans", "returned_on IS NULL").Preload("Loans.Patron")
	}
	err := q.Find(&rows).Error
	return rows, total, err
}

// GetByID retrieves a book with its full loan history, most recent first.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Loans", func(db *gorm.DB) *gorm.DB {
		return db.Order("loaned_on DESC, id DESC")
	}).Preload("Loans.Patron").First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.NotFound("book", id)
		}
		return nil, err
	}
	return &book, nil
}

// Create validates and inserts a new book. Status defaults to IN.
func (r *Repository) Create(book *entities.Book) error {
	if err := validate(book); err != nil {
		return err
	}
	if book.Status == "" {
		book.Status = entities.BookStatusIn
	}
	return r.db.Create(book).Error
}

// Update applies the editable fields to an existing book. Status is derived
// from loan state and cannot be edited here.
func (r *Repository) Update(id uint, fields *entities.Book) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.NotFound("book", id)
		}
		return nil, err
	}

	book.Title = fields.Title
	book.Author = fields.Author
	book.Genre = fields.Genre
	book.FirstPublished = fields.FirstPublished

	if err := validate(&book); err != nil {
		return nil, err
	}
	if err := r.db.Save(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func validate(book *entities.Book) error {
	fields := make(map[string]string)
	if strings.TrimSpace(book.Title) == "" {
		fields["title"] = "title is required"
	}
	if strings.TrimSpace(book.Author) == "" {
		fields["author"] = "author is required"
	}
	if strings.TrimSpace(book.Genre) == "" {
		fields["genre"] = "genre is required"
	}
	if len(fields) > 0 {
		return &catalog.ValidationError{Fields: fields}
	}
	return nil
}
