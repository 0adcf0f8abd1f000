package books

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/entities"
)

func setupBooksTestDB(t *testing.T) (*database.Database, func()) {
	tmpDir, err := os.MkdirTemp("", "books_test")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return db, cleanup
}

func day(offset int) string {
	return time.Now().AddDate(0, 0, offset).Format(entities.DateLayout)
}

func seedBook(t *testing.T, db *database.Database, title, author, genre string, status entities.BookStatus) entities.Book {
	book := entities.Book{Title: title, Author: author, Genre: genre, Status: status}
	require.NoError(t, db.DB.Create(&book).Error)
	return book
}

func seedPatron(t *testing.T, db *database.Database, first, last string) entities.Patron {
	patron := entities.Patron{
		FirstName: first,
		LastName:  last,
		Email:     first + "." + last + "@example.com",
		LibraryID: "L-" + first + last,
		ZipCode:   "97201",
	}
	require.NoError(t, db.DB.Create(&patron).Error)
	return patron
}

func seedLoan(t *testing.T, db *database.Database, bookID, patronID uint, loanedOn, returnBy string, returnedOn *string) entities.Loan {
	loan := entities.Loan{
		BookID:     bookID,
		PatronID:   patronID,
		LoanedOn:   loanedOn,
		ReturnBy:   returnBy,
		ReturnedOn: returnedOn,
	}
	require.NoError(t, db.DB.Create(&loan).Error)
	return loan
}

func TestList_AllView_SortedByTitle(t *testing.T) {
	db, cleanup := setupBooksTestDB(t)
	defer cleanup()
	repo := NewRepository(db.DB)

	seedBook(t, db, "Neuromancer", "William Gibson", "Science Fiction", entities.BookStatusIn)
	seedBook(t, db, "Beloved", "Toni Morrison", "Literary Fiction", entities.BookStatusIn)
	seedBook(t, db, "Dune", "Frank Herbert", "Science Fiction", entities.BookStatusIn)

	state := catalog.Books.NewState()
	rows, total, err := repo.List(state, catalog.ViewAll, entities.Today())
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, rows, 3)
	assert.Equal(t, "Beloved", rows[0].Title)
	assert.Equal(t, "Dune", rows[1].Title)
	assert.Equal(t, "Neuromancer", rows[2].Title)
}

func TestList_PrefixFilter(t *testing.T) {
	db, cleanup := setupBooksTestDB(t)
	defer cleanup()
	repo := NewRepository(db.DB)

	seedBook(t, db, "Dune", "Frank Herbert", "Science Fiction", entities.BookStatusIn)
	seedBook(t, db, "Dune Messiah", "Frank Herbert", "Science Fiction", entities.BookStatusIn)
	seedBook(t, db, "The Dune Encyclopedia", "Willis McNelly", "Reference", entities.BookStatusIn)

	state := catalog.Books.NewState()
	require.NoError(t, state.Apply(catalog.Directive{SearchOn: "title", Search: "Du"}, catalog.Books))

	rows, total, err := repo.List(state, catalog.ViewAll, entities.Today())
	require.NoError(t, err)
	// Prefix match only: "The Dune Encyclopedia" contains but does not begin with "Du"
	assert.Equal(t, int64(2), total)
	require.Len(t, rows, 2)
	assert.Equal(t, "Dune", rows[0].Title)
	assert.Equal(t, "Dune Messiah", rows[1].Title)
}

func TestList_OutView(t *testing.T) {
	db, cleanup := setupBooksTestDB(t)
	defer cleanup()
	repo := NewRepository(db.DB)

	dune := seedBook(t, db, "Dune", "Frank Herbert", "Science Fiction", entities.BookStatusOut)
	seedBook(t, db, "Beloved", "Toni Morrison", "Literary Fiction", entities.BookStatusIn)
	ada := seedPatron(t, db, "Ada", "Smith")
	seedLoan(t, db, dune.ID, ada.ID, day(-7), day(7), nil)

	state := catalog.Books.NewState()
	rows, total, err := repo.List(state, catalog.ViewOut, entities.Today())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Dune", rows[0].Title)
	// The open loan and its patron come along for the checked-out view
	require.Len(t, rows[0].Loans, 1)
	assert.Equal(t, "Smith", rows[0].Loans[0].Patron.LastName)
}

func TestList_OverdueView(t *testing.T) {
	db, cleanup := setupBooksTestDB(t)
	defer cleanup()
	repo := NewRepository(db.DB)

	late := seedBook(t, db, "Frankenstein", "Mary Shelley", "Gothic", entities.BookStatusOut)
	onTime := seedBook(t, db, "Dune", "Frank Herbert", "Science Fiction", entities.BookStatusOut)
	returned := seedBook(t, db, "Beloved", "Toni Morrison", "Literary Fiction", entities.BookStatusIn)
	ada := seedPatron(t, db, "Ada", "Smith")

	seedLoan(t, db, late.ID, ada.ID, day(-21), day(-7), nil)
	seedLoan(t, db, onTime.ID, ada.ID, day(-7), day(7), nil)
	wasDue := day(-7)
	seedLoan(t, db, returned.ID, ada.ID, day(-30), day(-16), &wasDue)

	state := catalog.Books.NewState()
	rows, total, err := repo.List(state, catalog.ViewOverdue, entities.Today())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Frankenstein", rows[0].Title)
}

func TestList_OverdueView_DueTodayIsNotOverdue(t *testing.T) {
	db, cleanup := setupBooksTestDB(t)
	defer cleanup()
	repo := NewRepository(db.DB)

	book := seedBook(t, db, "Dune", "Frank Herbert", "Science Fiction", entities.BookStatusOut)
	ada := seedPatron(t, db, "Ada", "Smith")
	seedLoan(t, db, book.ID, ada.ID, day(-14), day(0), nil)

	state := catalog.Books.NewState()
	_, total, err := repo.List(state, catalog.ViewOverdue, entities.Today())
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestGetByID(t *testing.T) {
	db, cleanup := setupBooksTestDB(t)
	defer cleanup()
	repo := NewRepository(db.DB)

	book := seedBook(t, db, "Dune", "Frank Herbert", "Science Fiction", entities.BookStatusIn)
	ada := seedPatron(t, db, "Ada", "Smith")
	old := day(-40)
	seedLoan(t, db, book.ID, ada.ID, day(-60), day(-46), &old)
	seedLoan(t, db, book.ID, ada.ID, day(-7), day(7), nil)

	got, err := repo.GetByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	// Loan history, most recent first
	require.Len(t, got.Loans, 2)
	assert.Nil(t, got.Loans[0].ReturnedOn)
	assert.NotNil(t, got.Loans[1].ReturnedOn)
}

func TestGetByID_NotFound(t *testing.T) {
	db, cleanup := setupBooksTestDB(t)
	defer cleanup()
	repo := NewRepository(db.DB)

	_, err := repo.GetByID(9999)
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestCreate(t *testing.T) {
	db, cleanup := setupBooksTestDB(t)
	defer cleanup()
	repo := NewRepository(db.DB)

	book := &entities.Book{Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", FirstPublished: 1965}
	require.NoError(t, repo.Create(book))
	assert.NotZero(t, book.ID)
	assert.Equal(t, entities.BookStatusIn, book.Status)
}

func TestCreate_Validation(t *testing.T) {
	db, cleanup := setupBooksTestDB(t)
	defer cleanup()
	repo := NewRepository(db.DB)

	err := repo.Create(&entities.Book{Title: "  ", Author: "Frank Herbert"})
	require.Error(t, err)

	ve := catalog.AsValidation(err)
	require.NotNil(t, ve)
	assert.Contains(t, ve.Fields, "title")
	assert.Contains(t, ve.Fields, "genre")
	assert.NotContains(t, ve.Fields, "author")
}

func TestUpdate_DoesNotTouchStatus(t *testing.T) {
	db, cleanup := setupBooksTestDB(t)
	defer cleanup()
	repo := NewRepository(db.DB)

	book := seedBook(t, db, "Dune", "Frank Herbert", "Science Fiction", entities.BookStatusOut)

	updated, err := repo.Update(book.ID, &entities.Book{
		Title:          "Dune Messiah",
		Author:         "Frank Herbert",
		Genre:          "Science Fiction",
		FirstPublished: 1969,
	})
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", updated.Title)
	assert.Equal(t, 1969, updated.FirstPublished)
	// Status is derived from loans, not editable
	assert.Equal(t, entities.BookStatusOut, updated.Status)
}

func TestUpdate_NotFound(t *testing.T) {
	db, cleanup := setupBooksTestDB(t)
	defer cleanup()
	repo := NewRepository(db.DB)

	_, err := repo.Update(9999, &entities.Book{Title: "x", Author: "y", Genre: "z"})
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}
