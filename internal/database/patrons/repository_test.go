package patrons

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/entities"
)

func setupPatronsTestDB(t *testing.T) (*database.Database, func()) {
	tmpDir, err := os.MkdirTemp("", "patrons_test")
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

func seedPatron(t *testing.T, db *database.Database, first, last, address string) entities.Patron {
	patron := entities.Patron{
		FirstName: first,
		LastName:  last,
		Address:   address,
		Email:     first + "." + last + "@example.com",
		LibraryID: "L-" + first + last,
		ZipCode:   "97201",
	}
	require.NoError(t, db.DB.Create(&patron).Error)
	return patron
}

func TestList_Pagination25Patrons(t *testing.T) {
	db, cleanup := setupPatronsTestDB(t)
	defer cleanup()
	repo := NewRepository(db.DB)

	for i := 0; i < 25; i++ {
		seedPatron(t, db, "First", fmt.Sprintf("Last%02d", i), "")
	}

	// First page: 10 rows, 3 pages total
	state := catalog.Patrons.NewState()
	rows, total, err := repo.List(state)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Len(t, rows, 10)
	meta := state.PageMeta(total)
	assert.Equal(t, 3, meta.TotalPages)

	// Last page: offset 20 leaves 5 rows, count unchanged
	require.NoError(t, state.Apply(catalog.Directive{Offset: intPtr(20)}, catalog.Patrons))
	rows, total, err = repo.List(state)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Len(t, rows, 5)
	assert.Equal(t, "Last20", rows[0].LastName)
}

func intPtr(v int) *int {
	return &v
}

func TestList_DefaultNameOrder(t *testing.T) {
	db, cleanup := setupPatronsTestDB(t)
	defer cleanup()
	repo := NewRepository(db.DB)

	seedPatron(t, db, "Zoe", "Smith", "")
	seedPatron(t, db, "Ada", "Smith", "")
	seedPatron(t, db, "Bruno", "Keller", "")

	rows, _, err := repo.List(catalog.Patrons.NewState())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	// last_name then first_name
	assert.Equal(t, "Keller", rows[0].LastName)
	assert.Equal(t, "Ada", rows[1].FirstName)
	assert.Equal(t, "Zoe", rows[2].FirstName)
}

func TestList_FiltersComposeWithAND(t *testing.T) {
	db, cleanup := setupPatronsTestDB(t)
	defer cleanup()
	repo := NewRepository(db.DB)

	seedPatron(t, db, "Ada", "Smith", "12 Elm St")
	seedPatron(t, db, "Emil", "Smirnov", "4 Oak Ave")
	seedPatron(t, db, "Bruno", "Keller", "12 Pine Rd")

	state := catalog.Patrons.NewState()
	require.NoError(t, state.Apply(catalog.Directive{SearchOn: "last-name", Search: "Sm"}, catalog.Patrons))
	require.NoError(t, state.Apply(catalog.Directive{SearchOn: "address", Search: "12"}, catalog.Patrons))

	rows, total, err := repo.List(state)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Smith", rows[0].LastName)

	// Dropping the filters restores the full listing
	require.NoError(t, state.Apply(catalog.Directive{SearchOff: true}, catalog.Patrons))
	_, total, err = repo.List(state)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestGetByID_WithLoanHistory(t *testing.T) {
	db, cleanup := setupPatronsTestDB(t)
	defer cleanup()
	repo := NewRepository(db.DB)

	patron := seedPatron(t, db, "Ada", "Smith", "")
	book := entities.Book{Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", Status: entities.BookStatusOut}
	require.NoError(t, db.DB.Create(&book).Error)
	loan := entities.Loan{BookID: book.ID, PatronID: patron.ID, LoanedOn: "2026-08-01", ReturnBy: "2026-08-15"}
	require.NoError(t, db.DB.Create(&loan).Error)

	got, err := repo.GetByID(patron.ID)
	require.NoError(t, err)
	require.Len(t, got.Loans, 1)
	assert.Equal(t, "Dune", got.Loans[0].Book.Title)
}

func TestGetByID_NotFound(t *testing.T) {
	db, cleanup := setupPatronsTestDB(t)
	defer cleanup()
	repo := NewRepository(db.DB)

	_, err := repo.GetByID(424242)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestCreate_Validation(t *testing.T) {
	db, cleanup := setupPatronsTestDB(t)
	defer cleanup()
	repo := NewRepository(db.DB)

	err := repo.Create(&entities.Patron{FirstName: "Ada"})
	require.Error(t, err)

	ve := catalog.AsValidation(err)
	require.NotNil(t, ve)
	assert.Contains(t, ve.Fields, "last_name")
	assert.Contains(t, ve.Fields, "email")
	assert.Contains(t, ve.Fields, "library_id")
	assert.Contains(t, ve.Fields, "zip_code")
	// Address is optional
	assert.NotContains(t, ve.Fields, "address")
}

func TestUpdate(t *testing.T) {
	db, cleanup := setupPatronsTestDB(t)
	defer cleanup()
	repo := NewRepository(db.DB)

	patron := seedPatron(t, db, "Ada", "Smith", "12 Elm St")

	updated, err := repo.Update(patron.ID, &entities.Patron{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		LibraryID: "MCL-1",
		ZipCode:   "97202",
	})
	require.NoError(t, err)
	assert.Equal(t, "Lovelace", updated.LastName)
	assert.Equal(t, "", updated.Address)
}
