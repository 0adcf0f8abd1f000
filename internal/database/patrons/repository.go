// Package patrons provides database operations for patron management:
// the paginated, prefix-filtered listing, id lookups with loan history,
// and validated writes.
package patrons

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/entities"
)

// Repository handles all patron database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new patrons repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns one page of patrons plus the total matching count. The count
// reflects the same filter predicate as the page.
func (r *Repository) List(state catalog.State) ([]entities.Patron, int64, error) {
	var total int64
	err := r.db.Model(&entities.Patron{}).
		Scopes(database.Filtered(state, catalog.Patrons)).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var rows []entities.Patron
	err = r.db.Model(&entities.Patron{}).
		Scopes(database.Filtered(state, catalog.Patrons), database.Paged(state, catalog.Patrons)).
		Find(&rows).Error
	return rows, total, err
}

// GetByID retrieves a patron with their full loan history, most recent first.
func (r *Repository) GetByID(id uint) (*entities.Patron, error) {
	var patron entities.Patron
	err := r.db.Preload("Loans", func(db *gorm.DB) *gorm.DB {
		return db.Order("loaned_on DESC, id DESC")
	}).Preload("Loans.Book").First(&patron, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.NotFound("patron", id)
		}
		return nil, err
	}
	return &patron, nil
}

// Create validates and inserts a new patron.
func (r *Repository) Create(patron *entities.Patron) error {
	if err := validate(patron); err != nil {
		return err
	}
	return r.db.Create(patron).Error
}

// Update applies the editable fields to an existing patron.
func (r *Repository) Update(id uint, fields *entities.Patron) (*entities.Patron, error) {
	var patron entities.Patron
	if err := r.db.First(&patron, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.NotFound("patron", id)
		}
		return nil, err
	}

	patron.FirstName = fields.FirstName
	patron.LastName = fields.LastName
	patron.Address = fields.Address
	patron.Email = fields.Email
	patron.LibraryID = fields.LibraryID
	patron.ZipCode = fields.ZipCode

	if err := validate(&patron); err != nil {
		return nil, err
	}
	if err := r.db.Save(&patron).Error; err != nil {
		return nil, err
	}
	return &patron, nil
}

// validate checks the required patron fields. Address is optional.
func validate(patron *entities.Patron) error {
	fields := make(map[string]string)
	if strings.TrimSpace(patron.FirstName) == "" {
		fields["first_name"] = "first name is required"
	}
	if strings.TrimSpace(patron.LastName) == "" {
		fields["last_name"] = "last name is required"
	}
	if strings.TrimSpace(patron.Email) == "" {
		fields["email"] = "email is required"
	}
	if strings.TrimSpace(patron.LibraryID) == "" {
		fields["library_id"] = "library id is required"
	}
	if strings.TrimSpace(patron.ZipCode) == "" {
		fields["zip_code"] = "zip code is required"
	}
	if len(fields) > 0 {
		return &catalog.ValidationError{Fields: fields}
	}
	return nil
}
