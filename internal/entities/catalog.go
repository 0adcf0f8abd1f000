package entities

import "time"

// DateLayout is the storage format for all loan dates. Dates are kept as
// plain YYYY-MM-DD strings so lexical comparison matches chronological order.
const DateLayout = "2006-01-02"

// LoanPeriodDays is the default length of a loan.
const LoanPeriodDays = 14

type BookStatus string

const (
	BookStatusIn  BookStatus = "IN"
	BookStatusOut BookStatus = "OUT"
)

type Book struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Title          string     `gorm:"index;size:512" json:"title"`
	Author         string     `gorm:"index;size:256" json:"author"`
	Genre          string     `gorm:"index;size:100" json:"genre"`
	FirstPublished int        `json:"first_published,omitempty"`
	Status         BookStatus `gorm:"size:3;default:'IN'" json:"status"`
	Loans          []Loan     `gorm:"foreignKey:BookID" json:"loans,omitempty"`
}

type Patron struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	FirstName string `gorm:"index;size:100" json:"first_name"`
	LastName  string `gorm:"index;size:100" json:"last_name"`
	Address   string `gorm:"size:256" json:"address,omitempty"`
	Email     string `gorm:"index;size:255" json:"email"`
	LibraryID string `gorm:"index;size:50" json:"library_id"`
	ZipCode   string `gorm:"size:10" json:"zip_code"`
	Loans     []Loan `gorm:"foreignKey:PatronID" json:"loans,omitempty"`
}

type Loan struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	BookID     uint    `gorm:"index" json:"book_id"`
	PatronID   uint    `gorm:"index" json:"patron_id"`
	LoanedOn   string  `gorm:"size:10" json:"loaned_on"`
	ReturnBy   string  `gorm:"size:10" json:"return_by"`
	ReturnedOn *string `gorm:"size:10;index" json:"returned_on"`
	Book       Book    `gorm:"foreignKey:BookID" json:"book,omitempty"`
	Patron     Patron  `gorm:"foreignKey:PatronID" json:"patron,omitempty"`
}

func (Book) TableName() string {
	return "books"
}

func (Patron) TableName() string {
	return "patrons"
}

func (Loan) TableName() string {
	return "loans"
}

// Open reports whether the loan has not been returned yet.
func (l *Loan) Open() bool {
	return l.ReturnedOn == nil
}

// OverdueAt reports whether the loan is open and past its due date on the
// given day.
func (l *Loan) OverdueAt(today string) bool {
	return l.Open() && l.ReturnBy < today
}

// Today returns the current date in storage format.
func Today() string {
	return time.Now().Format(DateLayout)
}

// DueDate returns the default return-by date for a loan made on the given day.
func DueDate(loanedOn string) string {
	t, err := time.Parse(DateLayout, loanedOn)
	if err != nil {
		t = time.Now()
	}
	return t.AddDate(0, 0, LoanPeriodDays).Format(DateLayout)
}
