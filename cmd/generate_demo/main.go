// Command generate_demo creates a demo database with a small circulating
// collection: books, patrons, and a mix of open, overdue and returned loans.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/entities"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	books := createBooks(db)
	patrons := createPatrons(db)
	createLoans(db, books, patrons)

	log.Println("Demo database generated successfully!")
}

func createBooks(db *database.Database) []entities.Book {
	books := []entities.Book{
		{Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", FirstPublished: 1965},
		{Title: "Pride and Prejudice", Author: "Jane Austen", Genre: "Classic", FirstPublished: 1813},
		{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", Genre: "Science Fiction", FirstPublished: 1969},
		{Title: "Beloved", Author: "Toni Morrison", Genre: "Literary Fiction", FirstPublished: 1987},
		{Title: "The Name of the Rose", Author: "Umberto Eco", Genre: "Mystery", FirstPublished: 1980},
		{Title: "A Wizard of Earthsea", Author: "Ursula K. Le Guin", Genre: "Fantasy", FirstPublished: 1968},
		{Title: "The Remains of the Day", Author: "Kazuo Ishiguro", Genre: "Literary Fiction", FirstPublished: 1989},
		{Title: "Frankenstein", Author: "Mary Shelley", Genre: "Gothic", FirstPublished: 1818},
	}
	for i := range books {
		books[i].Status = entities.BookStatusIn
		if err := db.DB.Create(&books[i]).Error; err != nil {
			log.Fatalf("Failed to create book %s: %v", books[i].Title, err)
		}
		log.Printf("Saved: %s by %s", books[i].Title, books[i].Author)
	}
	return books
}

func createPatrons(db *database.Database) []entities.Patron {
	patrons := []entities.Patron{
		{FirstName: "Ada", LastName: "Smith", Address: "12 Elm St", Email: "ada.smith@example.com", LibraryID: "MCL1001", ZipCode: "97201"},
		{FirstName: "Bruno", LastName: "Keller", Address: "4 Oak Ave", Email: "bruno.keller@example.com", LibraryID: "MCL1002", ZipCode: "97202"},
		{FirstName: "Carmen", LastName: "Ibarra", Email: "carmen.ibarra@example.com", LibraryID: "MCL1003", ZipCode: "97203"},
		{FirstName: "Devi", LastName: "Narayan", Address: "88 Pine Rd", Email: "devi.narayan@example.com", LibraryID: "MCL1004", ZipCode: "97204"},
		{FirstName: "Emil", LastName: "Smirnov", Email: "emil.smirnov@example.com", LibraryID: "MCL1005", ZipCode: "97205"},
	}
	for i := range patrons {
		if err := db.DB.Create(&patrons[i]).Error; err != nil {
			log.Fatalf("Failed to create patron %s: %v", patrons[i].LastName, err)
		}
	}
	return patrons
}

// createLoans seeds one returned loan, one current loan and one overdue loan,
// keeping each book's status consistent with its open loans.
func createLoans(db *database.Database, books []entities.Book, patrons []entities.Patron) {
	day := func(offset int) string {
		return time.Now().AddDate(0, 0, offset).Format(entities.DateLayout)
	}

	returnedOn := day(-20)
	loans := []entities.Loan{
		// Returned well before its due date
		{BookID: books[1].ID, PatronID: patrons[0].ID, LoanedOn: day(-30), ReturnBy: day(-16), ReturnedOn: &returnedOn},
		// Currently out, due next week
		{BookID: books[0].ID, PatronID: patrons[1].ID, LoanedOn: day(-7), ReturnBy: day(7)},
		// Overdue
		{BookID: books[2].ID, PatronID: patrons[4].ID, LoanedOn: day(-21), ReturnBy: day(-7)},
	}
	for i := range loans {
		if err := db.DB.Create(&loans[i]).Error; err != nil {
			log.Fatalf("Failed to create loan: %v", err)
		}
		if loans[i].ReturnedOn == nil {
			err := db.DB.Model(&entities.Book{}).
				Where("id = ?", loans[i].BookID).
				Update("status", entities.BookStatusOut).Error
			if err != nil {
				log.Fatalf("Failed to mark book %d OUT: %v", loans[i].BookID, err)
			}
		}
	}
	log.Printf("Seeded %d loans", len(loans))
}
