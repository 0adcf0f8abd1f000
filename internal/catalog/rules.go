package catalog

// Rulesets for the three listings. Sort keys and search columns are
// whitelisted here; anything outside these maps is rejected at Apply time
// and never reaches the store.

// Books covers the book listings. Sorting by status groups available books
// before checked-out ones.
var Books = Ruleset{
	DefaultOrder: "title",
	Orders: map[string]string{
		"title":           "books.title ASC",
		"author":          "books.author ASC",
		"genre":           "books.genre ASC",
		"first-published": "books.first_published ASC",
		"status":          "books.status ASC, books.title ASC",
	},
	Columns: map[string]string{
		"title":  "books.title",
		"author": "books.author",
		"genre":  "books.genre",
	},
}

// Patrons covers the patron listing. The "name" sort key is composite:
// last name, then first name.
var Patrons = Ruleset{
	DefaultOrder: "name",
	Orders: map[string]string{
		"name":       "patrons.last_name ASC, patrons.first_name ASC",
		"email":      "patrons.email ASC",
		"library-id": "patrons.library_id ASC",
		"zip-code":   "patrons.zip_code ASC",
	},
	Columns: map[string]string{
		"last-name":  "patrons.last_name",
		"address":    "patrons.address",
		"email":      "patrons.email",
		"library-id": "patrons.library_id",
	},
}

// Loans covers the loan listings, which always join books and patrons, so
// both sets of columns are reachable.
var Loans = Ruleset{
	DefaultOrder: "title",
	Orders: map[string]string{
		"title":       "books.title ASC",
		"name":        "patrons.last_name ASC, patrons.first_name ASC",
		"loaned-on":   "loans.loaned_on ASC",
		"return-by":   "loans.return_by ASC",
		"returned-on": "loans.returned_on ASC",
	},
	Columns: map[string]string{
		"title":      "books.title",
		"author":     "books.author",
		"last-name":  "patrons.last_name",
		"library-id": "patrons.library_id",
	},
}
