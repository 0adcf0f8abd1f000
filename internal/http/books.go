package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/database/books"
	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/session"
)

type BooksController struct {
	repo     *books.Repository
	sessions *session.Manager
}

func NewBooksController(repo *books.Repository, sessions *session.Manager) *BooksController {
	return &BooksController{
		repo:     repo,
		sessions: sessions,
	}
}

// List serves GET /api/books. The view parameter selects all, checked-out or
// overdue books; search/sort/page directives fold into the session's filter
// state for that view before the query runs.
func (controller *BooksController) List(c *gin.Context) {
	view, err := catalog.ParseView(c.Query("view"))
	if err != nil {
		respondDomainError(c, err, "list books", nil)
		return
	}
	directive, err := parseDirective(c)
	if err != nil {
		respondDomainError(c, err, "list books", nil)
		return
	}

	stateKey := "books:" + string(view)
	state := controller.sessions.FilterState(c.Request, stateKey, catalog.Books.NewState())
	if err := state.Apply(directive, catalog.Books); err != nil {
		respondDomainError(c, err, "list books", nil)
		return
	}
	controller.sessions.PutFilterState(c.Request, stateKey, state)

	rows, total, err := controller.repo.List(state, view, entities.Today())
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Data:              rows,
		PageMeta:          state.PageMeta(total),
		FilterDescription: state.Description(),
	})
}

// Get serves GET /api/books/:id with the book's full loan history.
func (controller *BooksController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	book, err := controller.repo.GetByID(id)
	if err != nil {
		respondDomainError(c, err, "get book", nil)
		return
	}
	c.JSON(http.StatusOK, book)
}

// Create serves POST /api/books.
func (controller *BooksController) Create(c *gin.Context) {
	var book entities.Book
	if err := c.ShouldBindJSON(&book); err != nil {
		respondBadRequest(c, "invalid book payload: "+err.Error())
		return
	}
	if err := controller.repo.Create(&book); err != nil {
		respondDomainError(c, err, "create book", book)
		return
	}
	c.JSON(http.StatusCreated, book)
}

// Update serves PUT /api/books/:id.
func (controller *BooksController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var fields entities.Book
	if err := c.ShouldBindJSON(&fields); err != nil {
		respondBadRequest(c, "invalid book payload: "+err.Error())
		return
	}
	book, err := controller.repo.Update(id, &fields)
	if err != nil {
		respondDomainError(c, err, "update book", fields)
		return
	}
	c.JSON(http.StatusOK, book)
}
