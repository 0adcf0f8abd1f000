package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/database/loans"
	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/session"
)

type LoansController struct {
	repo     *loans.Repository
	sessions *session.Manager
}

func NewLoansController(repo *loans.Repository, sessions *session.Manager) *LoansController {
	return &LoansController{
		repo:     repo,
		sessions: sessions,
	}
}

// CheckoutRequest is the payload for creating a loan.
type CheckoutRequest struct {
	BookID   uint `json:"book_id"`
	PatronID uint `json:"patron_id"`
}

// ReturnRequest is the payload for returning a loan. ReturnedOn defaults to
// today.
type ReturnRequest struct {
	ReturnedOn string `json:"returned_on"`
}

// List serves GET /api/loans. Rows carry their joined book and patron.
func (controller *LoansController) List(c *gin.Context) {
	view, err := catalog.ParseView(c.Query("view"))
	if err != nil {
		respondDomainError(c, err, "list loans", nil)
		return
	}
	directive, err := parseDirective(c)
	if err != nil {
		respondDomainError(c, err, "list loans", nil)
		return
	}

	stateKey := "loans:" + string(view)
	state := controller.sessions.FilterState(c.Request, stateKey, catalog.Loans.NewState())
	if err := state.Apply(directive, catalog.Loans); err != nil {
		respondDomainError(c, err, "list loans", nil)
		return
	}
	controller.sessions.PutFilterState(c.Request, stateKey, state)

	rows, total, err := controller.repo.List(state, view, entities.Today())
	if err != nil {
		respondInternalError(c, err, "list loans")
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Data:              rows,
		PageMeta:          state.PageMeta(total),
		FilterDescription: state.Description(),
	})
}

// NewOptions serves GET /api/loans/new-options: the available books and all
// patrons for populating a new-loan form.
func (controller *LoansController) NewOptions(c *gin.Context) {
	opts, err := controller.repo.NewLoanOptions()
	if err != nil {
		respondInternalError(c, err, "new loan options")
		return
	}
	c.JSON(http.StatusOK, opts)
}

// Checkout serves POST /api/loans. Fails with 409 when the book is not IN.
func (controller *LoansController) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid loan payload: "+err.Error())
		return
	}
	fields := make(map[string]string)
	if req.BookID == 0 {
		fields["book_id"] = "book id is required"
	}
	if req.PatronID == 0 {
		fields["patron_id"] = "patron id is required"
	}
	if len(fields) > 0 {
		respondValidationError(c, &catalog.ValidationError{Fields: fields}, req)
		return
	}

	loan, err := controller.repo.Checkout(req.BookID, req.PatronID, entities.Today())
	if err != nil {
		respondDomainError(c, err, "checkout", req)
		return
	}
	c.JSON(http.StatusCreated, loan)
}

// Return serves PUT /api/loans/:id/return.
func (controller *LoansController) Return(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ReturnRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "invalid return payload: "+err.Error())
			return
		}
	}
	returnedOn := req.ReturnedOn
	if returnedOn == "" {
		returnedOn = entities.Today()
	}

	loan, err := controller.repo.Return(id, returnedOn)
	if err != nil {
		respondDomainError(c, err, "return loan", req)
		return
	}
	c.JSON(http.StatusOK, loan)
}

// OpenLoanResponse pairs the open loan with a suggested return date for the
// return form.
type OpenLoanResponse struct {
	Loan       *entities.Loan `json:"loan"`
	ReturnedOn string         `json:"returned_on"`
}

// OpenLoanForBook serves GET /api/books/:id/open-loan: the loan to close when
// a book comes back, pre-filled with today's date.
func (controller *LoansController) OpenLoanForBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	loan, err := controller.repo.OpenLoanForBook(id)
	if err != nil {
		respondDomainError(c, err, "open loan for book", nil)
		return
	}
	c.JSON(http.StatusOK, OpenLoanResponse{Loan: loan, ReturnedOn: entities.Today()})
}
