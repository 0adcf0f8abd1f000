package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/database/patrons"
	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/session"
)

type PatronsController struct {
	repo     *patrons.Repository
	sessions *session.Manager
}

func NewPatronsController(repo *patrons.Repository, sessions *session.Manager) *PatronsController {
	return &PatronsController{
		repo:     repo,
		sessions: sessions,
	}
}

// List serves GET /api/patrons with pagination and per-column prefix search.
func (controller *PatronsController) List(c *gin.Context) {
	directive, err := parseDirective(c)
	if err != nil {
		respondDomainError(c, err, "list patrons", nil)
		return
	}

	state := controller.sessions.FilterState(c.Request, "patrons:all", catalog.Patrons.NewState())
	if err := state.Apply(directive, catalog.Patrons); err != nil {
		respondDomainError(c, err, "list patrons", nil)
		return
	}
	controller.sessions.PutFilterState(c.Request, "patrons:all", state)

	rows, total, err := controller.repo.List(state)
	if err != nil {
		respondInternalError(c, err, "list patrons")
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Data:              rows,
		PageMeta:          state.PageMeta(total),
		FilterDescription: state.Description(),
	})
}

// Get serves GET /api/patrons/:id with the patron's full loan history.
func (controller *PatronsController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	patron, err := controller.repo.GetByID(id)
	if err != nil {
		respondDomainError(c, err, "get patron", nil)
		return
	}
	c.JSON(http.StatusOK, patron)
}

// Create serves POST /api/patrons.
func (controller *PatronsController) Create(c *gin.Context) {
	var patron entities.Patron
	if err := c.ShouldBindJSON(&patron); err != nil {
		respondBadRequest(c, "invalid patron payload: "+err.Error())
		return
	}
	if err := controller.repo.Create(&patron); err != nil {
		respondDomainError(c, err, "create patron", patron)
		return
	}
	c.JSON(http.StatusCreated, patron)
}

// Update serves PUT /api/patrons/:id.
func (controller *PatronsController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var fields entities.Patron
	if err := c.ShouldBindJSON(&fields); err != nil {
		respondBadRequest(c, "invalid patron payload: "+err.Error())
		return
	}
	patron, err := controller.repo.Update(id, &fields)
	if err != nil {
		respondDomainError(c, err, "update patron", fields)
		return
	}
	c.JSON(http.StatusOK, patron)
}
