// Package http wires the gin router and JSON controllers for the catalog.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/database/books"
	"github.com/mrlokans/librarian/internal/database/loans"
	"github.com/mrlokans/librarian/internal/database/patrons"
	"github.com/mrlokans/librarian/internal/demo"
	"github.com/mrlokans/librarian/internal/session"
	"github.com/mrlokans/librarian/internal/tasks"
)

// RouterConfig carries the dependencies for building the router.
type RouterConfig struct {
	Database   *database.Database
	Sessions   *session.Manager
	TaskClient *tasks.Client
	DemoMode   bool
	Version    string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Session middleware carries per-session filter state between requests
	if cfg.Sessions != nil {
		router.Use(cfg.Sessions.LoadSave())
	}

	router.Use(demo.NewMiddleware(cfg.DemoMode).Handler())

	booksRepo := books.NewRepository(cfg.Database.DB)
	patronsRepo := patrons.NewRepository(cfg.Database.DB)
	loansRepo := loans.NewRepository(cfg.Database.DB)

	health := NewHealthController(cfg.Database, cfg.Version)
	booksController := NewBooksController(booksRepo, cfg.Sessions)
	patronsController := NewPatronsController(patronsRepo, cfg.Sessions)
	loansController := NewLoansController(loansRepo, cfg.Sessions)
	adminController := NewAdminController(loansRepo, cfg.TaskClient)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Books API endpoints
	router.GET("/api/books", booksController.List)
	router.GET("/api/books/:id", booksController.Get)
	router.GET("/api/books/:id/open-loan", loansController.OpenLoanForBook)
	router.POST("/api/books", booksController.Create)
	router.PUT("/api/books/:id", booksController.Update)

	// Patrons API endpoints
	router.GET("/api/patrons", patronsController.List)
	router.GET("/api/patrons/:id", patronsController.Get)
	router.POST("/api/patrons", patronsController.Create)
	router.PUT("/api/patrons/:id", patronsController.Update)

	// Loans API endpoints
	router.GET("/api/loans", loansController.List)
	router.GET("/api/loans/new-options", loansController.NewOptions)
	router.POST("/api/loans", loansController.Checkout)
	router.PUT("/api/loans/:id/return", loansController.Return)

	// Maintenance endpoints
	router.POST("/api/admin/reconcile", adminController.Reconcile)

	return router
}
