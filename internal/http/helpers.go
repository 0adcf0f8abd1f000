package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/catalog"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// ListResponse wraps one page of a listing with its page metadata and the
// active filter description.
type ListResponse struct {
	Data              any              `json:"data"`
	PageMeta          catalog.PageMeta `json:"page_meta"`
	FilterDescription string           `json:"filter_description,omitempty"`
}

// ValidationDetails carries field-level messages plus the submitted record
// so the caller can redisplay the form.
type ValidationDetails struct {
	Fields map[string]string `json:"fields"`
	Record any               `json:"record,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondValidationError sends a 422 with field-level messages and the
// submitted record for redisplay.
func respondValidationError(c *gin.Context, ve *catalog.ValidationError, record any) {
	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Code:    "validation_failed",
		Details: ValidationDetails{Fields: ve.Fields, Record: record},
	})
}

// respondInternalError logs the error and sends a 500 Internal Server Error
// response. The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondDomainError maps a repository error onto the right status code:
// validation 422, not found 404, conflict 409, anything else 500.
func respondDomainError(c *gin.Context, err error, context string, record any) {
	if ve := catalog.AsValidation(err); ve != nil {
		respondValidationError(c, ve, record)
		return
	}
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "not_found"})
		return
	}
	var conflict *catalog.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, ErrorResponse{Error: conflict.Message, Code: "conflict"})
		return
	}
	respondInternalError(c, err, context)
}

// --- Request Parsing Helpers ---

// parseID extracts a numeric id path parameter.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// parseDirective extracts the optional search/sort/page parameters of a
// listing request. "search=off" switches filtering off; "search_on" +
// "search_str" add or replace one column's prefix filter.
func parseDirective(c *gin.Context) (catalog.Directive, error) {
	var d catalog.Directive

	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return d, catalog.NewValidationError("offset", "offset must be an integer")
		}
		d.Offset = &offset
	}
	d.Order = c.Query("order")
	if c.Query("search") == "off" {
		d.SearchOff = true
		return d, nil
	}
	d.SearchOn = c.Query("search_on")
	d.Search = c.Query("search_str")
	return d, nil
}
