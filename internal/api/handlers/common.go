// Package handlers provides HTTP handlers for the Cereal API.
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// parsePagination reads limit/page query parameters. Page numbering is
// 1-based; the limit is capped at maxPageSize.
func parsePagination(c *gin.Context) (limit, offset int) {
	limit = defaultPageSize
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "")); err == nil && l > 0 {
		limit = l
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	page := 1
	if p, err := strconv.Atoi(c.DefaultQuery("page", "")); err == nil && p > 0 {
		page = p
	}
	offset = (page - 1) * limit
	return limit, offset
}
