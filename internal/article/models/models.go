// Package models defines the published-article catalog types.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Article is one published item in the catalog.
type Article struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Abstract    string    `json:"abstract"`
	Authors     []string  `json:"authors"`
	Subjects    []string  `json:"subjects"`
	DOI         string    `json:"doi,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	Views       int64     `json:"views"`
}

// Page is one page of browse or search results.
type Page struct {
	Articles []*Article `json:"articles"`
	Total    int        `json:"total"`
	Offset   int        `json:"offset"`
	Limit    int        `json:"limit"`
}
