package models

import "time"

// ShortLink represents a shortened URL and its associated metadata.
type ShortLink struct {
	// ID is the unique identifier for the link record.
	ID int64
	// Hash is the short opaque token the original URL is addressed by.
	// It is immutable once assigned and never reused for a different URL.
	Hash string
	// OriginalURL is the original, full-length URL that the hash points to.
	OriginalURL string
	// ClickCount tracks the number of times the link has been resolved.
	// It only ever grows.
	ClickCount int64
	// CreatedAt is the timestamp indicating when the link was created.
	CreatedAt time.Time
	// UpdatedAt is the timestamp indicating when the link was last updated.
	UpdatedAt time.Time
}

// SortField names a ShortLink attribute the listing can be ordered by.
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
)

// SortOrder is the direction of a listing.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Page is a single page of a listing result. It is constructed per call and
// never persisted.
type Page[T any] struct {
	// Data holds the records of the page, possibly none.
	Data []T
	// CurrentPage is the 1-based page that was actually served.
	CurrentPage int
	// TotalPages is the number of pages available; 0 when there are no records.
	TotalPages int
}
