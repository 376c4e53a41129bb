// Package types contains common types used across the application
package types

// FacetSummary describes one facet dimension for listing endpoints.
type FacetSummary struct {
	Name   string       `json:"name"`
	Flag   bool         `json:"flag"`
	Labels []LabelCount `json:"labels,omitempty"`
	Count  int          `json:"count,omitempty"` // flag facets only
}

// LabelCount is one facet label with the number of events carrying it.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DayInfo summarizes a convention day.
type DayInfo struct {
	Date         string `json:"date"`
	Events       int    `json:"events"`
	EarliestTime string `json:"earliestTime"`
	LatestTime   string `json:"latestTime"`
}

// Page wraps a paginated list response.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Paginate cuts one page out of items. page is 1-based; values below 1
// select the first page, and a limit below 1 returns everything.
func Paginate[T any](items []T, page, limit int) Page[T] {
	total := len(items)
	if limit < 1 {
		limit = max(total, 1)
	}
	page = max(page, 1)
	p := Page[T]{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}
	start := (page - 1) * limit
	if start >= total {
		p.Items = []T{}
		return p
	}
	p.Items = items[start:min(start+limit, total)]
	return p
}
