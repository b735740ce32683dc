// Package history pages through the edit history of the backend.
package history

import (
	"strconv"
	"strings"
)

// PageSize is the number of entries requested per page.
const PageSize = 100

// Page is a 1-based page of the edit history.
type Page int

// ParsePage reads a page number from a query value. Values that are not
// a positive integer yield the first page.
func ParsePage(s string) Page {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return Page(n)
}

// Skip is the number of entries before the page.
func (p Page) Skip() int {
	return (int(p) - 1) * PageSize
}

// Limit is the number of entries requested for the page.
func (p Page) Limit() int {
	return PageSize
}

func (p Page) HasPrevious() bool {
	return p > 1
}

// HasNext reports whether another page may follow. A page that came back
// short is the last one.
func (p Page) HasNext(returned int) bool {
	return returned >= PageSize
}

func (p Page) Previous() Page {
	if p <= 1 {
		return 1
	}
	return p - 1
}

func (p Page) Next() Page {
	return p + 1
}
