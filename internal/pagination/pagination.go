// Package pagination turns page/limit query parameters into store offsets.
package pagination

const (
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps Offset far from integer overflow.
	MaxPage = 1_000_000
)

// Page is a normalized 1-based page request.
type Page struct {
	Number int
	Size   int
}

// New clamps page to [1, MaxPage] and size to [1, MaxLimit], defaulting to DefaultLimit.
func New(page, size int) Page {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size < 1 {
		size = DefaultLimit
	}
	if size > MaxLimit {
		size = MaxLimit
	}
	return Page{Number: page, Size: size}
}

// Offset is the number of records to skip before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
