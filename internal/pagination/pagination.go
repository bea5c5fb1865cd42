package pagination

import (
	"strconv"
	"strings"
)

const (
	// DefaultSize is the page size applied when the caller supplies none.
	DefaultSize = 20
	// MaxSize caps the page size a caller may request.
	MaxSize = 100
)

// sortColumns whitelists the sortable fields and maps them to SQL columns.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"area":      "area",
}

// Request describes one page of results: zero-based page number, page size
// and sort column/direction.
type Request struct {
	Page     int
	Size     int
	SortCol  string
	SortDesc bool
}

// Parse builds a Request from raw query values. Unknown sort fields fall back
// to the supplied default; size is clamped to MaxSize.
func Parse(page, size, sort, defaultSort string) Request {
	req := Request{Size: DefaultSize}

	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		req.Page = n
	}
	if n, err := strconv.Atoi(size); err == nil && n > 0 {
		req.Size = n
	}
	if req.Size > MaxSize {
		req.Size = MaxSize
	}

	if sort == "" {
		sort = defaultSort
	}
	field, desc := splitSort(sort)
	col, ok := sortColumns[field]
	if !ok {
		field, desc = splitSort(defaultSort)
		col = sortColumns[field]
	}
	req.SortCol = col
	req.SortDesc = desc
	return req
}

// Offset returns the row offset for the page.
func (r Request) Offset() int {
	return r.Page * r.Size
}

// OrderClause returns the ORDER BY expression with a stable id tiebreaker so
// repeated requests return identical pages.
func (r Request) OrderClause() string {
	dir := "ASC"
	if r.SortDesc {
		dir = "DESC"
	}
	return r.SortCol + " " + dir + ", id " + dir
}

func splitSort(sort string) (field string, desc bool) {
	parts := strings.SplitN(sort, ",", 2)
	field = strings.TrimSpace(parts[0])
	if len(parts) == 2 && strings.EqualFold(strings.TrimSpace(parts[1]), "desc") {
		desc = true
	}
	return field, desc
}

// Page is one page of results plus totals.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// NewPage assembles a Page from content and the total match count.
func NewPage[T any](content []T, req Request, total int64) *Page[T] {
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	if content == nil {
		content = []T{}
	}
	return &Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}

// Map converts a Page of one type into a Page of another, preserving order
// and totals.
func Map[T, U any](p *Page[T], fn func(T) U) *Page[U] {
	out := make([]U, len(p.Content))
	for i, item := range p.Content {
		out[i] = fn(item)
	}
	return &Page[U]{
		Content:       out,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
	}
}
