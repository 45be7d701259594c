package models

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest selects a zero-based page of a result set.
type PageRequest struct {
	Page int `form:"page" validate:"gte=0"`
	Size int `form:"size" validate:"gte=0,lte=100"`
}

// Normalize fills in the default page size.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Page is a bounded slice of a larger result set plus its metadata.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// NewPage assembles a page; content is never serialised as null.
func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}

// MapPage converts the content of a page, keeping its metadata.
func MapPage[S, T any](p Page[S], fn func(S) T) Page[T] {
	out := make([]T, len(p.Content))
	for i, v := range p.Content {
		out[i] = fn(v)
	}
	return Page[T]{
		Content:       out,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
	}
}

// IsEmpty reports whether the page has no content, including a page past the
// last one of a non-empty result.
func (p Page[T]) IsEmpty() bool {
	return len(p.Content) == 0
}
