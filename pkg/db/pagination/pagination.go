// Package pagination holds shared page/size request handling.
package pagination

import "gorm.io/gorm"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Request is the page/size pair bound from query parameters.
type Request struct {
	Page int `form:"page"`
	Size int `form:"size"`
}

// PageInfo is embedded in list responses.
type PageInfo struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalItems int64 `json:"total_items"`
}

func (r Request) normalized() (int, int) {
	page := r.Page
	if page < 1 {
		page = 1
	}
	size := r.Size
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

// Apply adds LIMIT/OFFSET to a query.
func (r Request) Apply(query *gorm.DB) *gorm.DB {
	page, size := r.normalized()
	return query.Offset((page - 1) * size).Limit(size)
}

// Info builds the PageInfo for a total row count.
func (r Request) Info(total int64) PageInfo {
	page, size := r.normalized()
	return PageInfo{Page: page, Size: size, TotalItems: total}
}
