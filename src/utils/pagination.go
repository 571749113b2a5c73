package utils

import (
	"vbs/src/types"

	"gorm.io/gorm"
)

// Paginate is a gorm scope for the shared page/per_page query contract.
func Paginate(q types.PageQuery) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		page := q.Page
		if page < 1 {
			page = 1
		}
		perPage := q.PerPage
		if perPage < 1 {
			perPage = 20
		}
		offset := (page - 1) * perPage
		return db.Offset(offset).Limit(perPage)
	}
}

func BuildPageMeta(totalItems int64, itemCount int, q types.PageQuery) types.PageMeta {
	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := q.PerPage
	if perPage < 1 {
		perPage = 20
	}
	totalPages := int((totalItems + int64(perPage) - 1) / int64(perPage))
	return types.PageMeta{
		TotalItems:   totalItems,
		ItemCount:    itemCount,
		ItemsPerPage: perPage,
		CurrentPage:  page,
		TotalPages:   totalPages,
		HasNextPage:  page < totalPages,
		HasPrevPage:  page > 1 && totalPages > 0,
	}
}
