package repository

import (
	"time"

	"github.com/sangkips/spareshop-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ForUpdate returns a GORM scope that takes a row lock (SELECT ... FOR UPDATE)
// held until the surrounding transaction commits or rolls back
func ForUpdate() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
}

// Paginate returns a GORM scope applying offset and limit. It validates params in place.
func Paginate(params *pagination.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		params.Validate()
		return db.Offset(params.Offset()).Limit(params.PerPage)
	}
}

// DateRange returns a GORM scope filtering column to [start, end]. The end
// date is inclusive of the whole day.
func DateRange(column string, start, end *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if start != nil {
			db = db.Where(column+" >= ?", *start)
		}
		if end != nil {
			db = db.Where(column+" < ?", end.AddDate(0, 0, 1))
		}
		return db
	}
}

// ensurePagination substitutes defaults for a nil params pointer
func ensurePagination(params *pagination.PaginationParams) *pagination.PaginationParams {
	if params == nil {
		return pagination.DefaultPagination()
	}
	return params
}
