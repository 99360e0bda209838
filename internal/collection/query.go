package collection

import (
	"errors"

	"github.com/tartampluch/go-congrats/internal/config"
)

// ErrInvalidConfiguration is returned for a non-positive page size or an unknown sort key.
var ErrInvalidConfiguration = errors.New(config.ErrInvalidConfig)

// SortKey names a sortable column of the friends table.
type SortKey string

const (
	SortByName      SortKey = "name"
	SortByEmail     SortKey = "email"
	SortByBirthDate SortKey = "birthDate"
	SortByAge       SortKey = "age"
)

// SortKeys lists the columns in table order.
var SortKeys = []SortKey{SortByName, SortByEmail, SortByBirthDate, SortByAge}

// Valid reports whether k is one of SortKeys.
func (k SortKey) Valid() bool {
	switch k {
	case SortByName, SortByEmail, SortByBirthDate, SortByAge:
		return true
	}
	return false
}

// SortDir is the ordering direction.
type SortDir int

const (
	Asc SortDir = iota
	Desc
)

// Flip returns the opposite direction.
func (d SortDir) Flip() SortDir {
	if d == Asc {
		return Desc
	}
	return Asc
}

func (d SortDir) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// Query holds every input of the search, sort and paginate pipeline.
type Query struct {
	Text     string
	Key      SortKey
	Dir      SortDir
	Page     int
	PageSize int
}

// DefaultPageSize is the number of rows shown per page on first load.
const DefaultPageSize = config.DefaultPageSize

// PageSizeOptions are the values offered by the page size selector.
var PageSizeOptions = config.PageSizeOptions

// DefaultQuery returns the initial table query: sorted by name, first page.
func DefaultQuery(pageSize int) Query {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Query{Key: SortByName, Dir: Asc, Page: 1, PageSize: pageSize}
}
