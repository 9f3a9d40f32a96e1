package dto

type ProductFilters struct {
	CategoryID *int64
	MaxStock   *int   // Stock at or below this level
	SortBy     string // name, price, stock, created_at; empty keeps insertion order
	SortOrder  string // asc, desc
}
