package dto

type CategoryFilters struct {
	ParentID  *int64 // Nil means ignore
	RootsOnly bool   // Only categories without a parent
}
