package model

type Category struct {
	BaseModel
	ParentID    *int64 `db:"parent_id" json:"parent_id"` // Nullable, nil for root categories
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

// CategoryNode is a category placed in its tree with the number of products filed under it.
type CategoryNode struct {
	Category
	Path          string          `json:"path"`
	ProductCount  int             `json:"product_count"`
	Subcategories []*CategoryNode `json:"subcategories,omitempty"`
}
