package dto

type CreateCategoryInput struct {
	Name        string `validate:"required,max=100"`
	ParentID    *int64 `validate:"omitempty,gt=0"`
	Description string `validate:"max=500"`
}

// UpdateCategoryInput replaces every editable field; a nil ParentID makes the category a root.
type UpdateCategoryInput struct {
	ID          int64  `validate:"required,gt=0"`
	Name        string `validate:"required,max=100"`
	ParentID    *int64 `validate:"omitempty,gt=0"`
	Description string `validate:"max=500"`
}
