package dto

import "time"

type MovementFilters struct {
	ProductID int64 `validate:"required,gt=0"`
	From      *time.Time
	To        *time.Time
}
