package models

// Category is a user-defined label for operations.
//
// Categories are managed elsewhere, they are persisted here so that the
// deletion of one can reassign its operations.
type Category struct {
	DefaultModel
	Title string `json:"title" example:"Groceries"`
	Color string `json:"color" example:"#ff8800"`
}
