package model

// Page is one page of a listing plus the total number of matching
// documents, the shape every index endpoint responds with.
type Page[T any] struct {
	Entities []T   `json:"entities"`
	RowCount int64 `json:"row_count"`
}
