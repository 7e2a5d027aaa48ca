package model

import "github.com/google/uuid"

// BookMaterialCount is one row of the per-book material aggregation.
type BookMaterialCount struct {
	BookID uuid.UUID `json:"book_id"`
	Title  string    `json:"title"`
	Count  int64     `json:"count"`
}

// MaterialStats summarizes material counts regardless of status, with the
// per-book breakdown ordered by count descending. Total counts every
// material row; a material whose book row is gone is therefore included in
// Total but absent from ByBook, so the breakdown sums to Total only while
// every book reference resolves.
type MaterialStats struct {
	Total  int64               `json:"total"`
	ByBook []BookMaterialCount `json:"by_book"`
}
