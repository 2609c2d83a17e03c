// internal/models/sort.go
package models

// SortKey selects the column the character list is ordered by.
type SortKey string

const (
	SortByName      SortKey = "chara_name"
	SortByCreator   SortKey = "chara_creator"
	SortByFranchise SortKey = "franchise_name"
	SortByAge       SortKey = "chara_age"
)

// SortKeys lists every accepted key, in display order.
var SortKeys = []SortKey{SortByName, SortByCreator, SortByFranchise, SortByAge}
