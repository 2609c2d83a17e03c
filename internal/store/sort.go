package store

import "character-explorer/internal/models"

// sortColumns is the only source of text spliced into ORDER BY clauses.
var sortColumns = map[models.SortKey]string{
	models.SortByName:      "c.chara_name",
	models.SortByCreator:   "c.chara_creator",
	models.SortByFranchise: "f.franchise_name",
	models.SortByAge:       "c.chara_age",
}

// orderBy returns the ORDER BY list for key, with the id as tie-break so
// equal keys list in a stable order.
func orderBy(key models.SortKey) string {
	col, ok := sortColumns[key]
	if !ok {
		col = sortColumns[models.SortByName]
	}
	return col + ", c.chara_id"
}
