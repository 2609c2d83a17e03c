package seed

import _ "embed"

// CatalogSchema is the JSON Schema every seed document must satisfy.
//
//go:embed catalog.schema.json
var CatalogSchema string

// CurrentVersion is written into exported documents.
const CurrentVersion = "1.0.0"

type Catalog struct {
	Version    string           `json:"version"`
	ExportedAt string           `json:"exportedAt,omitempty"`
	Franchises []FranchiseEntry `json:"franchises,omitempty"`
	Characters []CharacterEntry `json:"characters,omitempty"`
}

type FranchiseEntry struct {
	Name string  `json:"name"`
	Info *string `json:"info,omitempty"`
}

// CharacterEntry references its franchise by name. The image comes either
// from a file relative to the seed document or inline as base64, never both.
type CharacterEntry struct {
	Name        string  `json:"name"`
	Age         *int    `json:"age,omitempty"`
	IsOC        bool    `json:"isOc,omitempty"`
	Creator     *string `json:"creator,omitempty"`
	Info        *string `json:"info,omitempty"`
	Franchise   *string `json:"franchise,omitempty"`
	ImagePath   string  `json:"imagePath,omitempty"`
	ImageBase64 string  `json:"imageBase64,omitempty"`
}
