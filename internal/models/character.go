// internal/models/character.go
package models

// Character is a catalogued fictional person. FranchiseName and
// FranchiseInfo are filled from the franchise join on reads and are nil when
// the character has no franchise.
type Character struct {
	ID            int64   `json:"charaId"`
	Name          string  `json:"charaName"`
	Age           *int    `json:"charaAge,omitempty"`
	IsOC          bool    `json:"isOc"`
	Creator       *string `json:"charaCreator,omitempty"`
	Info          *string `json:"charaInfo,omitempty"`
	FranchiseID   *int64  `json:"franchiseId,omitempty"`
	FranchiseName *string `json:"franchiseName,omitempty"`
	FranchiseInfo *string `json:"franchiseInfo,omitempty"`
	Image         []byte  `json:"characterImage,omitempty"`
}

// CharacterInput is the write payload for adding or updating a character.
// On update a nil Image keeps the stored image; every other field is
// always overwritten, including to nil.
type CharacterInput struct {
	Name        string
	Age         *int
	IsOC        bool
	Creator     *string
	Info        *string
	FranchiseID *int64
	Image       []byte
}

// Input returns the writable fields of c.
func (c Character) Input() CharacterInput {
	return CharacterInput{
		Name:        c.Name,
		Age:         c.Age,
		IsOC:        c.IsOC,
		Creator:     c.Creator,
		Info:        c.Info,
		FranchiseID: c.FranchiseID,
		Image:       c.Image,
	}
}

// StringPtr returns a pointer to s, for optional text fields.
func StringPtr(s string) *string { return &s }

// IntPtr returns a pointer to i, for optional ages.
func IntPtr(i int) *int { return &i }

// IDPtr returns a pointer to id, for optional franchise references.
func IDPtr(id int64) *int64 { return &id }
