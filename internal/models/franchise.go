// internal/models/franchise.go
package models

// Franchise is a named fictional universe that groups characters.
type Franchise struct {
	ID   int64   `json:"franchiseId"`
	Name string  `json:"franchiseName"`
	Info *string `json:"franchiseInfo,omitempty"`
}
