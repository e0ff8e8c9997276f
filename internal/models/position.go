package models

// Position is a numbered opening announced for the concours.
// Code is the unique key applicants reference at submission time.
// Removal is an unpublish: Archived positions stop accepting new
// dossiers but keep resolving for the legacy records that point at them.
type Position struct {
	Code          string `json:"code"`
	Title         string `json:"title"`
	OpenPositions int    `json:"openPositions"`
	Archived      bool   `json:"archived"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}
