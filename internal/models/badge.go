package models

// Badge is a static catalog entry. Earned state lives on the user as a
// UserBadge keyed by ID.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
