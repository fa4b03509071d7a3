package models

// Household represents a shared living space that owns chores, shopping
// items, and expenses.
type Household struct {
	// ID is the unique identifier for the household (UUID format).
	ID string `json:"id"`

	// Name is the display name of the household (e.g., "Elm St Apartment").
	Name string `json:"name"`

	// CreatedAt is the Unix timestamp when the household was created.
	CreatedAt int64 `json:"created_at"`
}

// Member represents one person in a household roster.
//
// Roster order is join order and is stable: it defines the rotation ring
// used by chores and shopping items.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string `json:"id"`

	// HouseholdID is the household this membership belongs to.
	HouseholdID string `json:"household_id"`

	// DisplayName is the member's chosen name. May be empty if the member
	// never set one; use Name for display.
	DisplayName string `json:"display_name"`

	// Email is the member's email address, used as the display fallback.
	Email string `json:"email"`

	// JoinedAt is the Unix timestamp when the member joined the household.
	JoinedAt int64 `json:"joined_at"`
}

// Name returns the display name, falling back to the email address when no
// display name is set.
func (m Member) Name() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.Email
}
