package models

// Frequency is the advisory cadence of a chore. It is informational only;
// nothing schedules chores on a timer.
type Frequency string

// Valid chore frequencies.
const (
	Daily    Frequency = "daily"
	Weekly   Frequency = "weekly"
	BiWeekly Frequency = "biweekly"
	Monthly  Frequency = "monthly"
)

// Valid reports whether f is one of the known frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, BiWeekly, Monthly:
		return true
	}
	return false
}

// Chore represents a recurring task whose responsibility rotates through
// the household roster. A chore is always "active": completion is a
// transition that immediately re-enters the active state with the next
// assignee, leaving a ChoreCompletion behind.
type Chore struct {
	// ID is the unique identifier for the chore (UUID format).
	ID string `json:"id"`

	// HouseholdID is the household this chore belongs to.
	HouseholdID string `json:"household_id"`

	// Name is the display name of the chore (e.g., "Dishes").
	Name string `json:"name"`

	// Frequency is the advisory cadence (daily/weekly/biweekly/monthly).
	Frequency Frequency `json:"frequency"`

	// CurrentAssigneeID references the member currently responsible.
	// Always a roster member at the time of the last rotation; may go
	// stale if that member later leaves (not corrected automatically).
	CurrentAssigneeID string `json:"current_assignee_id"`

	// LastCompletedAt is the Unix timestamp of the most recent completion,
	// or zero if the chore has never been completed.
	LastCompletedAt int64 `json:"last_completed_at"`

	// CreatedAt is the Unix timestamp when the chore was created.
	CreatedAt int64 `json:"created_at"`
}

// ChoreCompletion is the append-only audit record of one completion.
type ChoreCompletion struct {
	// ID is the unique identifier for the completion (UUID format).
	ID string `json:"id"`

	// ChoreID is the chore that was completed.
	ChoreID string `json:"chore_id"`

	// CompletedByID references the member who completed the chore.
	CompletedByID string `json:"completed_by_id"`

	// NextAssigneeID references the member the chore rotated to.
	NextAssigneeID string `json:"next_assignee_id"`

	// CompletedAt is the Unix timestamp of the completion.
	CompletedAt int64 `json:"completed_at"`
}
