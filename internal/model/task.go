package model

import "time"

// Frequency is a closed recurrence enum. A recurring task spawns one
// identical open task when completed; there is no time-based scheduler.
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

// Valid reports whether f is one of the known frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

type Task struct {
	ID          int64      `json:"id"`
	CoupleID    int64      `json:"couple_id"`
	AssignedTo  int64      `json:"assigned_to"`
	CreatedBy   int64      `json:"created_by"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Points      int        `json:"points"`
	Frequency   *Frequency `json:"frequency"`
	Completed   bool       `json:"completed"`
	PhotoPath   string     `json:"photo_path"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// Recurring reports whether completing the task spawns a successor.
func (t *Task) Recurring() bool {
	return t.Frequency != nil
}
