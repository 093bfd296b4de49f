package models

import "time"

// RequiredTasks is the daily checklist in canonical order. Validation reports
// the first offending task in this order.
var RequiredTasks = []string{
	"exercise",
	"eatHealthy",
	"meditation",
	"reading",
	"learning",
	"noSocialMedia",
	"noFap",
	"noBinge",
}

// Tasks maps a task name to whether it was completed. Keys outside
// RequiredTasks are kept as submitted.
type Tasks map[string]bool

// Points counts every completed task in the mapping, including keys that are
// not part of RequiredTasks.
func (t Tasks) Points() int {
	n := 0
	for _, done := range t {
		if done {
			n++
		}
	}
	return n
}

// Reasons maps a task name to why it was not completed.
type Reasons map[string]string

// DailyRecord is one checklist submission for a user and calendar day.
type DailyRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_user_date" json:"userId"`
	Date        time.Time `gorm:"not null;uniqueIndex:idx_user_date" json:"date"` // local midnight
	Tasks       Tasks     `gorm:"serializer:json;type:text;not null" json:"tasks"`
	Reasons     Reasons   `gorm:"serializer:json;type:text" json:"reasons"`
	TotalPoints int       `gorm:"not null;default:0" json:"totalPoints"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DailyPoints is a single day's entry in the monthly summary.
type DailyPoints struct {
	Date        time.Time `json:"date"`
	TotalPoints int       `json:"totalPoints"`
}

// MonthlySummary sums the points of every record since the first of the month.
type MonthlySummary struct {
	MonthlyTotal int           `json:"monthlyTotal"`
	DailyPoints  []DailyPoints `json:"dailyPoints"`
}
