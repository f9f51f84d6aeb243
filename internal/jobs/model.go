package jobs

import "time"

type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	Level       string    `json:"level"`
	Salary      int64     `json:"salary"`
	Visible     bool      `json:"visible"`
	CompanyID   string    `json:"companyId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Levels accepted for job postings.
const (
	LevelBeginner     = "Beginner Level"
	LevelIntermediate = "Intermediate Level"
	LevelSenior       = "Senior Level"
)

func validLevel(level string) bool {
	switch level {
	case LevelBeginner, LevelIntermediate, LevelSenior:
		return true
	}
	return false
}
