package applications

import "time"

type Application struct {
	ID                string    `json:"id"`
	JobID             string    `json:"jobId"`
	ApplicantIdentity string    `json:"applicantIdentity"`
	Status            string    `json:"status"`
	AppliedAt         time.Time `json:"appliedAt"`
}

// Application lifecycle states.
const (
	StatusPending  = "Pending"
	StatusAccepted = "Accepted"
	StatusRejected = "Rejected"
)

func validStatus(status string) bool {
	switch status {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}
