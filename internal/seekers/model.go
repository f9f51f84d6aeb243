package seekers

import "time"

// Seeker is a job-seeker profile keyed by the opaque identity string the
// external identity provider assigns. Rows are created lazily on first use.
type Seeker struct {
	Identity   string    `json:"identity"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Location   string    `json:"location"`
	Bio        string    `json:"bio"`
	PhotoURL   string    `json:"photoUrl"`
	ResumeKey  string    `json:"-"`
	ResumeLink string    `json:"resumeLink"`
	ResumeText string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
