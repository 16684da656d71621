package models

import "time"

// Flag is a user complaint about a job posting. JobText is free-form and
// does not reference any prediction.
type Flag struct {
	ID        int64     `json:"id"`
	JobText   string    `json:"job_text"`
	Reason    string    `json:"reason"`
	Comments  string    `json:"comments"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"timestamp"`
}
