package domain

import "time"

type Content struct {
	ID        string
	Title     string
	Body      string
	Slug      string
	UpdatedAt time.Time
}

// NarrationText is the raw text submitted to the narration pipeline: the
// title read first, then the body.
func (c Content) NarrationText() string {
	return c.Title + ". " + c.Body
}
