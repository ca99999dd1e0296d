package domain

import "time"

// Team is referenced by invitations via its ref. Full lifecycle management
// lives outside the invitation core.
type Team struct {
	ID        int32     `json:"-"`
	Ref       string    `json:"ref"`
	Title     string    `json:"title"`
	OrgRef    *string   `json:"org_ref"`
	CreatedAt time.Time `json:"created_at"`
}
