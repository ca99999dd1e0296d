package domain

import "time"

// Email is the audit record of a provider-confirmed send. ExternalID is the
// provider's identifier and is present only when the provider confirmed the
// send. Records are never updated or deleted.
type Email struct {
	ID         int32     `json:"-"`
	Ref        string    `json:"ref"`
	ExternalID string    `json:"external_id"`
	To         string    `json:"to"`
	From       string    `json:"from"`
	Sender     string    `json:"sender"`
	CreatedAt  time.Time `json:"created_at"`
}
