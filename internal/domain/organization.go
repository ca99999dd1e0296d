package domain

import "time"

type Organization struct {
	ID        int32     `json:"-"`
	Ref       string    `json:"ref"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
