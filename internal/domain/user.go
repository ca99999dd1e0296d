package domain

import "time"

type User struct {
	ID           int32     `json:"-"`
	Ref          string    `json:"ref"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
