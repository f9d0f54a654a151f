package domain

import "time"

// User represents an account holder. Email is the login identifier;
// username is an alternative handle accepted at login.
type User struct {
	ID           int64     `bson:"_id" json:"id"`
	Username     string    `bson:"username" json:"username"` // Unique
	Email        string    `bson:"email" json:"email"`       // Unique
	PasswordHash string    `bson:"passwordHash" json:"-"`    // Never expose this via JSON
	IsActive     bool      `bson:"isActive" json:"-"`        // Disabled accounts cannot log in
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// ProfileUpdate carries the self-service profile fields. Nil means "leave as is".
type ProfileUpdate struct {
	Username *string
	Email    *string
}
