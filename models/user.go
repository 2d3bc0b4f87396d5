package models

import "time"

type User struct {
	UserID        string    `json:"userid" bson:"userid"`
	Email         string    `json:"email,omitempty" bson:"email,omitempty"`
	PasswordHash  string    `json:"-" bson:"password_hash,omitempty"`
	Anonymous     bool      `json:"anonymous,omitempty" bson:"anonymous,omitempty"`
	RefreshToken  string    `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry time.Time `json:"-" bson:"refresh_expiry,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	LastLogin     time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
}
