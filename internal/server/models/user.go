package models

import "time"

// User is an account that can claim stickers. Name, Phone and Whatsapp are
// the contact fields shown to a finder who scans a claimed code.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Phone        *string   `json:"phone,omitempty"`
	Whatsapp     *string   `json:"whatsapp,omitempty"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ProfileUpdate carries the mutable profile fields for UpdateProfile.
// Nil pointers leave the stored value unchanged.
type ProfileUpdate struct {
	Email    *string `json:"email,omitempty"`
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Whatsapp *string `json:"whatsapp,omitempty"`
}
