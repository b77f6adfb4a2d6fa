package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleInventor Role = "INVENTOR"
	RoleLawyer   Role = "LAWYER"
	RoleAdmin    Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleInventor, RoleLawyer, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	HashedPassword string    `json:"-" db:"hashed_password"`
	Role           Role      `json:"role" db:"role"`
	FullName       string    `json:"full_name,omitempty" db:"full_name"`
	Company        string    `json:"company,omitempty" db:"company"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// DisplayName falls back to the email when no full name was given.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}
