package domain

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleClient Role = "CLIENT"
	RoleAdmin  Role = "ADMIN"
)

func (r Role) Code() int {
	switch r {
	case RoleClient:
		return 1
	case RoleAdmin:
		return 2
	default:
		return 0
	}
}

func ParseRole(description string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(description))); r {
	case RoleClient, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", description)
	}
}

type User struct {
	ID           int64
	Email        string
	FullName     string
	BirthDate    time.Time
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Registration is the input of client sign-up. Password is the clear text
// and is hashed before it reaches storage.
type Registration struct {
	Email     string
	Password  string
	FullName  string
	BirthDate time.Time
}

// UserInfo is a user profile with its account, if the user owns one.
type UserInfo struct {
	User    User
	Account *Account
}
