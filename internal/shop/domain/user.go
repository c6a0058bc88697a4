package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// StartingBalance is credited to every newly registered account.
var StartingBalance = decimal.NewFromInt(5)

type User struct {
	ID           int64
	Username     string
	PasswordHash string // argon2id PHC string
	OTPSecret    string // base32 TOTP secret
	Role         Role
	Balance      decimal.Decimal
	CreatedAt    time.Time
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
