package user

import "time"

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// DefaultReputation is the score every new account starts with.
const DefaultReputation uint8 = 100

func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID         uint64
	Name       string
	Email      string
	Role       Role
	Reputation uint8
	Password   string // bcrypt hash, only populated on auth lookups
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

type CreateUserInput struct {
	Name  string
	Email string
	Role  Role
}

type UpdateUserInput struct {
	Name       *string
	Email      *string
	Role       *Role
	Reputation *uint8
}
