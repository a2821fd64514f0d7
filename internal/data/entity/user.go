package entity

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is a registered account. Username, email and phone number (when set)
// are unique across all users.
type User struct {
	Base
	Username     string   `db:"username"`
	Email        string   `db:"email"`
	PhoneNumber  *string  `db:"phonenumber"`
	PasswordHash string   `db:"password"`
	IsVerified   bool     `db:"is_verified"`
	Role         UserRole `db:"role"`
}

// NewUser returns an unverified account. An empty role defaults to RoleUser.
func NewUser(username, email string, phone *string, passwordHash string, role UserRole, now time.Time) *User {
	if role == "" {
		role = RoleUser
	}
	if phone != nil && *phone == "" {
		phone = nil
	}

	return &User{
		Base: Base{
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     username,
		Email:        email,
		PhoneNumber:  phone,
		PasswordHash: passwordHash,
		IsVerified:   false,
		Role:         role,
	}
}
