package model

import "time"

// User roles.  Admins can view any booking and run maintenance
// operations; regular users only act on their own bookings.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is a registered account.  PasswordHash is a bcrypt hash and is
// never serialized to API responses.
//
// Fields:
//
//	ID           – primary key identifier.
//	Email        – unique login email.
//	PasswordHash – bcrypt hash of the password.
//	FullName     – display name.
//	Role         – USER or ADMIN.
//	CreatedAt    – registration timestamp.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	FullName     string    // users.full_name
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
}
