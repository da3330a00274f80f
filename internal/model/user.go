package model

// User represents an application user record as stored in the `users`
// table.  Role is a free-form string; "admin" is the top administrative
// role and bypasses all group-based visibility checks.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password.
//  DisplayName  – name shown to other users (falls back to Username).
//  Role         – "user" or "admin".
//  CreatedAt    – timestamp of creation (DB format string).
type User struct {
	ID           int64  // users.id
	Username     string // users.username
	PasswordHash string // users.password_hash
	DisplayName  string // users.display_name
	Role         string // users.role
	CreatedAt    string // users.created_at
}

// RoleAdmin is the top administrative role; it sees every show and is
// never read-only regardless of group membership.
const RoleAdmin = "admin"
