package model

import "time"

// RoleAdmin is the only role that may open an admin session.
const RoleAdmin = "admin"

// User represents a back-office account.
type User struct {
	ID           int64     `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

// AdminSession binds an opaque bearer token to an admin user until it expires.
type AdminSession struct {
	Token     string    `db:"token"`
	UserID    int64     `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

// AdminIdentity is the authenticated principal behind a valid session token.
type AdminIdentity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// LoginRequest represents the admin login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token string        `json:"token"`
	User  AdminIdentity `json:"user"`
}
