package models

import "time"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AdminUser is a dashboard operator. Visitors are never users.
type AdminUser struct {
	ID             int        `json:"id"`
	Email          string     `json:"email"`
	HashedPassword []byte     `json:"-"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
