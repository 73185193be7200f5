package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	DisplayName  string     `json:"display_name"`
	StoreName    *string    `json:"store_name,omitempty"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"is_active"`
	IsVip        bool       `json:"is_vip"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type UserSession struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	RefreshTokenHash string     `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	ExpiresAt        time.Time  `json:"expires_at"`
	RevokedAt        *time.Time `json:"revoked_at,omitempty"`
	RevokedReason    *string    `json:"revoked_reason,omitempty"`
}

const (
	RoleCustomer = "cliente"
	RoleVendor   = "vendedor"
	RoleAdmin    = "admin"
)

// CounterpartLabel is the identity shown in conversation listings: vendors
// are listed by their store name when they have one.
func (u *User) CounterpartLabel() string {
	if u.Role == RoleVendor && u.StoreName != nil && *u.StoreName != "" {
		return *u.StoreName
	}
	return u.DisplayName
}
