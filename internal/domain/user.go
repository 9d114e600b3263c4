package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string `gorm:"size:128;not null" json:"-"`
	FirstName    string `gorm:"size:128" json:"first_name,omitempty"`
	LastName     string `gorm:"size:128" json:"last_name,omitempty"`
	Role         Role   `gorm:"size:16;not null;default:user" json:"role"`
	IsVerified   bool   `gorm:"not null;default:false" json:"is_verified"`

	// Both set while the user is unverified, both cleared on verification.
	VerificationCode   *string    `gorm:"size:64;index" json:"-"`
	VerificationExpiry *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
