package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a broker account in the system
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FirstName string    `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName  string    `json:"last_name" gorm:"type:varchar(100);not null"`
	Email     string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Phone     *string   `json:"phone,omitempty" gorm:"type:varchar(20);uniqueIndex"`
	IsActive  bool      `json:"is_active" gorm:"default:true;not null"`

	PasswordHash string `json:"-" gorm:"column:password_hash;type:text;not null"` // Never expose in JSON

	CompanyName   *string `json:"company_name,omitempty" gorm:"type:varchar(255)"`
	LicenseNumber *string `json:"license_number,omitempty" gorm:"type:varchar(100)"`

	// Verification state gates the unverified meeting quota
	EmailVerified bool       `json:"email_verified" gorm:"default:false;not null"`
	PhoneVerified bool       `json:"phone_verified" gorm:"default:false;not null"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty" gorm:"type:timestamp"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewUser creates a new broker with default values
func NewUser(firstName, lastName, email, passwordHash string) *User {
	now := time.Now()
	return &User{
		ID:           uuid.New(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// FullName concatenates first and last name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsVerified reports whether either contact channel has been verified.
// Unverified accounts are subject to the meeting creation quota.
func (u *User) IsVerified() bool {
	return u.EmailVerified || u.PhoneVerified
}

// UpdateLastLogin updates the last login timestamp
func (u *User) UpdateLastLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// Validate validates user data
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrInvalidEmail
	}
	if u.FirstName == "" && u.LastName == "" {
		return ErrInvalidName
	}
	return nil
}

// PublicUser returns a user with sensitive fields removed
type PublicUser struct {
	ID            uuid.UUID `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	Phone         *string   `json:"phone,omitempty"`
	CompanyName   *string   `json:"company_name,omitempty"`
	LicenseNumber *string   `json:"license_number,omitempty"`
	EmailVerified bool      `json:"email_verified"`
	PhoneVerified bool      `json:"phone_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToPublic converts User to PublicUser
func (u *User) ToPublic() *PublicUser {
	return &PublicUser{
		ID:            u.ID,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Email:         u.Email,
		Phone:         u.Phone,
		CompanyName:   u.CompanyName,
		LicenseNumber: u.LicenseNumber,
		EmailVerified: u.EmailVerified,
		PhoneVerified: u.PhoneVerified,
		CreatedAt:     u.CreatedAt,
	}
}
