package auth

import "time"

// UserResponse represents broker account information in responses
type UserResponse struct {
	ID            string     `json:"id"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Email         string     `json:"email"`
	Phone         *string    `json:"phone,omitempty"`
	CompanyName   *string    `json:"company_name,omitempty"`
	LicenseNumber *string    `json:"license_number,omitempty"`
	EmailVerified bool       `json:"email_verified"`
	PhoneVerified bool       `json:"phone_verified"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// AuthResponse represents the authentication response with the access token
type AuthResponse struct {
	AccessToken string        `json:"access_token"`
	ExpiresIn   int           `json:"expires_in"` // seconds
	TokenType   string        `json:"token_type"` // "Bearer"
	User        *UserResponse `json:"user"`
}

// OTPResponse acknowledges an OTP request or verification
type OTPResponse struct {
	Channel  string `json:"channel"`
	Verified bool   `json:"verified"`
}
