package auth

// RegisterRequest represents the request to register a new broker account
type RegisterRequest struct {
	FirstName     string  `json:"first_name" validate:"required,min=1,max=100"`
	LastName      string  `json:"last_name" validate:"required,min=1,max=100"`
	Email         string  `json:"email" validate:"required,email"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,phone"`
	Password      string  `json:"password" validate:"required,min=8,max=72"`
	CompanyName   *string `json:"company_name,omitempty" validate:"omitempty,max=255"`
	LicenseNumber *string `json:"license_number,omitempty" validate:"omitempty,max=100"`
}

// LoginRequest represents the request to log in
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RequestOTPRequest represents the request to send a verification code
type RequestOTPRequest struct {
	Channel string `json:"channel" validate:"required,oneof=email phone"`
}

// VerifyOTPRequest represents the request to verify a contact channel
type VerifyOTPRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}
