package presenter

import (
	"time"

	authDTO "github.com/secondbrain-ai/deal-intel/internal/adapter/dto/auth"
	"github.com/secondbrain-ai/deal-intel/internal/domain/entities"
)

// ToUserResponse converts a User entity to UserResponse DTO
func ToUserResponse(u *entities.User) *authDTO.UserResponse {
	if u == nil {
		return nil
	}

	return &authDTO.UserResponse{
		ID:            u.ID.String(),
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Email:         u.Email,
		Phone:         u.Phone,
		CompanyName:   u.CompanyName,
		LicenseNumber: u.LicenseNumber,
		EmailVerified: u.EmailVerified,
		PhoneVerified: u.PhoneVerified,
		LastLoginAt:   u.LastLoginAt,
		CreatedAt:     u.CreatedAt,
	}
}

// ToAuthResponse builds the authentication response for a freshly issued token
func ToAuthResponse(user *entities.User, token string, expiry time.Duration) *authDTO.AuthResponse {
	return &authDTO.AuthResponse{
		AccessToken: token,
		ExpiresIn:   int(expiry.Seconds()),
		TokenType:   "Bearer",
		User:        ToUserResponse(user),
	}
}
