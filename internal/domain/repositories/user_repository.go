package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/secondbrain-ai/deal-intel/internal/domain/entities"
)

// UserRepository defines the interface for broker account data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *entities.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*entities.User, error)

	// Update updates a user
	Update(ctx context.Context, user *entities.User) error

	// UpdateLastLogin updates the last login timestamp
	UpdateLastLogin(ctx context.Context, userID uuid.UUID) error

	// MarkEmailVerified flips the email verification flag
	MarkEmailVerified(ctx context.Context, userID uuid.UUID) error

	// MarkPhoneVerified flips the phone verification flag
	MarkPhoneVerified(ctx context.Context, userID uuid.UUID) error

	// Delete soft deletes a user (sets is_active to false)
	Delete(ctx context.Context, id uuid.UUID) error
}
