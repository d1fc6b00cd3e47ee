package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/secondbrain-ai/deal-intel/errors"
	"github.com/secondbrain-ai/deal-intel/internal/domain/entities"
	"github.com/secondbrain-ai/deal-intel/internal/domain/repositories"
	"github.com/secondbrain-ai/deal-intel/internal/infrastructure/cache"
	"github.com/secondbrain-ai/deal-intel/internal/infrastructure/notify"
	"github.com/secondbrain-ai/deal-intel/pkg/jwt"
)

// Verification channels
const (
	ChannelEmail = "email"
	ChannelPhone = "phone"
)

// RegisterInput is the payload for broker registration
type RegisterInput struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         *string
	Password      string
	CompanyName   *string
	LicenseNumber *string
}

// Service handles broker registration, login and contact verification
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*entities.User, string, error)
	Login(ctx context.Context, email, password string) (*entities.User, string, error)
	RequestOTP(ctx context.Context, userID uuid.UUID, channel string) error
	VerifyOTP(ctx context.Context, userID uuid.UUID, channel, code string) error
}

type service struct {
	userRepo    repositories.UserRepository
	otpStore    *cache.OTPStore
	emailSender notify.EmailSender
	smsSender   notify.SMSSender
	jwtManager  *jwt.Manager
	logger      *zap.Logger
}

// NewService creates the auth service
func NewService(
	userRepo repositories.UserRepository,
	otpStore *cache.OTPStore,
	emailSender notify.EmailSender,
	smsSender notify.SMSSender,
	jwtManager *jwt.Manager,
	logger *zap.Logger,
) Service {
	return &service{
		userRepo:    userRepo,
		otpStore:    otpStore,
		emailSender: emailSender,
		smsSender:   smsSender,
		jwtManager:  jwtManager,
		logger:      logger,
	}
}

// Register creates a broker account and returns a signed token
func (s *service) Register(ctx context.Context, input RegisterInput) (*entities.User, string, error) {
	if _, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, "", apperrors.ErrUserAlreadyExists(input.Email)
	} else if err != entities.ErrUserNotFound {
		return nil, "", apperrors.ErrDBQueryFailed(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperrors.ErrInternal(err)
	}

	user := entities.NewUser(input.FirstName, input.LastName, input.Email, string(hash))
	user.Phone = input.Phone
	user.CompanyName = input.CompanyName
	user.LicenseNumber = input.LicenseNumber

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", apperrors.ErrDBQueryFailed(err)
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", apperrors.ErrInternal(err)
	}

	if s.logger != nil {
		s.logger.Info("broker registered", zap.String("user_id", user.ID.String()))
	}
	return user, token, nil
}

// Login checks credentials and returns a signed token
func (s *service) Login(ctx context.Context, email, password string) (*entities.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == entities.ErrUserNotFound {
			return nil, "", apperrors.ErrInvalidCredentials()
		}
		return nil, "", apperrors.ErrDBQueryFailed(err)
	}
	if !user.IsActive {
		return nil, "", apperrors.ErrInvalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperrors.ErrInvalidCredentials()
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", apperrors.ErrInternal(err)
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil && s.logger != nil {
		s.logger.Warn("failed to record last login", zap.Error(err))
	}

	return user, token, nil
}

// RequestOTP generates a code, stores it with TTL and sends it on the channel
func (s *service) RequestOTP(ctx context.Context, userID uuid.UUID, channel string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == entities.ErrUserNotFound {
			return apperrors.ErrUserNotFound()
		}
		return apperrors.ErrDBQueryFailed(err)
	}

	switch channel {
	case ChannelEmail:
		if user.EmailVerified {
			return apperrors.ErrAlreadyVerified("Email")
		}
	case ChannelPhone:
		if user.PhoneVerified {
			return apperrors.ErrAlreadyVerified("Phone")
		}
		if user.Phone == nil || *user.Phone == "" {
			return apperrors.ErrInvalidArgument("No phone number on record")
		}
	default:
		return apperrors.ErrInvalidArgument("Unknown verification channel")
	}

	code, err := generateOTP()
	if err != nil {
		return apperrors.ErrInternal(err)
	}
	if err := s.otpStore.Set(ctx, userID, channel, code); err != nil {
		return apperrors.ErrCacheFailed("store otp", err)
	}

	if channel == ChannelEmail {
		err = s.emailSender.SendOTP(user.Email, code)
	} else {
		err = s.smsSender.SendOTP(*user.Phone, code)
	}
	if err != nil {
		return apperrors.ErrInternal(err)
	}

	return nil
}

// VerifyOTP consumes a code and flips the matching verification flag
func (s *service) VerifyOTP(ctx context.Context, userID uuid.UUID, channel, code string) error {
	if channel != ChannelEmail && channel != ChannelPhone {
		return apperrors.ErrInvalidArgument("Unknown verification channel")
	}

	ok, err := s.otpStore.Verify(ctx, userID, channel, code)
	if err != nil {
		return apperrors.ErrCacheFailed("verify otp", err)
	}
	if !ok {
		return apperrors.ErrInvalidOTP()
	}

	if channel == ChannelEmail {
		err = s.userRepo.MarkEmailVerified(ctx, userID)
	} else {
		err = s.userRepo.MarkPhoneVerified(ctx, userID)
	}
	if err != nil {
		return apperrors.ErrDBQueryFailed(err)
	}

	if s.logger != nil {
		s.logger.Info("contact channel verified",
			zap.String("user_id", userID.String()),
			zap.String("channel", channel),
		)
	}
	return nil
}

// generateOTP returns a 6 digit numeric code
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
