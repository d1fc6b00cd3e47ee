package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/secondbrain-ai/deal-intel/pkg/config"
)

// NewRedisClient creates a Redis client and verifies connectivity
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// OTPTTL is how long a verification code stays valid
const OTPTTL = 10 * time.Minute

// OTPStore keeps one-time verification codes in Redis with a TTL.
// Codes are single use: a successful verification deletes the key.
type OTPStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewOTPStore creates an OTP store with the default TTL
func NewOTPStore(client *redis.Client) *OTPStore {
	return &OTPStore{
		client: client,
		ttl:    OTPTTL,
	}
}

func otpKey(userID uuid.UUID, channel string) string {
	return fmt.Sprintf("otp:%s:%s", channel, userID.String())
}

// Set stores a code for a user and channel ("email" or "phone")
func (s *OTPStore) Set(ctx context.Context, userID uuid.UUID, channel, code string) error {
	if err := s.client.Set(ctx, otpKey(userID, channel), code, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	return nil
}

// Verify checks the code and consumes it on success
func (s *OTPStore) Verify(ctx context.Context, userID uuid.UUID, channel, code string) (bool, error) {
	key := otpKey(userID, channel)
	stored, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read otp: %w", err)
	}
	if stored != code {
		return false, nil
	}

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return false, fmt.Errorf("failed to consume otp: %w", err)
	}
	return true, nil
}
