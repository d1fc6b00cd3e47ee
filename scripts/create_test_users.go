package main

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/secondbrain-ai/deal-intel/internal/domain/entities"
	"github.com/secondbrain-ai/deal-intel/internal/infrastructure/database"
	"github.com/secondbrain-ai/deal-intel/pkg/config"
	pkgjwt "github.com/secondbrain-ai/deal-intel/pkg/jwt"
)

const testPassword = "Test1234!"

func main() {
	log.Println("🚀 Starting test brokers creation...")

	// Load configuration from .env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Initialize JWT manager
	jwtManager := pkgjwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	testBrokers := []struct {
		FirstName string
		LastName  string
		Email     string
		Verified  bool
	}{
		{FirstName: "Alice", LastName: "Shah", Email: "alice@test.local", Verified: true},
		{FirstName: "Bob", LastName: "Patel", Email: "bob@test.local", Verified: true},
		{FirstName: "Charlie", LastName: "Mehta", Email: "charlie@test.local", Verified: false},
	}

	log.Println("🗑️  Cleaning up existing test brokers...")
	db.Where("broker_id IN (SELECT id FROM users WHERE email LIKE ?)", "%@test.local").Delete(&entities.Meeting{})
	db.Where("email LIKE ?", "%@test.local").Delete(&entities.User{})

	log.Println("🔑 Creating test brokers and tokens...")

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash test password: %v", err)
	}

	for i, tb := range testBrokers {
		user := entities.NewUser(tb.FirstName, tb.LastName, tb.Email, string(hash))
		user.EmailVerified = tb.Verified

		if err := db.Create(user).Error; err != nil {
			log.Printf("❌ Failed to create broker %s: %v", tb.Email, err)
			continue
		}

		accessToken, err := jwtManager.GenerateToken(user.ID, user.Email)
		if err != nil {
			log.Printf("❌ Failed to generate token for %s: %v", tb.Email, err)
			continue
		}

		fmt.Printf("═══════════════════════════════════════════════════════\n")
		fmt.Printf("🟢 Broker %d: %s\n", i+1, user.FullName())
		fmt.Printf("Email:     %s\n", user.Email)
		fmt.Printf("User ID:   %s\n", user.ID)
		fmt.Printf("Verified:  %v\n", user.IsVerified())
		fmt.Printf("Password:  %s\n", testPassword)
		fmt.Printf("\n📋 Access Token (Copy to Postman):\n%s\n", accessToken)
		fmt.Printf("───────────────────────────────────────────────────────\n\n")
	}

	log.Println("✅ All test brokers created successfully!")
	log.Println("💡 In Postman, set header: Authorization: Bearer <access_token>")
	log.Println("🧹 To clean up, run: DELETE FROM users WHERE email LIKE '%@test.local'")
}
