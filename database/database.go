// File: /database/database.go
package database

import (
	"fmt"

	"deenconnect-api/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Info),
		DisableForeignKeyConstraintWhenMigrating: true,
		// Surfaces unique-index violations as gorm.ErrDuplicatedKey so the
		// pending-pair constraint can be mapped to a conflict error.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.FriendRequest{},
		&models.Friendship{},
		&models.Challenge{},
		&models.Message{},
		&models.Notification{},
	)

	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := addCustomIndexes(db); err != nil {
		return fmt.Errorf("failed to add custom indexes: %w", err)
	}

	if err := addDatabaseConstraints(db); err != nil {
		return fmt.Errorf("failed to add database constraints: %w", err)
	}

	return nil
}

func addCustomIndexes(db *gorm.DB) error {
	// Incoming/outgoing pending request listings, newest first
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_friend_requests_receiver_status ON friend_requests(receiver_id, status, created_at DESC)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for friend_requests receiver: %v\n", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_friend_requests_sender_status ON friend_requests(sender_id, status, created_at DESC)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for friend_requests sender: %v\n", err)
	}

	// Per-user challenge listings
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_challenges_creator_created ON challenges(creator_id, created_at DESC)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for challenges creator: %v\n", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_challenges_opponent_created ON challenges(opponent_id, created_at DESC)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for challenges opponent: %v\n", err)
	}

	// Expiry sweep scans open challenges by end date
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_challenges_status_end_date ON challenges(status, end_date)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for challenges expiry sweep: %v\n", err)
	}

	// Conversation fetch and unread count
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_messages_receiver_read ON messages(receiver_id, is_read)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for messages: %v\n", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_notifications_target_created ON notifications(target_user_id, created_at DESC)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for notifications: %v\n", err)
	}

	return nil
}

func addDatabaseConstraints(db *gorm.DB) error {
	// The pending_pair unique index (from the model tags) already guarantees
	// a single pending request per unordered pair. The constraints below
	// back the remaining invariants that application-level checks alone
	// cannot enforce under concurrency.

	// A directed friendship row exists at most once
	if err := db.Exec("ALTER TABLE friendships ADD CONSTRAINT uk_friendships_user_friend UNIQUE (user_id, friend_id)").Error; err != nil {
		// Ignore error if constraint already exists
		fmt.Printf("Warning: Could not add unique constraint for friendships: %v\n", err)
	}

	// No self-relations
	if err := db.Exec("ALTER TABLE friendships ADD CONSTRAINT ck_friendships_no_self CHECK (user_id != friend_id)").Error; err != nil {
		fmt.Printf("Warning: Could not add check constraint for friendships: %v\n", err)
	}

	if err := db.Exec("ALTER TABLE friend_requests ADD CONSTRAINT ck_friend_requests_no_self CHECK (sender_id != receiver_id)").Error; err != nil {
		fmt.Printf("Warning: Could not add check constraint for friend_requests: %v\n", err)
	}

	if err := db.Exec("ALTER TABLE challenges ADD CONSTRAINT ck_challenges_no_self CHECK (creator_id != opponent_id)").Error; err != nil {
		fmt.Printf("Warning: Could not add check constraint for challenges: %v\n", err)
	}

	if err := db.Exec("ALTER TABLE challenges ADD CONSTRAINT ck_challenges_target_positive CHECK (target_value > 0)").Error; err != nil {
		fmt.Printf("Warning: Could not add check constraint for challenge targets: %v\n", err)
	}

	return nil
}

// SeedData can be used to populate the database with initial data for development/testing
func SeedData(db *gorm.DB) error {
	var userCount int64
	db.Model(&models.User{}).Count(&userCount)

	if userCount > 0 {
		fmt.Println("Database already has data, skipping seed")
		return nil
	}

	testUsers := []models.User{
		{
			ID:          "user-1",
			Username:    "ahmed_dev",
			Phone:       "+15550000001",
			Password:    "$2a$10$dummy", // This should be properly hashed in real scenarios
			DisplayName: "Ahmed Hassan",
		},
		{
			ID:          "user-2",
			Username:    "fatima_z",
			Phone:       "+15550000002",
			Password:    "$2a$10$dummy",
			DisplayName: "Fatima Zahra",
		},
	}

	for _, user := range testUsers {
		if err := db.Create(&user).Error; err != nil {
			fmt.Printf("Warning: Could not create test user %s: %v\n", user.Username, err)
		}
	}

	fmt.Println("Database seeded with test data")
	return nil
}
