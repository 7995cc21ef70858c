package store

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-authgate/authchain/internal/config"
	"github.com/go-authgate/authchain/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store persists local user accounts.
type Store struct {
	db *gorm.DB
}

// New opens the database, migrates the schema and seeds the default admin.
func New(ctx context.Context, driver, dsn string, cfg *config.Config) (*Store, error) {
	dialector, err := GetDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every pooled connection to :memory: would open a separate database.
	if driver == "sqlite" && strings.Contains(dsn, ":memory:") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.WithContext(ctx).AutoMigrate(&models.User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	s := &Store{db: db}

	if err := s.seedData(ctx, cfg); err != nil {
		log.Printf("Warning: failed to seed data: %v", err)
	}

	return s, nil
}

// generateRandomPassword generates a random password of specified length
func generateRandomPassword(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes)[:length], nil
}

// seedData creates the admin account on an empty users table.
func (s *Store) seedData(ctx context.Context, cfg *config.Config) error {
	var userCount int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return nil
	}

	password := ""
	if cfg != nil {
		password = cfg.DefaultAdminPassword
	}
	generated := password == ""
	if generated {
		var err error
		if password, err = generateRandomPassword(16); err != nil {
			return err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		Username:     "admin",
		PasswordHash: string(hash),
	}
	admin.SetAuthorities("ROLE_ADMIN", "ROLE_USER")
	if err := s.CreateUser(ctx, admin); err != nil {
		return err
	}

	if generated {
		log.Printf("Created default user: admin / %s", password)
	} else {
		log.Printf("Created default user: admin (password from DEFAULT_ADMIN_PASSWORD)")
	}
	return nil
}

// GetUserByUsername returns ErrRecordNotFound when no such user exists.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts user, assigning an ID when empty.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", user.Username).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUsernameConflict
	}

	return s.db.WithContext(ctx).Create(user).Error
}

// UpdatePassword replaces the stored hash and password expiry for username.
func (s *Store) UpdatePassword(
	ctx context.Context,
	username, passwordHash string,
	expiresAt *time.Time,
) error {
	res := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Updates(map[string]any{
			"password_hash":       passwordHash,
			"password_expires_at": expiresAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// SetLocked locks or unlocks username.
func (s *Store) SetLocked(ctx context.Context, username string, locked bool) error {
	res := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Update("locked", locked)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Health checks the database connection
func (s *Store) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CountUsers returns the number of accounts.
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

// CountLockedUsers returns the number of locked accounts.
func (s *Store) CountLockedUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("locked = ?", true).
		Count(&count).Error
	return count, err
}
