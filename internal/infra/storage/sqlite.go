package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"orderbook_go/internal/domain"
)

// Storage persists the token catalog in SQLite
type Storage struct {
	db *gorm.DB
}

// NewStorage creates a new SQLite storage instance. An empty path
// resolves to the per-user default location.
func NewStorage(path string) (*Storage, error) {
	dbPath := path
	if dbPath == "" {
		resolved, err := getDBPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve DB path: %w", err)
		}
		dbPath = resolved
	}

	// Ensure directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto Migration
	if err := db.AutoMigrate(&domain.TokenInfo{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// getDBPath resolves the database file path based on OS
func getDBPath() (string, error) {
	var configDir string
	var err error

	if runtime.GOOS == "windows" {
		configDir = os.Getenv("LOCALAPPDATA")
		if configDir == "" {
			configDir, err = os.UserConfigDir()
		}
	} else {
		configDir, err = os.UserConfigDir()
	}

	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "OrderbookGo", "data", "orderbook.db"), nil
}

// UpsertToken creates or updates token metadata
func (s *Storage) UpsertToken(token *domain.TokenInfo) error {
	return s.db.Save(token).Error
}

// GetToken retrieves token metadata by address
func (s *Storage) GetToken(address string) (*domain.TokenInfo, error) {
	var token domain.TokenInfo
	err := s.db.First(&token, "address = ?", address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // Not found is not an error
	}
	return &token, err
}

// GetAllTokens retrieves all known tokens
func (s *Storage) GetAllTokens() ([]domain.TokenInfo, error) {
	var tokens []domain.TokenInfo
	err := s.db.Find(&tokens).Error
	return tokens, err
}

// DeleteToken deletes a token from the database
func (s *Storage) DeleteToken(address string) error {
	return s.db.Where("address = ?", address).Delete(&domain.TokenInfo{}).Error
}
