package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sentient110/models"
)

// PostgresStore persists ledger records via GORM so verifications
// survive restarts. All other semantics match MemoryStore.
type PostgresStore struct {
	db *gorm.DB
}

// Connect opens the Postgres-backed ledger and migrates its schema.
func Connect(host, port, dbname, user, password string) (*PostgresStore, error) {
	dsn := fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
		host, port, dbname, user, password)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.PredictionRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate predictions table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the underlying connection pool.
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Record stores a prediction under its hash. Re-recording the same
// hash is a no-op since records are immutable.
func (s *PostgresStore) Record(ctx context.Context, rec models.PredictionRecord) error {
	err := s.db.WithContext(ctx).Create(&rec).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// Lookup returns the stored record for a hash, or false when absent.
// Database errors degrade to absence rather than propagating.
func (s *PostgresStore) Lookup(ctx context.Context, txHash string) (*models.PredictionRecord, bool) {
	var rec models.PredictionRecord
	err := s.db.WithContext(ctx).Where("tx_hash = ?", txHash).First(&rec).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Ledger lookup failed for %s: %v", txHash, err)
		}
		return nil, false
	}
	return &rec, true
}

// History returns up to limit records, newest first, optionally
// filtered by ticker.
func (s *PostgresStore) History(ctx context.Context, ticker string, limit int) []models.PredictionRecord {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	query := s.db.WithContext(ctx).Model(&models.PredictionRecord{})
	if ticker != "" {
		query = query.Where("ticker = ?", ticker)
	}

	var out []models.PredictionRecord
	if err := query.Order("timestamp DESC").Limit(limit).Find(&out).Error; err != nil {
		log.Printf("Ledger history query failed: %v", err)
		return nil
	}
	return out
}
