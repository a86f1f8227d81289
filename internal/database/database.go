package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"rentnest/server/internal/models"
)

var ErrNotFound = errors.New("record not found")

type Database struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewDatabase(dbPath string, logger *logrus.Logger) (*Database, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := open(dbPath+"?_foreign_keys=on", logger)
	if err != nil {
		return nil, err
	}

	return &Database{db: db, logger: logger}, nil
}

// NewTestDB opens a private in-memory database.
func NewTestDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
}

// Wrap builds a Database around an existing connection
func Wrap(db *gorm.DB, logger *logrus.Logger) *Database {
	if logger == nil {
		logger = logrus.New()
	}
	return &Database{db: db, logger: logger}
}

func open(dsn string, logger *logrus.Logger) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.New(logger, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
}

// MigrateSchema creates or updates every table the server uses
func MigrateSchema(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Favorite{},
		&models.Listing{},
		&models.Reservation{},
	)
}

func (d *Database) RunMigrations() error {
	if err := MigrateSchema(d.db); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (d *Database) GetDB() *gorm.DB {
	return d.db
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (d *Database) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := d.db.WithContext(ctx).Preload("Favorites").First(&user, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (d *Database) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	return d.db.WithContext(ctx).Omit("Favorites").Create(user).Error
}

func (d *Database) AddFavorite(ctx context.Context, userID, listingID string) error {
	if _, err := d.GetListingByID(ctx, listingID); err != nil {
		return err
	}
	fav := models.Favorite{UserID: userID, ListingID: listingID}
	return d.db.WithContext(ctx).FirstOrCreate(&fav, fav).Error
}

func (d *Database) RemoveFavorite(ctx context.Context, userID, listingID string) error {
	return d.db.WithContext(ctx).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Delete(&models.Favorite{}).Error
}
