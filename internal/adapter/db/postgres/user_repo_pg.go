package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-search-service/internal/adapter/dataset"
	"user-search-service/internal/domain/user"
	pkgerrors "user-search-service/pkg/errors"
)

// seedBatchSize bounds the number of rows inserted per statement when seeding.
const seedBatchSize = 500

// UserRepoPG serves the user dataset from a SQL table through GORM.
// Any GORM dialector works; production uses PostgreSQL, tests use SQLite.
type UserRepoPG struct {
	db     *gorm.DB    // GORM database connection
	log    *zap.Logger // Structured logger for database operations
	source string      // Source label reported in datasets and errors
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log, source: "db:" + db.Dialector.Name()}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID    int64  `gorm:"primaryKey"` // Unique identifier, kept from the source dataset
	Name  string `gorm:"not null"`   // User's full name (required)
	Email string `gorm:"not null"`   // User's email address (required)
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// Migrate creates or updates the users table.
func (r *UserRepoPG) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&UserSchema{}); err != nil {
		r.log.Error("failed to migrate users table", zap.Error(err))
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}

// Seed inserts users when the table is empty and returns the number of rows written.
// A table that already holds rows is left untouched.
func (r *UserRepoPG) Seed(ctx context.Context, users []user.User) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&UserSchema{}).Count(&count).Error; err != nil {
		r.log.Error("failed to count users", zap.Error(err))
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		r.log.Info("users table already populated, skipping seed", zap.Int64("count", count))
		return 0, nil
	}
	if len(users) == 0 {
		return 0, nil
	}

	models := make([]UserSchema, len(users))
	for i, u := range users {
		models[i] = UserSchema{
			ID:    u.ID,
			Name:  u.Name,
			Email: u.Email,
		}
	}

	result := r.db.WithContext(ctx).CreateInBatches(models, seedBatchSize)
	if result.Error != nil {
		r.log.Error("failed to seed users", zap.Error(result.Error))
		return 0, fmt.Errorf("failed to seed users: %w", result.Error)
	}

	r.log.Info("users table seeded", zap.Int64("rows", result.RowsAffected))
	return result.RowsAffected, nil
}

// Load reads every user ordered by id.
func (r *UserRepoPG) Load(ctx context.Context) (*user.Dataset, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		r.log.Error("failed to load users from db", zap.Error(err))
		return nil, pkgerrors.NewDataSourceError(r.source, "Failed to read users data", err)
	}

	users := make([]user.User, len(models))
	for i, model := range models {
		users[i] = user.User{
			ID:    model.ID,
			Name:  model.Name,
			Email: model.Email,
		}
	}

	return &user.Dataset{
		Users:   users,
		Version: dataset.Fingerprint(users),
		Source:  r.source,
	}, nil
}
