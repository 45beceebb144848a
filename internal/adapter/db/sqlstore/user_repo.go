package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"auth-service/internal/domain/user"
	pkgerrors "auth-service/pkg/errors"
	"auth-service/pkg/logger"
)

// UserRepo implements the credential gateway's Repository on top of GORM.
type UserRepo struct {
	conn *Connection // shared, lazily connected handle
	log  *zap.Logger // Structured logger for database operations
}

// NewUserRepo creates a new instance of UserRepo.
func NewUserRepo(conn *Connection, log *zap.Logger) *UserRepo {
	return &UserRepo{conn: conn, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID        string    `gorm:"primaryKey;size:36"`                   // Store-assigned UUID
	FirstName string    `gorm:"column:firstname"`                     // Given name
	LastName  string    `gorm:"column:lastname"`                      // Family name
	Email     string    `gorm:"not null;uniqueIndex:idx_users_email"` // Unique login address
	Password  string    `gorm:"not null"`                             // bcrypt hash, never plaintext
	CreatedAt time.Time `gorm:"autoCreateTime"`                       // Set on insert
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// BeforeCreate assigns the record identifier.
func (s *UserSchema) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Migrate creates or updates the users table and its unique email index.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&UserSchema{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}

// Create inserts a new user and returns the identifier assigned by the store.
func (r *UserRepo) Create(ctx context.Context, u *user.User) (string, error) {
	if u == nil {
		return "", errors.New("user cannot be nil")
	}

	db, err := r.conn.DB()
	if err != nil {
		return "", err
	}

	model := UserSchema{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Password:  u.PasswordHash,
	}

	if err := db.WithContext(ctx).Create(&model).Error; err != nil {
		if isDuplicateKey(err) {
			r.log.Warn("unique email constraint rejected insert", logger.Email(u.Email))
			return "", pkgerrors.ErrDuplicateEmail
		}
		r.log.Error("failed to create user in db", zap.Error(err), logger.Email(u.Email))
		return "", pkgerrors.NewStoreUnavailableError("failed to create user", err)
	}

	r.log.Info("record inserted successfully", zap.String("id", model.ID))
	return model.ID, nil
}

// GetByEmail retrieves a user by exact email match. It returns nil, nil when absent.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	db, err := r.conn.DB()
	if err != nil {
		return nil, err
	}

	var model UserSchema
	if err := db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by email", logger.Email(email))
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), logger.Email(email))
		return nil, pkgerrors.NewStoreUnavailableError("failed to get user by email", err)
	}

	return &user.User{
		ID:           model.ID,
		FirstName:    model.FirstName,
		LastName:     model.LastName,
		Email:        model.Email,
		PasswordHash: model.Password,
		CreatedAt:    model.CreatedAt,
	}, nil
}

// isDuplicateKey reports unique-constraint violations. Drivers without
// gorm error translation are matched on their native messages.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
