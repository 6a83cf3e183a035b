package models

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/scrypt"
	"gorm.io/gorm"
)

const (
	saltLength = 16
	keyLength  = 64

	// scrypt cost parameters
	scryptN = 32768
	scryptR = 8
	scryptP = 1
)

// User represents a registered account
type User struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name      string    `json:"name"`
	Email     string    `gorm:"uniqueIndex" json:"email"`
	Salt      string    `json:"-"` // Never return credentials in JSON
	Hash      string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SignupRequest is the request structure for creating a new account
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the request structure for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the response structure for user data (without credentials)
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts a User to its public representation
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// HashPassword derives a key from the password with a fresh random salt.
// Salt and hash are returned hex-encoded.
func HashPassword(password string) (salt string, hash string, err error) {
	saltBytes := make([]byte, saltLength)
	if _, err := rand.Read(saltBytes); err != nil {
		return "", "", err
	}

	key, err := scrypt.Key([]byte(password), saltBytes, scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return "", "", err
	}

	return hex.EncodeToString(saltBytes), hex.EncodeToString(key), nil
}

// VerifyPassword re-derives the key for the stored salt and compares it with
// the stored hash in constant time.
func VerifyPassword(password, salt, storedHash string) (bool, error) {
	saltBytes, err := hex.DecodeString(salt)
	if err != nil {
		return false, err
	}
	storedKey, err := hex.DecodeString(storedHash)
	if err != nil {
		return false, err
	}

	key, err := scrypt.Key([]byte(password), saltBytes, scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare(key, storedKey) == 1, nil
}

// BeforeCreate is a GORM hook that assigns an ID if one wasn't set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
