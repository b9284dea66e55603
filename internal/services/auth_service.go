package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vpa-project/vpa-backend/internal/config"
	"github.com/vpa-project/vpa-backend/internal/dto"
	"github.com/vpa-project/vpa-backend/internal/models"
	"github.com/vpa-project/vpa-backend/internal/session"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// Register creates a user, its role membership, and exactly one profile row
// (Customer when role is "customer", LotManager for anything else). The
// whole sequence runs in one transaction so a failure leaves no partial
// rows; profile and membership are only written after the user insert has
// assigned an id.
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if req.Role == "" || req.Name == "" || req.Email == "" || req.Mobile == "" ||
		req.Password == "" || req.Confirm == "" {
		return nil, errors.New("please fill out all required fields")
	}
	if req.Password != req.Confirm {
		return nil, errors.New("passwords do not match")
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:     req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		// Roles are pre-seeded; FirstOrCreate covers a missing one.
		var role models.Role
		if err := tx.Where("name = ?", req.Role).FirstOrCreate(&role, models.Role{Name: req.Role}).Error; err != nil {
			return fmt.Errorf("failed to resolve role: %w", err)
		}

		if err := tx.Model(&user).Association("Roles").Append(&role); err != nil {
			return fmt.Errorf("failed to assign role: %w", err)
		}

		if req.Role == models.RoleCustomer {
			profile := models.Customer{
				UserID:       user.ID,
				MobileNumber: req.Mobile,
				Address:      req.Address,
			}
			if err := tx.Create(&profile).Error; err != nil {
				return fmt.Errorf("failed to create customer profile: %w", err)
			}
		} else {
			profile := models.LotManager{
				UserID:       user.ID,
				MobileNumber: req.Mobile,
				Address:      req.Address,
			}
			if err := tx.Create(&profile).Error; err != nil {
				return fmt.Errorf("failed to create manager profile: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{
		Message: "Registration successful! Please login.",
		User: dto.UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     req.Role,
		},
	}, nil
}

// Login verifies the credentials and issues a token pair. The effective
// role is lot_manager iff the user holds that membership, customer
// otherwise; admin gets no special routing here.
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var user models.User
	if err := s.db.Preload("Roles").Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	role := models.RoleCustomer
	if user.HasRole(models.RoleLotManager) {
		role = models.RoleLotManager
	}

	return s.generateTokenPair(&user, role)
}

// Refresh rotates a refresh token: the presented token is revoked and a
// fresh pair is issued.
func (s *AuthService) Refresh(req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ? AND revoked = ?", tokenHash, false).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	if time.Now().After(stored.ExpiresAt) {
		s.db.Model(&stored).Update("revoked", true)
		return nil, ErrInvalidToken
	}

	s.db.Model(&stored).Update("revoked", true)

	var user models.User
	if err := s.db.Preload("Roles").First(&user, stored.UserID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	role := models.RoleCustomer
	if user.HasRole(models.RoleLotManager) {
		role = models.RoleLotManager
	}

	return s.generateTokenPair(&user, role)
}

// Logout revokes the refresh token. It has no other database effect.
func (s *AuthService) Logout(req *dto.LogoutRequest) error {
	tokenHash := hashToken(req.RefreshToken)
	return s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

func (s *AuthService) generateTokenPair(user *models.User, role string) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user, role)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	redirect := "home"
	if role == models.RoleLotManager {
		redirect = "dashboard"
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: dto.UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     role,
		},
		Redirect: redirect,
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   session.Subject(user.ID),
		"email": user.Email,
		"role":  role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
