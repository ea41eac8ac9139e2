package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dex-sniper/internal/config"
	"github.com/dex-sniper/internal/models"
	"github.com/dex-sniper/internal/repository"
	"github.com/dex-sniper/pkg/crypto"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidToken       = errors.New("invalid token")
)

// AuthService handles operator accounts and token issuance
type AuthService struct {
	operators *repository.OperatorRepository
	jwtConfig config.JWTConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(operators *repository.OperatorRepository, jwtConfig config.JWTConfig) *AuthService {
	return &AuthService{
		operators: operators,
		jwtConfig: jwtConfig,
	}
}

// RegisterRequest represents the registration request
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=100"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents the JWT token response
type TokenResponse struct {
	AccessToken string              `json:"access_token"`
	TokenType   string              `json:"token_type"`
	ExpiresIn   int                 `json:"expires_in"`
	Role        models.OperatorRole `json:"role"`
}

// JWTClaims carries the operator identity and role inside the token, so
// the control-plane gate never needs a database round trip.
type JWTClaims struct {
	OperatorID uint                `json:"operator_id"`
	Username   string              `json:"username"`
	Role       models.OperatorRole `json:"role"`
	jwt.RegisteredClaims
}

// Register creates a new operator account. The first account registered
// becomes the admin; subsequent accounts start as observers.
func (s *AuthService) Register(req *RegisterRequest) (*models.Operator, error) {
	exists, err := s.operators.ExistsByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	exists, err = s.operators.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	passwordHash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	count, err := s.operators.Count()
	if err != nil {
		return nil, err
	}
	role := models.RoleObserver
	if count == 0 {
		role = models.RoleAdmin
	}

	operator := &models.Operator{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         role,
	}

	if err := s.operators.Create(operator); err != nil {
		return nil, err
	}

	return operator, nil
}

// Login authenticates an operator and returns a JWT token
func (s *AuthService) Login(req *LoginRequest) (*TokenResponse, error) {
	operator, err := s.operators.GetByUsernameOrEmail(req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrOperatorNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(req.Password, operator.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if err := s.operators.RecordLogin(operator.ID, time.Now()); err != nil {
		log.Printf("[Auth] Failed to record login for operator %d: %v", operator.ID, err)
	}

	return s.generateToken(operator)
}

// RefreshToken issues a fresh token for a still-valid one. The role is
// re-read from storage so a promotion or demotion takes effect here.
func (s *AuthService) RefreshToken(tokenString string) (*TokenResponse, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}

	operator, err := s.operators.GetByID(claims.OperatorID)
	if err != nil {
		return nil, err
	}

	return s.generateToken(operator)
}

// ValidateToken validates a JWT token and returns the claims
func (s *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

func (s *AuthService) generateToken(operator *models.Operator) (*TokenResponse, error) {
	expiresIn := time.Duration(s.jwtConfig.ExpireHours) * time.Hour

	claims := &JWTClaims{
		OperatorID: operator.ID,
		Username:   operator.Username,
		Role:       operator.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "dex-sniper",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken: tokenString,
		TokenType:   "Bearer",
		ExpiresIn:   s.jwtConfig.ExpireHours * 3600,
		Role:        operator.Role,
	}, nil
}

// GetOperatorByID retrieves an operator by ID
func (s *AuthService) GetOperatorByID(id uint) (*models.Operator, error) {
	return s.operators.GetByID(id)
}
