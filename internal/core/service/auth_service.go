package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mwestin/accountd/internal/core/domain"
	"github.com/mwestin/accountd/internal/core/repository"
	"golang.org/x/crypto/bcrypt"
)

const BcryptCost = 10

// dummyHash is compared against when a login names an unknown username, so the
// miss path costs a bcrypt verification just like a password mismatch does.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("accountd.dummy.comparison"), BcryptCost)

// TokenConfig carries the signing configuration for issued access tokens.
// HS256/HS384/HS512 sign with SecretKey; RS256 signs with the PEM-encoded RSA
// private key at PrivateKeyPath.
type TokenConfig struct {
	Algorithm      string
	SecretKey      string
	PrivateKeyPath string
	Lifetime       time.Duration
}

// TokenClaims are the claims embedded in issued access tokens. Subject carries
// the account id; the profile claims are non-sensitive.
type TokenClaims struct {
	Username   string `json:"username"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

type AuthService struct {
	accountRepo   repository.AccountRepository
	signingMethod jwt.SigningMethod
	signKey       interface{}
	verifyKey     interface{}
	tokenLifetime time.Duration
	logger        *slog.Logger
}

func NewAuthService(accountRepo repository.AccountRepository, tokenCfg TokenConfig, logger *slog.Logger) (*AuthService, error) {
	s := &AuthService{
		accountRepo:   accountRepo,
		tokenLifetime: tokenCfg.Lifetime,
		logger:        logger,
	}

	switch tokenCfg.Algorithm {
	case "HS256":
		s.signingMethod = jwt.SigningMethodHS256
	case "HS384":
		s.signingMethod = jwt.SigningMethodHS384
	case "HS512":
		s.signingMethod = jwt.SigningMethodHS512
	case "RS256":
		s.signingMethod = jwt.SigningMethodRS256
	default:
		return nil, fmt.Errorf("unsupported jwt algorithm: %s", tokenCfg.Algorithm)
	}

	if tokenCfg.Algorithm == "RS256" {
		pemBytes, err := os.ReadFile(tokenCfg.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read jwt private key: %w", err)
		}
		privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse jwt private key: %w", err)
		}
		s.signKey = privateKey
		s.verifyKey = &privateKey.PublicKey
	} else {
		s.signKey = []byte(tokenCfg.SecretKey)
		s.verifyKey = []byte(tokenCfg.SecretKey)
	}

	return s, nil
}

// bcrypt only looks at the first 72 bytes of its input and rejects anything
// longer. Passwords are allowed up to 256 characters, so both hashing and
// verification feed bcrypt at most the first 72 bytes.
const bcryptMaxPasswordBytes = 72

func bcryptInput(password string) []byte {
	b := []byte(password)
	if len(b) > bcryptMaxPasswordBytes {
		b = b[:bcryptMaxPasswordBytes]
	}
	return b
}

// HashPassword hashes a password using bcrypt
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against a hash
func (s *AuthService) VerifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password))
	return err == nil
}

// Register validates all fields, hashes the password and persists the account.
// Returns *domain.ValidationError with every violated field, or
// *domain.DuplicateKeyError naming the colliding field.
func (s *AuthService) Register(ctx context.Context, input domain.RegistrationInput) (*domain.Account, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	// The plaintext is not referenced past this point.
	account := domain.NewAccount(input, hash)

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("account registered", "id", account.ID, "username", account.Username)
	return account, nil
}

// Login authenticates a username/password pair and returns a signed access
// token. Unknown usernames and wrong passwords both fail with
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	account, err := s.accountRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			// Burn a comparison so the miss path does work comparable to a
			// mismatch.
			_ = bcrypt.CompareHashAndPassword(dummyHash, bcryptInput(password))
			s.logger.Warn("login failed", "username", username)
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to look up account: %w", err)
	}

	if !s.VerifyPassword(password, account.PasswordHash) {
		s.logger.Warn("login failed", "username", username)
		return "", ErrInvalidCredentials
	}

	token, err := s.generateToken(account)
	if err != nil {
		return "", err
	}

	s.logger.Info("login succeeded", "id", account.ID, "username", account.Username)
	return token, nil
}

// ValidateToken validates an access token and returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		// The algorithm is pinned to the configured one
		if token.Method.Alg() != s.signingMethod.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.verifyKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(*TokenClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token claims")
}

func (s *AuthService) generateToken(account *domain.Account) (string, error) {
	now := time.Now()

	claims := TokenClaims{
		Username:   account.Username,
		GivenName:  account.FirstName,
		FamilyName: account.LastName,
		Email:      account.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "accountd",
		},
	}

	token := jwt.NewWithClaims(s.signingMethod, claims)
	tokenString, err := token.SignedString(s.signKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}
