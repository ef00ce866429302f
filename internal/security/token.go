package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type for this endpoint")
)

type TokenType string

const (
	TokenTypeCustomer TokenType = "customer"
	TokenTypeAdmin    TokenType = "admin"
)

const issuer = "costume-rental"

// Claims are carried by both customer and admin tokens. Role and Username are only set
// on admin tokens.
type Claims struct {
	Email    string    `json:"email,omitempty"`
	Username string    `json:"username,omitempty"`
	Role     string    `json:"role,omitempty"`
	IsAdmin  bool      `json:"isAdmin"`
	Type     TokenType `json:"type"`
	jwt.RegisteredClaims
}

// SubjectID is the user or admin id the token was issued to.
func (c *Claims) SubjectID() string {
	return c.Subject
}

type TokenManager interface {
	GenerateCustomerToken(userID, email string) (string, error)
	GenerateAdminToken(adminID, username, role string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type tokenManager struct {
	secret      []byte
	customerTTL time.Duration
	adminTTL    time.Duration
	now         func() time.Time
}

func NewTokenManager(secret string, customerTTL, adminTTL time.Duration) TokenManager {
	return &tokenManager{
		secret:      []byte(secret),
		customerTTL: customerTTL,
		adminTTL:    adminTTL,
		now:         time.Now,
	}
}

func (m *tokenManager) GenerateCustomerToken(userID, email string) (string, error) {
	claims := Claims{
		Email:            email,
		Type:             TokenTypeCustomer,
		RegisteredClaims: m.registered(userID, m.customerTTL, "api-customer"),
	}
	return m.sign(claims)
}

func (m *tokenManager) GenerateAdminToken(adminID, username, role string) (string, error) {
	claims := Claims{
		Username:         username,
		Role:             role,
		IsAdmin:          true,
		Type:             TokenTypeAdmin,
		RegisteredClaims: m.registered(adminID, m.adminTTL, "api-admin"),
	}
	return m.sign(claims)
}

func (m *tokenManager) registered(subject string, ttl time.Duration, audience string) jwt.RegisteredClaims {
	now := m.now()
	return jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    issuer,
		Audience:  jwt.ClaimStrings{audience},
		ID:        uuid.NewString(),
	}
}

func (m *tokenManager) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	if claims.IsAdmin != (claims.Type == TokenTypeAdmin) {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
