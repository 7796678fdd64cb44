package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/model"
)

var ErrInvalidToken = errors.New("invalid auth token")

// JWTStrategy signs and verifies HS256 tokens. The subject claim carries the
// user id, a custom claim carries the role.
type JWTStrategy struct {
	secret []byte
	ttl    time.Duration
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewJWTStrategy builds JWTStrategy with provided secret and options.
func NewJWTStrategy(secret string, opts Options) *JWTStrategy {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTStrategy{secret: []byte(secret), ttl: ttl}
}

// IssueToken generates a signed token for the user.
func (s *JWTStrategy) IssueToken(userID int64, role model.Role) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken validates the token and returns the encoded principal.
func (s *JWTStrategy) ParseToken(token string) (model.Principal, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return model.Principal{}, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return model.Principal{}, ErrInvalidToken
	}

	role := model.Role(claims.Role)
	if role != model.RoleUser && role != model.RoleAdmin {
		return model.Principal{}, ErrInvalidToken
	}

	return model.Principal{UserID: userID, Role: role}, nil
}

func (s *JWTStrategy) Name() string {
	return "jwt"
}
