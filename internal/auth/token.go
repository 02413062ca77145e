package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arogyalink/health-portal/internal/models"
)

const (
	KindPatient = "patient"
	KindDoctor  = "doctor"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carried by every issued bearer token.
type Claims struct {
	ActorKind string `json:"actor"`
	ActorID   uint   `json:"actor_id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies bearer tokens. Tokens are signed JWTs
// whose jti must also exist in the auth_tokens table, so logout can revoke
// a single token by deleting its row.
type TokenService struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
}

func NewTokenService(db *gorm.DB, secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		db:     db,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (s *TokenService) Issue(ctx context.Context, kind string, actorID uint) (string, error) {
	now := time.Now()
	expires := now.Add(s.ttl)
	jti := uuid.NewString()

	claims := Claims{
		ActorKind: kind,
		ActorID:   actorID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	record := models.AuthToken{
		ActorKind: kind,
		ActorID:   actorID,
		JTI:       jti,
		ExpiresAt: expires,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", err
	}

	return signed, nil
}

// Verify parses the token and confirms the owning actor still lists it.
func (s *TokenService) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	var count int64
	err = s.db.WithContext(ctx).
		Model(&models.AuthToken{}).
		Where(
			"jti = ? AND actor_kind = ? AND actor_id = ? AND expires_at > ?",
			claims.ID, claims.ActorKind, claims.ActorID, time.Now(),
		).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Revoke removes exactly the presented token from the actor's list.
func (s *TokenService) Revoke(ctx context.Context, claims *Claims) error {
	return s.db.WithContext(ctx).
		Where("jti = ? AND actor_kind = ? AND actor_id = ?", claims.ID, claims.ActorKind, claims.ActorID).
		Delete(&models.AuthToken{}).Error
}
