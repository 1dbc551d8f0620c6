package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/drmweyers/evofithealthprotocol-sub002/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// DefaultUserID — тренер по умолчанию: субъект dev-токена без user_id и
// владелец всех запросов в режиме AUTH_MODE=none.
const DefaultUserID = "dev-trainer"

// Service — сервис авторизации
type Service struct {
	config *config.Config
}

func NewService(cfg *config.Config) *Service {
	return &Service{config: cfg}
}

// SignInDev — dev-авторизация, выдает JWT на 30 дней.
// userID задает субъект токена; пустая строка — тренер по умолчанию.
func (s *Service) SignInDev(ctx context.Context, userID string) (*DevAuthResponse, error) {
	_ = ctx

	const devTTL = 30 * 24 * time.Hour

	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = DefaultUserID
	}

	accessToken, err := s.generateJWTWithTTL(userID, devTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate dev JWT: %w", err)
	}

	return &DevAuthResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(devTTL.Seconds()),
		UserID:      userID,
	}, nil
}

// generateJWT — генерация JWT токена
func (s *Service) generateJWT(userID string) (string, error) {
	return s.generateJWTWithTTL(userID, time.Duration(s.config.JWTTTLMinutes)*time.Minute)
}

func (s *Service) generateJWTWithTTL(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	exp := now.Add(ttl)

	claims := jwt.MapClaims{
		"sub": userID,
		"iss": s.config.JWTIssuer,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// VerifyJWT — проверка JWT токена
func (s *Service) VerifyJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		sub, ok := claims["sub"].(string)
		if !ok {
			return "", ErrInvalidToken
		}
		return sub, nil
	}

	return "", ErrInvalidToken
}
