package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"absensi_backend/internals/configs"
	userModel "absensi_backend/internals/features/users/employees/model"
)

const accessTTLDefault = 24 * time.Hour

func getJWTSecret() (string, error) {
	s := strings.TrimSpace(configs.JWTSecret)
	if s == "" {
		return "", errors.New("JWT_SECRET belum diset")
	}
	return s, nil
}

func buildAccessClaims(user userModel.UserModel, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"typ":       "access",
		"sub":       user.ID.String(),
		"id":        user.ID.String(),
		"user_name": user.UserName,
		"full_name": user.FullName,
		"role":      user.Role,
		"iat":       now.Unix(),
		"exp":       now.Add(accessTTLDefault).Unix(),
	}
}

// IssueAccessToken: HS256, berlaku 24 jam.
func IssueAccessToken(user userModel.UserModel, now time.Time) (string, time.Time, error) {
	secret, err := getJWTSecret()
	if err != nil {
		return "", time.Time{}, err
	}
	claims := buildAccessClaims(user, now)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, now.Add(accessTTLDefault), nil
}

// tokenExpiry: exp dari token yang valid; fallback now+TTL.
func tokenExpiry(raw string, now time.Time) time.Time {
	secret, err := getJWTSecret()
	if err != nil || raw == "" {
		return now.Add(accessTTLDefault)
	}
	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return now.Add(accessTTLDefault)
	}
	if exp, ok := claims["exp"].(float64); ok {
		return time.Unix(int64(exp), 0)
	}
	return now.Add(accessTTLDefault)
}
