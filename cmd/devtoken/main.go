package main

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	plannerjwt "github.com/shard-legends/upgrade-planner-service/pkg/jwt"
	"github.com/spf13/pflag"
)

const issuer = "shard-legends-auth"

// parsePrivateKey reads an RSA key in PKCS#1 or PKCS#8 form
func parsePrivateKey(keyBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(keyBytes)
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM private key")
	}

	switch block.Type {
	case "RSA PRIVATE KEY":
		return x509.ParsePKCS1PrivateKey(block.Bytes)
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, err
		}
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("private key is not RSA")
		}
		return rsaKey, nil
	default:
		return nil, fmt.Errorf("unsupported PEM block %q", block.Type)
	}
}

// generateToken signs a token with the same claims auth-service issues
func generateToken(key *rsa.PrivateKey, userID uuid.UUID, telegramID int64, ttl time.Duration, now time.Time) (string, error) {
	claims := &plannerjwt.CustomClaims{
		TelegramID: telegramID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func main() {
	keyFile := pflag.String("key", "private_key", "RSA private key of the auth service (PEM)")
	userIDFile := pflag.String("user-id-file", "user_id", "file with the user UUID")
	out := pflag.String("out", "token.jwt", "output file")
	telegramID := pflag.Int64("telegram-id", 0, "telegram_id claim")
	ttl := pflag.Duration("ttl", 720*time.Hour, "token lifetime")
	pflag.Parse()

	userIDBytes, err := os.ReadFile(*userIDFile)
	if err != nil {
		log.Fatalf("failed to read user_id file %s: %v", *userIDFile, err)
	}
	userID, err := uuid.Parse(strings.TrimSpace(string(userIDBytes)))
	if err != nil {
		log.Fatalf("invalid user_id in file %s: %v", *userIDFile, err)
	}

	keyBytes, err := os.ReadFile(*keyFile)
	if err != nil {
		log.Fatalf("failed to read private key file %s: %v", *keyFile, err)
	}
	key, err := parsePrivateKey(keyBytes)
	if err != nil {
		log.Fatalf("failed to parse private key from %s: %v", *keyFile, err)
	}

	tokenString, err := generateToken(key, userID, *telegramID, *ttl, time.Now())
	if err != nil {
		log.Fatal(err)
	}

	if err := os.WriteFile(*out, []byte(tokenString), 0o600); err != nil {
		log.Fatalf("failed to write token to file %s: %v", *out, err)
	}

	absPath, _ := filepath.Abs(*out)
	fmt.Printf("JWT токен сохранён в %s\n", absPath)
}
