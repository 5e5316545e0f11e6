package config

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenLifetime = 30 * 24 * time.Hour

type JWT struct {
	publicKey     *rsa.PublicKey
	privateKey    *rsa.PrivateKey
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

// loadPEM reads the PEM from env variable name, or from the file named by
// name+"_FILE".
func loadPEM(name string) ([]byte, error) {
	if value, ok := os.LookupEnv(name); ok {
		return []byte(value), nil
	}
	path, ok := os.LookupEnv(name + "_FILE")
	if !ok {
		return nil, fmt.Errorf("no %s or %s_FILE env variable set", name, name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}
	return data, nil
}

func NewJWT() (*JWT, error) {
	privatePEM, err := loadPEM("JWT_PRIVATE_KEY")
	if err != nil {
		return nil, err
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT private key: %w", err)
	}

	publicPEM, err := loadPEM("JWT_PUBLIC_KEY")
	if err != nil {
		return nil, err
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT public key: %w", err)
	}

	lifetime := defaultTokenLifetime
	if s, ok := os.LookupEnv("JWT_TOKEN_LIFETIME"); ok {
		if lifetime, err = time.ParseDuration(s); err != nil {
			return nil, fmt.Errorf("invalid JWT_TOKEN_LIFETIME: %w", err)
		}
	}
	return newJWT(privateKey, publicKey, lifetime), nil
}

// NewJWTFromKey signs and verifies with a single key pair.
func NewJWTFromKey(privateKey *rsa.PrivateKey, lifetime time.Duration) *JWT {
	return newJWT(privateKey, &privateKey.PublicKey, lifetime)
}

func newJWT(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, lifetime time.Duration) *JWT {
	return &JWT{
		privateKey:    privateKey,
		publicKey:     publicKey,
		signingMethod: jwt.SigningMethodRS256,
		tokenLifetime: lifetime,
	}
}

func (j *JWT) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.privateKey)
}

// Issue stamps claims with an issue and expiry time and signs them.
func (j *JWT) Issue(claims *PlayerClaims) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(j.tokenLifetime))
	return j.Sign(claims)
}

func (j *JWT) ParseWithClaims(tokenString string, claims jwt.Claims) (*jwt.Token, error) {
	return jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return j.publicKey, nil
		},
		jwt.WithValidMethods([]string{j.signingMethod.Alg()}),
	)
}
