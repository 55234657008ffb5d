package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// SignedURLSigner creates and validates signed media tokens.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewSignedURLSigner constructs a signer with the provided secret and TTL.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SignedURLSigner{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Generate returns a token binding a scope (e.g. "photo") to a stored path.
func (s *SignedURLSigner) Generate(scope, relPath string) (string, time.Time, error) {
	if scope == "" || relPath == "" {
		return "", time.Time{}, fmt.Errorf("scope and relPath required")
	}
	if strings.Contains(scope, ".") {
		return "", time.Time{}, fmt.Errorf("scope must not contain dots")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := time.Now().Add(s.ttl)
	encodedPath := base64.RawURLEncoding.EncodeToString([]byte(relPath))
	ts := fmt.Sprintf("%d", expiresAt.Unix())
	signature := s.sign(scope, ts, encodedPath)
	token := strings.Join([]string{scope, ts, encodedPath, signature}, ".")
	return token, expiresAt, nil
}

// Parse validates a token for the expected scope and returns the stored path.
func (s *SignedURLSigner) Parse(token, scope string) (relPath string, expiresAt time.Time, err error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return "", time.Time{}, fmt.Errorf("invalid token format")
	}
	if parts[0] != scope {
		return "", time.Time{}, fmt.Errorf("token scope mismatch")
	}
	ts, encodedPath, signature := parts[1], parts[2], parts[3]

	expected := s.sign(parts[0], ts, encodedPath)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return "", time.Time{}, fmt.Errorf("invalid token signature")
	}

	rawPath, err := base64.RawURLEncoding.DecodeString(encodedPath)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("decode path: %w", err)
	}
	expUnix, err := parseUnix(ts)
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt = time.Unix(expUnix, 0)
	if time.Now().After(expiresAt) {
		return "", time.Time{}, fmt.Errorf("token expired")
	}
	return string(rawPath), expiresAt, nil
}

func (s *SignedURLSigner) sign(scope, ts, encodedPath string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(scope + "|" + ts + "|" + encodedPath))
	return hex.EncodeToString(mac.Sum(nil))
}

func parseUnix(raw string) (int64, error) {
	var ts int64
	_, err := fmt.Sscanf(raw, "%d", &ts)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp")
	}
	return ts, nil
}
