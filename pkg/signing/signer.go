package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMalformed = errors.New("invalid token format")
	ErrSignature = errors.New("invalid token signature")
	ErrExpired   = errors.New("token expired")
)

// Signer issues tamper-evident tokens carrying a JSON payload and an expiry.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner constructs a signer with the provided secret and TTL.
func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign encodes v as JSON and returns "<expiry>.<payload>.<signature>".
func (s *Signer) Sign(v interface{}) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("encode payload: %w", err)
	}
	expiresAt := s.now().Add(s.ttl)
	ts := strconv.FormatInt(expiresAt.Unix(), 10)
	encoded := base64.RawURLEncoding.EncodeToString(raw)
	return strings.Join([]string{ts, encoded, s.mac(ts, encoded)}, "."), expiresAt, nil
}

// Verify checks the token and decodes its payload into v.
func (s *Signer) Verify(token string, v interface{}) (time.Time, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return time.Time{}, ErrMalformed
	}
	ts, encoded, signature := parts[0], parts[1], parts[2]

	if !hmac.Equal([]byte(s.mac(ts, encoded)), []byte(signature)) {
		return time.Time{}, ErrSignature
	}

	expUnix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return time.Time{}, ErrMalformed
	}
	expiresAt := time.Unix(expUnix, 0)
	if s.now().After(expiresAt) {
		return expiresAt, ErrExpired
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return expiresAt, nil
}

func (s *Signer) mac(ts, encoded string) string {
	m := hmac.New(sha256.New, s.secret)
	_, _ = m.Write([]byte(ts + "|" + encoded))
	return hex.EncodeToString(m.Sum(nil))
}
