package util

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultSessionTTLDays = 7

var (
	ErrInvalidToken  = errors.New("invalid session token")
	ErrExpiredToken  = errors.New("session token expired")
	ErrMissingSecret = errors.New("session secret is not configured")
)

// SessionPayload 세션 토큰에 담기는 값. 서버 측 세션 저장소는 없다.
type SessionPayload struct {
	Sub string `json:"sub"`
	Iat int64  `json:"iat"`
	Exp int64  `json:"exp"`
}

// SessionCodec signs and verifies tokens of the form
// base64url(payload JSON) + "." + base64url(HMAC-SHA256(payload_b64, secret)).
type SessionCodec struct {
	secret []byte
	now    func() time.Time
}

func NewSessionCodec(secret string) *SessionCodec {
	return &SessionCodec{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Sign issues a token for userID valid for ttlDays (DefaultSessionTTLDays when ttlDays <= 0).
func (c *SessionCodec) Sign(userID string, ttlDays int) (string, error) {
	if len(c.secret) == 0 {
		return "", ErrMissingSecret
	}
	if userID == "" {
		return "", ErrInvalidToken
	}
	if ttlDays <= 0 {
		ttlDays = DefaultSessionTTLDays
	}

	issued := c.now()
	payload := SessionPayload{
		Sub: userID,
		Iat: issued.Unix(),
		Exp: issued.Add(time.Duration(ttlDays) * 24 * time.Hour).Unix(),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	body := base64.RawURLEncoding.EncodeToString(raw)
	sig, err := jwt.SigningMethodHS256.Sign(body, c.secret)
	if err != nil {
		return "", err
	}
	return body + "." + base64.RawURLEncoding.EncodeToString(sig), nil
}

// Verify returns the payload of a well-formed, correctly signed, unexpired token.
// Every other input yields an error; callers must treat any error as "no session".
func (c *SessionCodec) Verify(token string) (*SessionPayload, error) {
	if len(c.secret) == 0 {
		return nil, ErrMissingSecret
	}

	parts := strings.Split(token, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, ErrInvalidToken
	}

	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, ErrInvalidToken
	}
	// SigningMethodHMAC.Verify compares with hmac.Equal (constant time).
	if err := jwt.SigningMethodHS256.Verify(parts[0], sig, c.secret); err != nil {
		return nil, ErrInvalidToken
	}

	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, ErrInvalidToken
	}
	var payload SessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Sub == "" {
		return nil, ErrInvalidToken
	}

	if payload.Exp <= c.now().Unix() {
		return nil, ErrExpiredToken
	}
	return &payload, nil
}
