package api

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// Signer signs and verifies opaque string values with HMAC-SHA256 keyed by
// the configured secret key. Signed values look like "value.signature".
type Signer struct {
	key []byte
}

// NewSigner creates a Signer from the secret key setting.
func NewSigner(secret string) *Signer {
	return &Signer{key: []byte(secret)}
}

// Sign returns the value with its signature appended.
func (s *Signer) Sign(value string) string {
	return value + "." + s.signature(value)
}

// Verify splits a signed value, checks the signature in constant time, and
// returns the original value.
func (s *Signer) Verify(signed string) (string, bool) {
	idx := strings.LastIndexByte(signed, '.')
	if idx < 0 {
		return "", false
	}
	value, sig := signed[:idx], signed[idx+1:]
	if !hmac.Equal([]byte(sig), []byte(s.signature(value))) {
		return "", false
	}
	return value, true
}

func (s *Signer) signature(value string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func newSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	return hex.EncodeToString(buf)
}
