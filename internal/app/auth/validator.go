// Package auth verifies mini-app launch data and issues opaque tokens.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/dkeye/Helpline/internal/domain"
)

const (
	hashField = "hash"
	userField = "user"
)

var (
	ErrEmptyPayload     = errors.New("webAppData is empty")
	ErrMalformedPayload = errors.New("webAppData is malformed")
	ErrMissingHash      = errors.New("hash is missing")
	ErrHashMismatch     = errors.New("hash mismatch")
	ErrMissingUser      = errors.New("user object missing in webAppData")
	ErrMalformedUser    = errors.New("cannot parse user object")
)

// Validator checks the HMAC-SHA256 signature the messenger host attaches to
// launch data, keyed with the bot's shared secret.
type Validator struct {
	secret []byte
}

func NewValidator(secret string) *Validator {
	return &Validator{secret: []byte(secret)}
}

// Validate returns the embedded user when the payload is authentic.
func (v *Validator) Validate(webAppData string) (*domain.MaxUser, error) {
	if strings.TrimSpace(webAppData) == "" {
		return nil, ErrEmptyPayload
	}
	fields, err := ParseWebAppData(webAppData)
	if err != nil {
		return nil, err
	}
	provided := fields[hashField]
	delete(fields, hashField)
	if strings.TrimSpace(provided) == "" {
		return nil, ErrMissingHash
	}

	expected := Sign(v.secret, DataCheckString(fields))
	if !hmac.Equal([]byte(strings.ToLower(provided)), []byte(expected)) {
		return nil, ErrHashMismatch
	}

	raw := fields[userField]
	if strings.TrimSpace(raw) == "" {
		return nil, ErrMissingUser
	}
	var user domain.MaxUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedUser, err)
	}
	return &user, nil
}

// ParseWebAppData splits a query-string style payload. Empty pairs and pairs
// without '=' are ignored; later duplicates win.
func ParseWebAppData(src string) (map[string]string, error) {
	out := make(map[string]string)
	for _, pair := range strings.Split(src, "&") {
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		val, err := url.QueryUnescape(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		out[key] = val
	}
	return out, nil
}

// DataCheckString joins key=value lines sorted by key.
func DataCheckString(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+fields[k])
	}
	return strings.Join(lines, "\n")
}

// Sign returns the lowercase hex HMAC-SHA256 of data.
func Sign(secret []byte, data string) string {
	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}
