// Package crypt encrypts personal data at rest with AES-256-GCM.
//
// Ciphertext is base64url(nonce || sealed) so it fits a plain text column.
// The key is SHA-256(APP_KEY), falling back to JWT_SECRET.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"database/sql/driver"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shashiranjanraj/foodhub/config"
)

// ErrDecrypt is returned when a value cannot be opened with the current key.
var ErrDecrypt = errors.New("crypt: decryption failed")

func aead() (cipher.AEAD, error) {
	secret := config.Get("APP_KEY", config.JWTSecret())
	if secret == "" {
		return nil, errors.New("crypt: APP_KEY not configured")
	}
	k := sha256.Sum256([]byte(secret))

	block, err := aes.NewCipher(k[:])
	if err != nil {
		return nil, fmt.Errorf("crypt: new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypt: new GCM: %w", err)
	}
	return gcm, nil
}

// Encrypt seals plaintext with a fresh random nonce.
func Encrypt(plaintext string) (string, error) {
	gcm, err := aead()
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("crypt: nonce: %w", err)
	}
	return base64.URLEncoding.EncodeToString(gcm.Seal(nonce, nonce, []byte(plaintext), nil)), nil
}

// Decrypt opens a value produced by Encrypt.
func Decrypt(encoded string) (string, error) {
	gcm, err := aead()
	if err != nil {
		return "", err
	}
	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil || len(data) < gcm.NonceSize() {
		return "", ErrDecrypt
	}
	nonce, sealed := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plain), nil
}

// Hash returns the hex SHA-256 of input.
func Hash(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// EmailHash is the lookup key stored next to an encrypted email. Emails are
// compared case-insensitively.
func EmailHash(email string) string {
	return Hash(strings.ToLower(strings.TrimSpace(email)))
}

// String is a string column that is encrypted on write and decrypted on
// read. The zero value stores as the empty string.
type String string

// Value implements driver.Valuer.
func (s String) Value() (driver.Value, error) {
	if s == "" {
		return "", nil
	}
	return Encrypt(string(s))
}

// Scan implements sql.Scanner.
func (s *String) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*s = ""
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("crypt: cannot scan %T", src)
	}
	if raw == "" {
		*s = ""
		return nil
	}
	plain, err := Decrypt(raw)
	if err != nil {
		return err
	}
	*s = String(plain)
	return nil
}
