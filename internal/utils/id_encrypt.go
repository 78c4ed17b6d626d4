package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// Numeric gig IDs are never exposed raw on public routes. They travel as
// AES-CFB ciphertext with a random IV, base64url-encoded, so listing URLs
// are not enumerable.

func EncryptID(id uint, key string) (string, error) {
	plaintext := []byte(fmt.Sprintf("%d", id))

	k := []byte(key)
	if len(k) != 16 && len(k) != 24 && len(k) != 32 {
		return "", fmt.Errorf("invalid key length: %d (must be 16/24/32)", len(k))
	}

	block, err := aes.NewCipher(k)
	if err != nil {
		return "", err
	}

	ciphertext := make([]byte, aes.BlockSize+len(plaintext))
	iv := ciphertext[:aes.BlockSize]
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("failed to read random iv: %w", err)
	}

	stream := cipher.NewCFBEncrypter(block, iv)
	stream.XORKeyStream(ciphertext[aes.BlockSize:], plaintext)

	return base64.RawURLEncoding.EncodeToString(ciphertext), nil
}

func DecryptID(enc string, key string) (uint, error) {
	if enc == "" {
		return 0, fmt.Errorf("empty encrypted id")
	}

	ciphertext, err := base64.RawURLEncoding.DecodeString(enc)
	if err != nil {
		return 0, fmt.Errorf("decode base64 failed: %w", err)
	}
	if len(ciphertext) < aes.BlockSize {
		return 0, fmt.Errorf("ciphertext too short: len=%d", len(ciphertext))
	}

	k := []byte(key)
	if len(k) != 16 && len(k) != 24 && len(k) != 32 {
		return 0, fmt.Errorf("invalid key length: %d (must be 16/24/32)", len(k))
	}

	block, err := aes.NewCipher(k)
	if err != nil {
		return 0, err
	}

	iv := ciphertext[:aes.BlockSize]
	body := ciphertext[aes.BlockSize:]

	plaintext := make([]byte, len(body))
	stream := cipher.NewCFBDecrypter(block, iv)
	stream.XORKeyStream(plaintext, body)

	var id uint
	if _, err := fmt.Sscanf(string(plaintext), "%d", &id); err != nil {
		return 0, fmt.Errorf("parse id failed: %w", err)
	}

	return id, nil
}
