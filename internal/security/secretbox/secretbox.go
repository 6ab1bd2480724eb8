// Package secretbox seals short secrets (OAuth tokens) before they are
// persisted. Output format: base64(nonce)|base64(box).
package secretbox

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keyLength   = 32
	nonceLength = 24
	sep         = "|"
)

var ErrMalformed = errors.New("secretbox: malformed ciphertext")

// Box seals and opens strings with one 32 byte key.
type Box struct {
	key [keyLength]byte
}

// New parses key as base64 (std or raw) or hex and returns a Box.
func New(key string) (*Box, error) {
	kb, err := decodeKey(strings.TrimSpace(key))
	if err != nil {
		return nil, err
	}
	b := &Box{}
	copy(b.key[:], kb)
	return b, nil
}

func decodeKey(key string) ([]byte, error) {
	if key == "" {
		return nil, errors.New("secretbox: empty key; generate one with: openssl rand -base64 32")
	}
	if b, err := base64.StdEncoding.DecodeString(key); err == nil && len(b) == keyLength {
		return b, nil
	}
	if b, err := base64.RawStdEncoding.DecodeString(key); err == nil && len(b) == keyLength {
		return b, nil
	}
	if len(key) == 2*keyLength {
		if b, err := hex.DecodeString(key); err == nil {
			return b, nil
		}
	}
	return nil, fmt.Errorf("secretbox: key must decode to %d bytes", keyLength)
}

// Seal encrypts plain. The empty string seals to the empty string.
func (b *Box) Seal(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}
	var nonce [nonceLength]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("secretbox: nonce: %w", err)
	}
	ct := secretbox.Seal(nil, []byte(plain), &nonce, &b.key)
	return base64.StdEncoding.EncodeToString(nonce[:]) + sep + base64.StdEncoding.EncodeToString(ct), nil
}

// Open decrypts a value produced by Seal.
func (b *Box) Open(sealed string) (string, error) {
	if sealed == "" {
		return "", nil
	}
	parts := strings.Split(sealed, sep)
	if len(parts) != 2 {
		return "", ErrMalformed
	}
	nb, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil || len(nb) != nonceLength {
		return "", ErrMalformed
	}
	ct, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", ErrMalformed
	}
	var nonce [nonceLength]byte
	copy(nonce[:], nb)

	pt, ok := secretbox.Open(nil, ct, &nonce, &b.key)
	if !ok {
		return "", errors.New("secretbox: authentication failed")
	}
	return string(pt), nil
}
