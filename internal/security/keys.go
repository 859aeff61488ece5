package security

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const keySize = 32

// Keys holds the independent secrets derived from the configured master secret
type Keys struct {
	Session []byte
	CSRF    []byte
}

// DeriveKeys expands one master secret into purpose-bound keys with HKDF-SHA256
func DeriveKeys(master string) (Keys, error) {
	if master == "" {
		return Keys{}, fmt.Errorf("master secret is required")
	}

	session, err := deriveKey(master, "codespark session v1")
	if err != nil {
		return Keys{}, err
	}
	csrf, err := deriveKey(master, "codespark csrf v1")
	if err != nil {
		return Keys{}, err
	}

	return Keys{Session: session, CSRF: csrf}, nil
}

func deriveKey(master, info string) ([]byte, error) {
	key := make([]byte, keySize)
	r := hkdf.New(sha256.New, []byte(master), nil, []byte(info))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("failed to derive %s key: %w", info, err)
	}
	return key, nil
}
