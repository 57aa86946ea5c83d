package session

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"golang.org/x/crypto/argon2"
)

// The token cache lets a restart within the token's lifetime skip the
// login screen. The token is sealed with AES-256-GCM under a key derived
// from machine-local identity, so the file is useless when copied to
// another machine. It is a convenience seal, not a vault: anyone with the
// same local account can open it, exactly like the browser cookie jar the
// original product relied on.

const (
	keychainMagic = "PDSKTOK1"

	saltLength = 32

	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32
)

// Keychain seals and opens the cached session token under dir (typically
// ~/.pickdesk).
type Keychain struct {
	dir string
}

// NewKeychain creates a keychain rooted at dir, creating it when missing.
func NewKeychain(dir string) (*Keychain, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create keychain directory: %w", err)
	}
	return &Keychain{dir: dir}, nil
}

func (k *Keychain) path() string {
	return filepath.Join(k.dir, "session.tok")
}

// SaveToken seals the token to disk, replacing any previous one.
func (k *Keychain) SaveToken(token string) error {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}

	gcm, err := newGCM(salt)
	if err != nil {
		return err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, []byte(token), []byte(keychainMagic))

	var buf bytes.Buffer
	buf.WriteString(keychainMagic)
	buf.Write(salt)
	buf.Write(nonce)
	buf.Write(sealed)

	tmp := k.path() + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write token cache: %w", err)
	}
	if err := os.Rename(tmp, k.path()); err != nil {
		return fmt.Errorf("replace token cache: %w", err)
	}
	return nil
}

// LoadToken opens the sealed token. A missing file returns "", nil; a
// corrupted or foreign file returns an error.
func (k *Keychain) LoadToken() (string, error) {
	data, err := os.ReadFile(k.path())
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token cache: %w", err)
	}

	if len(data) < len(keychainMagic)+saltLength {
		return "", fmt.Errorf("token cache too short")
	}
	if string(data[:len(keychainMagic)]) != keychainMagic {
		return "", fmt.Errorf("token cache has wrong header")
	}
	data = data[len(keychainMagic):]

	salt := data[:saltLength]
	data = data[saltLength:]

	gcm, err := newGCM(salt)
	if err != nil {
		return "", err
	}
	if len(data) < gcm.NonceSize() {
		return "", fmt.Errorf("token cache too short for nonce")
	}
	nonce := data[:gcm.NonceSize()]
	sealed := data[gcm.NonceSize():]

	token, err := gcm.Open(nil, nonce, sealed, []byte(keychainMagic))
	if err != nil {
		return "", fmt.Errorf("open token cache: %w", err)
	}
	return string(token), nil
}

// DeleteToken removes the cached token. Missing file is not an error.
func (k *Keychain) DeleteToken() error {
	if err := os.Remove(k.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete token cache: %w", err)
	}
	return nil
}

func newGCM(salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey([]byte(machineSecret()), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}
	return gcm, nil
}

// machineSecret builds the key-derivation input from machine-local
// identity. Best effort; each component degrades independently.
func machineSecret() string {
	host, _ := os.Hostname()
	uid := ""
	if u, err := user.Current(); err == nil {
		uid = u.Uid
	}
	return "pickdesk:" + host + ":" + uid
}
