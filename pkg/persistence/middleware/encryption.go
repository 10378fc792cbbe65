package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/ooor/internal/logging"
	"github.com/aretw0/ooor/pkg/domain"
	"github.com/aretw0/ooor/pkg/ports"
)

// EnvelopeKey is the only field of an encrypted web session at rest.
const EnvelopeKey = "__encrypted__"

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey encrypts new writes. Must be 32 bytes (AES-256).
	ActiveKey []byte

	// FallbackKeys are tried in order when the active key cannot decrypt,
	// so keys can be rotated without dropping persisted sessions.
	FallbackKeys [][]byte

	// Logger reports plaintext entries written before encryption was enabled.
	// Defaults to a no-op logger.
	Logger *slog.Logger
}

type encryptionMiddleware struct {
	next   ports.SessionCache
	config EncryptionConfig
}

// NewEncryptionMiddleware seals every web session with AES-GCM before it
// reaches the underlying cache. Entries without an envelope are returned as
// plaintext so encryption can be enabled over an existing cache. It panics if
// the active key is not 32 bytes.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	if config.Logger == nil {
		config.Logger = logging.NewNop()
	}
	return func(next ports.SessionCache) ports.SessionCache {
		return &encryptionMiddleware{next: next, config: config}
	}
}

func (m *encryptionMiddleware) Write(ctx context.Context, key string, ws domain.WebSession) error {
	plain, err := json.Marshal(ws)
	if err != nil {
		return fmt.Errorf("failed to marshal web session: %w", err)
	}

	sealed, err := encrypt(plain, m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt web session: %w", err)
	}

	return m.next.Write(ctx, key, domain.WebSession{
		EnvelopeKey: base64.StdEncoding.EncodeToString(sealed),
	})
}

func (m *encryptionMiddleware) Read(ctx context.Context, key string) (domain.WebSession, error) {
	envelope, err := m.next.Read(ctx, key)
	if err != nil {
		return nil, err
	}

	encoded, ok := envelope[EnvelopeKey].(string)
	if !ok {
		// Written before encryption was turned on; the next Write seals it.
		m.config.Logger.Warn("Read a plaintext web session from an encrypted cache", "key", key)
		return envelope, nil
	}
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	plain, err := decryptWithRotation(sealed, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt web session: %w", err)
	}

	var ws domain.WebSession
	if err := json.Unmarshal(plain, &ws); err != nil {
		return nil, fmt.Errorf("failed to unmarshal web session: %w", err)
	}
	return ws, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, key string) error {
	return m.next.Delete(ctx, key)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return list(ctx, m.next)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func encrypt(plain, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func decryptWithRotation(sealed, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	for _, key := range append([][]byte{activeKey}, fallbackKeys...) {
		if plain, err := decrypt(sealed, key); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(sealed, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, body := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}
