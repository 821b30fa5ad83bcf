package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tourgo/internal/common"
)

// MinRSAKeyBits is the smallest key size the key exchange accepts.
const MinRSAKeyBits = 1024

// KeyExchange owns the process-wide RSA key pair that clients use to encrypt
// passwords and recovery answers in transit. It is created once at startup
// and never regenerated while the process runs.
type KeyExchange struct {
	key       *rsa.PrivateKey
	publicPEM string
}

// NewKeyExchange generates a fresh key pair of the given size.
func NewKeyExchange(bits int) (*KeyExchange, error) {
	if bits < MinRSAKeyBits {
		return nil, fmt.Errorf("rsa key size %d below minimum %d", bits, MinRSAKeyBits)
	}
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("generate rsa key: %w", err)
	}
	return newKeyExchange(key)
}

func newKeyExchange(key *rsa.PrivateKey) (*KeyExchange, error) {
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("marshal public key: %w", err)
	}
	block := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return &KeyExchange{key: key, publicPEM: string(block)}, nil
}

// PublicKeyPEM returns the PKIX public key as PEM text.
func (k *KeyExchange) PublicKeyPEM() string {
	return k.publicPEM
}

// Decrypt decodes base64 ciphertext and decrypts it with PKCS#1 v1.5.
// Every failure is reported as common.ErrDecryption so callers cannot tell
// padding errors from encoding errors.
func (k *KeyExchange) Decrypt(ciphertext string) ([]byte, error) {
	raw, err := decodeBase64(strings.TrimSpace(ciphertext))
	if err != nil {
		return nil, common.ErrDecryption
	}
	plain, err := rsa.DecryptPKCS1v15(rand.Reader, k.key, raw)
	if err != nil {
		return nil, common.ErrDecryption
	}
	return plain, nil
}

// EncryptWithPublicKey is the client side of the exchange: it parses a PEM
// public key and returns base64 ciphertext of plaintext.
func EncryptWithPublicKey(publicPEM string, plaintext []byte) (string, error) {
	block, _ := pem.Decode([]byte(publicPEM))
	if block == nil {
		return "", fmt.Errorf("no PEM block in public key")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return "", fmt.Errorf("parse public key: %w", err)
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return "", fmt.Errorf("public key is %T, want RSA", pub)
	}
	out, err := rsa.EncryptPKCS1v15(rand.Reader, rsaPub, plaintext)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(out), nil
}

func decodeBase64(s string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}
