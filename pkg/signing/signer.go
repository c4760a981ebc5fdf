// Package signing produces RSA-SHA256 signatures for provider requests.
package signing

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoPrivateKey is returned by Sign when no private key is configured.
	ErrNoPrivateKey = errors.New("signing: private key not configured")
	// ErrInvalidKey is returned for key material that cannot be parsed.
	ErrInvalidKey = errors.New("signing: invalid key")
)

// Signer signs and verifies content.
type Signer interface {
	Sign(content []byte) ([]byte, error)
	Verify(signature, content []byte) bool
}

// RSASigner signs with PKCS #1 v1.5 over a SHA-256 digest.
type RSASigner struct {
	private *rsa.PrivateKey
	public  *rsa.PublicKey
}

// NewRSASigner creates a signer. public may be nil, in which case the public
// half of private is used for verification.
func NewRSASigner(private *rsa.PrivateKey, public *rsa.PublicKey) *RSASigner {
	if public == nil && private != nil {
		public = &private.PublicKey
	}
	return &RSASigner{private: private, public: public}
}

// Load builds a signer from key material as found in configuration: PEM text,
// or base64 of either PEM text or DER bytes. Empty strings leave that half
// unset.
func Load(privateKey, publicKey string) (*RSASigner, error) {
	var (
		priv *rsa.PrivateKey
		pub  *rsa.PublicKey
		err  error
	)
	if strings.TrimSpace(privateKey) != "" {
		if priv, err = ParsePrivateKey(privateKey); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(publicKey) != "" {
		if pub, err = ParsePublicKey(publicKey); err != nil {
			return nil, err
		}
	}
	return NewRSASigner(priv, pub), nil
}

// Sign returns the raw signature of content.
func (s *RSASigner) Sign(content []byte) ([]byte, error) {
	if s.private == nil {
		return nil, ErrNoPrivateKey
	}
	digest := sha256.Sum256(content)
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.private, crypto.SHA256, digest[:])
	if err != nil {
		return nil, fmt.Errorf("signing: %w", err)
	}
	return sig, nil
}

// Verify reports whether signature is valid for content.
func (s *RSASigner) Verify(signature, content []byte) bool {
	if s.public == nil {
		return false
	}
	digest := sha256.Sum256(content)
	return rsa.VerifyPKCS1v15(s.public, crypto.SHA256, digest[:], signature) == nil
}

// SignString signs content and returns the base64 signature.
func SignString(s Signer, content string) (string, error) {
	sig, err := s.Sign([]byte(content))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// ParsePrivateKey accepts PKCS #8 or PKCS #1 keys.
func ParsePrivateKey(material string) (*rsa.PrivateKey, error) {
	der, err := decode(material)
	if err != nil {
		return nil, err
	}
	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: not an RSA private key", ErrInvalidKey)
		}
		return rsaKey, nil
	}
	key, err := x509.ParsePKCS1PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return key, nil
}

// ParsePublicKey accepts PKIX or PKCS #1 keys.
func ParsePublicKey(material string) (*rsa.PublicKey, error) {
	der, err := decode(material)
	if err != nil {
		return nil, err
	}
	if key, err := x509.ParsePKIXPublicKey(der); err == nil {
		rsaKey, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: not an RSA public key", ErrInvalidKey)
		}
		return rsaKey, nil
	}
	key, err := x509.ParsePKCS1PublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return key, nil
}

// decode returns DER bytes from PEM or base64 input.
func decode(material string) ([]byte, error) {
	material = strings.TrimSpace(material)
	raw := []byte(material)
	if !strings.HasPrefix(material, "-----BEGIN") {
		b, err := base64.StdEncoding.DecodeString(material)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}
		raw = b
	}
	if block, _ := pem.Decode(raw); block != nil {
		return block.Bytes, nil
	}
	return raw, nil
}
