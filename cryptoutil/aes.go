package cryptoutil

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// IVSize is the AES-GCM nonce length.
	IVSize = 12

	DefaultIterations = 100_000
	DefaultHash       = "SHA-256"
	DefaultKeyBits    = 256
)

// ErrNilKey is returned by Encrypt and Decrypt when no usable key is given.
var ErrNilKey = errors.New("cryptoutil: nil key")

type InvalidKeyLengthError struct {
	Bits int
}

func (e *InvalidKeyLengthError) Error() string {
	return fmt.Sprintf("invalid AES key length: %d bits", e.Bits)
}

type InvalidIVError struct {
	Length int
}

func (e *InvalidIVError) Error() string {
	return fmt.Sprintf("invalid IV length: expected %d bytes, got %d", IVSize, e.Length)
}

// Key is an AES key ready for GCM sealing.
type Key struct {
	raw  []byte
	aead cipher.AEAD
}

// ImportKey wraps a raw 128, 192 or 256-bit AES key.
func ImportKey(raw []byte) (*Key, error) {
	switch len(raw) {
	case 16, 24, 32:
	default:
		return nil, &InvalidKeyLengthError{Bits: len(raw) * 8}
	}

	block, err := aes.NewCipher(raw)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Key{raw: bytes.Clone(raw), aead: aead}, nil
}

// GenerateKey returns a random 256-bit key.
func GenerateKey() (*Key, error) {
	raw := make([]byte, DefaultKeyBits/8)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	return ImportKey(raw)
}

func (k *Key) usable() bool {
	return k != nil && k.aead != nil
}

func (k *Key) Bytes() []byte {
	return bytes.Clone(k.raw)
}

// Encrypt seals plain under a fresh random IV, returning the IV alongside
// the ciphertext (which carries the GCM tag).
func Encrypt(plain []byte, key *Key) (iv, ciphertext []byte, err error) {
	if !key.usable() {
		return nil, nil, ErrNilKey
	}
	iv = make([]byte, IVSize)
	if _, err = rand.Read(iv); err != nil {
		return nil, nil, err
	}
	return iv, key.aead.Seal(nil, iv, plain, nil), nil
}

func Decrypt(ciphertext, iv []byte, key *Key) ([]byte, error) {
	if !key.usable() {
		return nil, ErrNilKey
	}
	if len(iv) != IVSize {
		return nil, &InvalidIVError{Length: len(iv)}
	}
	plain, err := key.aead.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plain, nil
}

type deriveOptions struct {
	iterations int
	hash       string
	keyBits    int
}

type DeriveOption func(*deriveOptions)

func WithIterations(n int) DeriveOption {
	return func(o *deriveOptions) {
		o.iterations = n
	}
}

func WithHash(name string) DeriveOption {
	return func(o *deriveOptions) {
		o.hash = name
	}
}

// WithKeyLength sets the derived key size in bits.
func WithKeyLength(bits int) DeriveOption {
	return func(o *deriveOptions) {
		o.keyBits = bits
	}
}

// DeriveKey stretches password into an AES key with PBKDF2. Without options
// it runs 100000 iterations of HMAC-SHA-256 and yields a 256-bit key.
func DeriveKey(password string, salt []byte, opts ...DeriveOption) (*Key, error) {
	o := deriveOptions{
		iterations: DefaultIterations,
		hash:       DefaultHash,
		keyBits:    DefaultKeyBits,
	}
	for _, fn := range opts {
		fn(&o)
	}

	var merr *multierror.Error
	h, err := hashFor(o.hash)
	if err != nil {
		merr = multierror.Append(merr, err)
	}
	if o.iterations < 1 {
		merr = multierror.Append(merr, fmt.Errorf("iterations must be positive, got %d", o.iterations))
	}
	switch o.keyBits {
	case 128, 192, 256:
	default:
		merr = multierror.Append(merr, &InvalidKeyLengthError{Bits: o.keyBits})
	}
	if err := merr.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("invalid key derivation parameters: %w", err)
	}

	return ImportKey(pbkdf2.Key([]byte(password), salt, o.iterations, o.keyBits/8, h))
}
